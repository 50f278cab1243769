package telnet

import "context"

// Reader is the read half of the shell callback interface: it yields
// complete lines the negotiation/editor pipeline has already
// normalized. Line bytes are returned as received; no charset decoding
// is applied, whatever the session's configured encoding.
type Reader struct {
	session *Session
}

// ReadLine blocks until a complete line is available, the session
// closes, or ctx is cancelled.
func (r *Reader) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-r.session.lineCh:
		return line, nil
	case <-r.session.closeCh:
		return "", ErrConnectionClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ReadFunction blocks until an SLC editing/signal function (IP, AO, BRK,
// EC, EL, EOF, SUSP, XON, XOFF, ...) arrives, whether recognized locally
// in KLUDGE/LOCAL mode or sent as a plain IAC command, the session
// closes, or ctx is cancelled.
func (r *Reader) ReadFunction(ctx context.Context) (SLCFunction, error) {
	select {
	case fn := <-r.session.funcCh:
		return fn, nil
	case <-r.session.closeCh:
		return 0, ErrConnectionClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// SessionWriter is the write half of the shell callback interface.
type SessionWriter struct {
	session *Session
}

// Write sends text to the peer, applying IAC-doubling and the current
// EOL policy.
func (w *SessionWriter) Write(text string) error {
	writer := NewWriter(w.session.parser)
	w.session.send(writer.Data([]byte(text)))
	return nil
}

// Echo writes b back to the peer as a local echo, only meaningful when
// WillEcho is true (we are echoing on the peer's behalf).
func (w *SessionWriter) Echo(b byte) {
	writer := NewWriter(w.session.parser)
	w.session.send(writer.Echo(b))
}

// WillEcho reports whether this side has ECHO enabled locally (we are
// echoing for the peer).
func (w *SessionWriter) WillEcho() bool {
	return w.session.parser.Options.Get(OptEcho).LocalState == Enabled
}

// Mode returns the session's current derived editing mode.
func (w *SessionWriter) Mode() EditMode {
	return w.session.Mode()
}

// NAWS returns the peer's last-reported window dimensions.
func (w *SessionWriter) NAWS() NAWS {
	return w.session.NAWS()
}

// SendNAWS announces an updated local window size, the update a client
// sends when its terminal is resized after NAWS has already been
// negotiated on.
func (w *SessionWriter) SendNAWS(n NAWS) {
	w.session.mu.Lock()
	w.session.naws = n
	w.session.mu.Unlock()
	w.session.send(EncodeNAWS(n))
}

// RemoteOption and LocalOption expose the compatibility entry for opt,
// for shells that want to branch on negotiated state directly.
func (w *SessionWriter) RemoteOption(opt byte) OptionState {
	return w.session.parser.Options.Get(opt).RemoteState
}

func (w *SessionWriter) LocalOption(opt byte) OptionState {
	return w.session.parser.Options.Get(opt).LocalState
}

// WaitFor and WaitForCondition proxy to the owning Session.
func (w *SessionWriter) WaitFor(remote, local map[byte]OptionState) <-chan error {
	return w.session.WaitFor(remote, local)
}

func (w *SessionWriter) WaitForCondition(pred func(*CompatibilityTable) bool) <-chan error {
	return w.session.WaitForCondition(pred)
}

// Drain blocks until every byte queued so far has been handed to the
// transport, or the session closes. It works by pushing a zero-length
// marker through sendCh behind whatever is already queued and waiting
// for the write loop to reach it, rather than polling.
func (w *SessionWriter) Drain(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.session.sendCh <- sendItem{Ack: ack}:
	case <-w.session.closeCh:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-w.session.closeCh:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the owning session.
func (w *SessionWriter) Close() {
	w.session.Close()
}

// WaitClosed returns a channel closed once the session has closed.
func (w *SessionWriter) WaitClosed() <-chan struct{} {
	return w.session.closeCh
}
