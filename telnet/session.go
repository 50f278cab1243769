package telnet

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Session ties the parser, editor, per-option state, and a Transport
// together for one connection. A read loop decodes input and runs the
// handlers that update session state; a write loop hands queued bytes to
// the transport and touches no other state.
type Session struct {
	cfg       Config
	transport Transport
	parser    *Parser
	out       *OutputBuffer
	editor    *Editor
	env       *EnvTable
	ttype     *TTYPECycle
	linemode  *LinemodeState
	waiters   *Waiters
	log       *slog.Logger

	mu         sync.Mutex
	closed     bool
	naws       NAWS
	lflow      LFlowState
	charset    string
	lastStatus []string
	pendingCR  bool

	sendCh  chan sendItem
	lineCh  chan string
	funcCh  chan SLCFunction
	closeCh chan struct{}

	settledOnce sync.Once
	settledCh   chan struct{}

	onStatusMismatch func([]string)
}

// NewSession builds a session for transport using cfg. role selects the
// LINEMODE-asymmetric compatibility defaults (client never DO LINEMODE,
// server never WILL LINEMODE).
func NewSession(cfg Config, transport Transport, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	slcTable := cfg.DefaultSLCTable
	if slcTable == nil {
		slcTable = DefaultSLCTable()
	}
	return &Session{
		cfg:       cfg,
		transport: transport,
		parser:    NewParserForRole(cfg.Role),
		out:       NewOutputBuffer(TelnetModeUnterminated),
		editor:    NewEditor(slcTable),
		env:       NewEnvTable(),
		ttype:     &TTYPECycle{},
		linemode:  &LinemodeState{},
		waiters:   NewWaiters(),
		log:       log,
		sendCh:    make(chan sendItem, 256),
		lineCh:    make(chan string, 256),
		funcCh:    make(chan SLCFunction, 256),
		closeCh:   make(chan struct{}),
		settledCh: make(chan struct{}),
	}
}

// OnStatusMismatch registers an opt-in reconciliation hook, invoked with
// the list of option names where the peer's reported STATUS disagreed
// with our local view. The default behaviour (hook unset) is log-only.
func (s *Session) OnStatusMismatch(fn func(mismatched []string)) {
	s.onStatusMismatch = fn
}

// Options exposes the live compatibility table for inspection (snapshot
// semantics: callers read it, only Session mutates it).
func (s *Session) Options() *CompatibilityTable {
	return s.parser.Options
}

// WaitFor registers a predicate over remote/local option state and
// returns a channel that fires once, when satisfied or on close.
func (s *Session) WaitFor(remote, local map[byte]OptionState) <-chan error {
	return s.waiters.Register(WaitFor(remote, local))
}

// WaitForCondition registers an arbitrary predicate over the
// compatibility table.
func (s *Session) WaitForCondition(pred func(*CompatibilityTable) bool) <-chan error {
	return s.waiters.Register(pred)
}

// NAWS returns the last negotiated terminal size.
func (s *Session) NAWS() NAWS {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.naws
}

// Charset returns the currently agreed encoding name, or "" if none has
// been agreed.
func (s *Session) Charset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.charset
}

// Mode returns the engine's current derived editing mode.
func (s *Session) Mode() EditMode {
	return s.parser.DeriveMode()
}

// OutputBuffer exposes the session's prompt-tracking buffer, for a shell
// that wants unterminated-prompt display behaviour (no trailing newline
// from the peer yet, but data has arrived) rather than strict line
// delivery via Reader.ReadLine.
func (s *Session) OutputBuffer() *OutputBuffer {
	return s.out
}

// Run drives the session to completion: it launches the read and write
// loops, waits until negotiation has settled (or connect_maxwait has
// elapsed, or the session has closed), then invokes shell. Run sends no
// negotiation offers of its own; it answers what the peer sends. When
// shell returns, Run closes the session at once, so output still queued
// at that moment may be dropped (SessionWriter.Drain waits for it to be
// written). Run returns once shell has returned and both loops stopped.
func (s *Session) Run(ctx context.Context, shell Shell) error {
	var wg sync.WaitGroup
	readErrCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		readErrCh <- s.readLoop(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writeLoop(ctx)
	}()

	go s.watchSettle()

	select {
	case <-s.settledCh:
	case <-s.closeCh:
	case <-ctx.Done():
	}

	if shell != nil {
		reader := &Reader{session: s}
		writer := &SessionWriter{session: s}
		shell(ctx, reader, writer)
	}

	s.Close()
	wg.Wait()
	return <-readErrCh
}

// watchSettle fires the "negotiation settled" signal either when every
// option this session supports has left its PENDING states, or when
// connect_maxwait elapses, whichever is first. Expiry does not fail the
// session.
func (s *Session) watchSettle() {
	maxWait := s.cfg.ConnectMaxWait
	if maxWait <= 0 {
		maxWait = 2 * time.Second
	}
	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	settled := s.waiters.Register(func(table *CompatibilityTable) bool {
		for opt := 0; opt < 256; opt++ {
			e := table.Get(byte(opt))
			if (e.Local || e.Remote) && (e.LocalState == PendingOn || e.LocalState == PendingOff ||
				e.RemoteState == PendingOn || e.RemoteState == PendingOff) {
				return false
			}
		}
		return true
	})

	select {
	case <-settled:
	case <-timer.C:
	case <-s.closeCh:
		return
	}
	s.settledOnce.Do(func() { close(s.settledCh) })
}

// Settled returns a channel closed once negotiation has settled (or
// connect_maxwait expired).
func (s *Session) Settled() <-chan struct{} {
	return s.settledCh
}

func (s *Session) readLoop(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		n, err := s.transport.Read(ctx, buf)
		if err != nil {
			s.Close()
			return err
		}
		if n == 0 {
			continue
		}
		for _, ev := range s.parser.Receive(buf[:n]) {
			s.handleEvent(ctx, ev)
		}
	}
}

// sendItem is one entry in the outbound queue. A nil Data with a non-nil
// Ack is a drain marker: the write loop closes Ack once every item ahead
// of it has been handed to the transport, without writing anything
// itself.
type sendItem struct {
	Data []byte
	Ack  chan struct{}
}

func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-s.closeCh:
			return
		case item := <-s.sendCh:
			if item.Ack != nil {
				close(item.Ack)
				continue
			}
			if _, err := s.transport.Write(ctx, item.Data); err != nil {
				s.Close()
				return
			}
		}
	}
}

func (s *Session) send(data []byte) {
	select {
	case s.sendCh <- sendItem{Data: data}:
	case <-s.closeCh:
	}
}

func (s *Session) handleEvent(ctx context.Context, ev TelnetEvent) {
	switch ev.Kind {
	case TelnetEventDataSend:
		s.send(ev.Data)

	case TelnetEventDataReceive:
		s.handleData(ev.Data)

	case TelnetEventIAC:
		s.handleCommand(ev.Command)

	case TelnetEventNegotiation:
		s.waiters.Evaluate(s.parser.Options)
		s.runPostEnableHook(ev.Verb, ev.Option)

	case TelnetEventSubnegotiation:
		s.dispatchSubnegotiation(ev.Option, ev.Data)

	case TelnetEventSubnegotiationMalformed:
		s.log.Warn("malformed subnegotiation", "option", OptionName(ev.Option), "reason", ev.Reason)

	case TelnetEventUnknownCommand:
		s.log.Debug("unknown IAC command", "command", ev.Command)

	case TelnetEventDecompressImmediate:
		s.log.Info("peer switched to compressed stream; this engine does not decompress")
	}
}

// handleData applies the line terminator rules (CR LF, CR NUL, bare CR,
// bare LF) and, in KLUDGE and LOCAL modes, the SLC editing rules, to one
// DataReceive chunk. CR is recognized as a terminator candidate directly
// rather than via SLCFORW1 matching: the
// default SLC table still binds FORW1 to CR for protocol fidelity (a peer
// may query or renegotiate it), but this engine's own line-splitting does
// not depend on that binding.
func (s *Session) handleData(data []byte) {
	s.out.Receive(data)
	binary := s.parser.Options.Get(OptBinary).RemoteState == Enabled
	if binary || s.cfg.ForceBinary {
		select {
		case s.lineCh <- string(data):
		case <-s.closeCh:
		}
		return
	}

	mode := s.parser.DeriveMode()
	editing := mode == ModeKludge || mode == ModeLocal
	for _, b := range data {
		if s.pendingCR {
			s.pendingCR = false
			switch b {
			case '\n', 0:
				s.emitLine()
				continue
			default:
				s.emitLine()
				// fall through: b itself still needs handling below
			}
		}
		switch b {
		case '\r':
			s.pendingCR = true
		case '\n':
			s.emitLine()
		default:
			if !editing {
				s.editor.line = append(s.editor.line, b)
			} else if result := s.editor.Feed(b); result.Matched {
				s.emitFunction(result.Function)
			}
		}
	}
}

func (s *Session) emitLine() {
	line := s.editor.TakeLine()
	select {
	case s.lineCh <- string(line):
	case <-s.closeCh:
	}
}

// emitFunction surfaces an SLC editing/signal function to the shell,
// whether it was recognized locally in KLUDGE/LOCAL mode (handleData) or
// arrived as an unhandled IAC command (handleCommand).
func (s *Session) emitFunction(fn SLCFunction) {
	select {
	case s.funcCh <- fn:
	case <-s.closeCh:
	}
}

func (s *Session) handleCommand(cmd byte) {
	switch cmd {
	case CmdGA, CmdEOR:
		// Turn-taking marker; no state to update beyond what the output
		// buffer already tracks for prompt detection.
	case CmdAYT:
		s.log.Debug("received AYT")
	case CmdIP:
		s.emitFunction(SLCIP)
	case CmdAO:
		s.emitFunction(SLCAO)
	case CmdBRK:
		s.emitFunction(SLCBrk)
	case CmdEC:
		s.emitFunction(SLCEC)
	case CmdEL:
		s.emitFunction(SLCEL)
	}
}

// runPostEnableHook fires exactly-once-per-ENABLED-transition hooks:
// the peer enabling TTYPE (WILL) kicks off the SEND cycle, either side
// enabling CHARSET sends our REQUEST, enabling LINEMODE on the remote
// side (server) primes the SLC table.
func (s *Session) runPostEnableHook(verb, opt byte) {
	entry := s.parser.Options.Get(opt)
	switch opt {
	case OptTTYPE:
		if verb == CmdWILL && entry.RemoteState == Enabled {
			s.send(SendTTYPE())
		}
	case OptCharset:
		if (verb == CmdWILL && entry.RemoteState == Enabled) || (verb == CmdDO && entry.LocalState == Enabled) {
			names := s.cfg.CharsetPolicy.Supported
			if len(names) == 0 {
				names = DefaultCharsetPolicy().Supported
			}
			s.send(SendCharsetRequest(names, ';'))
		}
	case OptLinemode:
		if entry.RemoteState == Enabled && s.cfg.Role == RoleServer {
			s.send(EncodeSLCTable(s.editor.slc))
		}
	case OptEcho:
		// No action: echo policy is read by the SessionWriter on demand.
	}

	if opt == OptEOR || opt == OptSGA {
		if s.parser.Options.Get(OptEOR).LocalState == Enabled || s.parser.Options.Get(OptSGA).LocalState == Enabled {
			s.out.SetMode(TelnetModeTerminatedPrompt)
		} else {
			s.out.SetMode(TelnetModeUnterminated)
		}
	}
}

func (s *Session) dispatchSubnegotiation(opt byte, payload []byte) {
	switch opt {
	case OptTTYPE:
		s.handleTTYPE(payload)
	case OptNAWS:
		s.handleNAWS(payload)
	case OptNewEnviron, OptOldEnviron:
		s.handleEnviron(payload)
	case OptCharset:
		s.handleCharset(payload)
	case OptLinemode:
		s.handleLinemode(payload)
	case OptStatus:
		s.handleStatus(payload)
	case OptLFLOW:
		s.mu.Lock()
		s.lflow = ApplyLFlow(s.lflow, payload)
		s.mu.Unlock()
	case OptTSPEED, OptXDISPLOC, OptSNDLOC:
		if opt == OptTSPEED && len(payload) >= 1 && payload[0] == SubSEND {
			s.send(EncodeStringIS(OptTSPEED, s.cfg.Speed))
			return
		}
		// Informational string exchange; surfaced via Session accessors
		// would require per-option storage this package does not yet
		// expose beyond logging.
		if v, ok := ParseStringIS(payload); ok {
			s.log.Debug("received string option", "option", OptionName(opt), "value", v)
		}
	default:
		s.log.Debug("unhandled subnegotiation", "option", OptionName(opt), "len", len(payload))
	}
}

func (s *Session) handleTTYPE(payload []byte) {
	if len(payload) >= 1 && payload[0] == SubSEND {
		s.send(EncodeTTYPEIs(s.cfg.Term))
		return
	}
	name, keepCycling := s.ttype.Feed(payload)
	if name == "" {
		return
	}
	if keepCycling {
		s.send(SendTTYPE())
	}
}

func (s *Session) handleNAWS(payload []byte) {
	naws, ok := ParseNAWS(payload)
	if !ok {
		s.log.Warn("malformed NAWS subnegotiation", "len", len(payload))
		return
	}
	s.mu.Lock()
	s.naws = naws
	s.mu.Unlock()
}

func (s *Session) handleEnviron(payload []byte) {
	if len(payload) < 1 {
		return
	}
	switch payload[0] {
	case SubSEND:
		names := s.cfg.SendEnviron
		if names == nil {
			names = WellKnownEnvVars
		}
		var entries []EnvEntry
		for _, n := range names {
			if e, ok := s.env.Get(n); ok {
				entries = append(entries, e)
			}
		}
		s.send(EncodeEnvIS(entries))
	case SubIS, SubINFO:
		for _, e := range ParseEnvIS(payload[1:]) {
			s.env.Set(e)
		}
	}
}

func (s *Session) handleCharset(payload []byte) {
	if len(payload) < 1 {
		return
	}
	switch payload[0] {
	case CharsetREQUEST:
		offered := ParseCharsetRequest(payload[1:])
		chosen, ok := ChooseCharset(s.cfg.CharsetPolicy, offered)
		if !ok {
			s.send(EncodeCharsetRejected())
			return
		}
		s.mu.Lock()
		s.charset = chosen
		s.mu.Unlock()
		s.send(EncodeCharsetAccepted(chosen))
	case CharsetACCEPTED:
		s.mu.Lock()
		s.charset = string(payload[1:])
		s.mu.Unlock()
	case CharsetREJECTED:
		s.log.Info("peer rejected our charset offer")
	}
}

func (s *Session) handleLinemode(payload []byte) {
	if len(payload) < 1 {
		return
	}
	switch payload[0] {
	case LMModeCmd:
		if len(payload) < 2 {
			return
		}
		if reply, _ := s.linemode.ReceiveMode(payload[1]); reply != nil {
			s.send(reply)
		}
	case LMForwardMaskCmd:
		if _, ok := ParseForwardMask(payload[1:]); !ok {
			s.log.Warn("malformed FORWARDMASK", "len", len(payload)-1)
		}
	case LMSlcCmd:
		result := ApplySLCTriples(s.editor.slc, payload[1:])
		s.editor.slc = result.Table
		if result.Reply != nil {
			s.send(result.Reply)
		}
	}
}

func (s *Session) handleStatus(payload []byte) {
	if len(payload) < 1 {
		return
	}
	if payload[0] == SubSEND {
		s.send(BuildStatusIS(s.parser.Options))
		return
	}
	pairs := ParseStatusIS(payload)
	mismatches := DiffStatus(s.parser.Options, pairs)
	s.mu.Lock()
	s.lastStatus = mismatches
	s.mu.Unlock()
	if len(mismatches) > 0 {
		s.log.Info("peer STATUS disagrees with local view", "options", mismatches)
		if s.onStatusMismatch != nil {
			s.onStatusMismatch(mismatches)
		}
	}
}

// Close shuts the session down: closes the transport and signals every
// waiter and loop. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.closeCh)
	s.waiters.CloseAll()
	_ = s.transport.Close()
}
