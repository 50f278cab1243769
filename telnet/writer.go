package telnet

// Writer builds outbound protocol bytes, consulting negotiated state so
// application data is framed the way the current option set requires:
// CR LF for plain NVT ASCII, CR NUL for BINARY-off SGA-on streams (a bare
// CR with no following LF must still be disambiguated from a line end),
// and a raw pass-through once BINARY is enabled on the sending side.
type Writer struct {
	parser *Parser
}

// NewWriter builds a Writer that frames data according to parser's current
// negotiated state.
func NewWriter(parser *Parser) *Writer {
	return &Writer{parser: parser}
}

// Command returns the two-byte IAC <cmd> sequence for a simple command
// (NOP, AYT, GA, EOR, ...).
func Command(cmd byte) []byte {
	return []byte{CmdIAC, cmd}
}

// Negotiate returns the three-byte IAC <verb> <opt> sequence directly,
// bypassing the Parser's state bookkeeping. Session-level code should
// prefer Parser.Will/Wont/Do/Dont, which track pending state; this is for
// callers (tests, low-level tools) that want to emit a raw negotiation
// byte sequence without touching state.
func Negotiate(verb, opt byte) []byte {
	return []byte{CmdIAC, verb, opt}
}

// Data frames application bytes for sending: IAC is always doubled, and
// the line ending is chosen from the current BINARY/SGA state on our
// local side. text should contain '\n'-only or '\r\n' line breaks; both
// are normalized to the wire ending.
func (w *Writer) Data(text []byte) []byte {
	binary := w.parser.Options.Get(OptBinary).LocalState == Enabled
	out := make([]byte, 0, len(text)+8)
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case b == CmdIAC:
			out = append(out, CmdIAC, CmdIAC)
		case b == '\n':
			out = append(out, w.eol()...)
		case b == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				out = append(out, w.eol()...)
				i++
			} else if !binary {
				out = append(out, '\r', 0)
			} else {
				out = append(out, '\r')
			}
		default:
			out = append(out, b)
		}
	}
	return out
}

func (w *Writer) eol() []byte {
	if w.parser.Options.Get(OptBinary).LocalState == Enabled {
		return []byte{'\n'}
	}
	if w.parser.Options.Get(OptSGA).LocalState == Enabled {
		return []byte{'\r', 0}
	}
	return []byte{'\r', '\n'}
}

// Echo returns the wire bytes for echoing a single received character
// back to the peer, applying the same IAC-doubling rule as Data. Callers
// only invoke this when local ECHO is actually enabled; Writer does not
// gate on that itself since server-side echo suppression during password
// entry is an application decision, not a protocol one.
func (w *Writer) Echo(b byte) []byte {
	if b == CmdIAC {
		return []byte{CmdIAC, CmdIAC}
	}
	return []byte{b}
}

// SendGA returns IAC GA, the "go ahead" a half-duplex NVT sends after a
// prompt when SGA has not been negotiated. Callers should skip this
// entirely once SGA is enabled on the local side.
func SendGA() []byte {
	return Command(CmdGA)
}

// SendSB frames payload as a subnegotiation for opt, doubling any IAC
// bytes payload contains. Equivalent to Parser.Subnegotiation but skips
// the enabled-state check, for the handful of subnegotiations (CHARSET
// REQUEST, TTYPE SEND) that must be sendable while the option is still
// PendingOn.
func SendSB(opt byte, payload []byte) []byte {
	escaped := EscapeIAC(payload)
	out := make([]byte, 0, len(escaped)+5)
	out = append(out, CmdIAC, CmdSB, opt)
	out = append(out, escaped...)
	out = append(out, CmdIAC, CmdSE)
	return out
}
