package telnet

// Role distinguishes which side of a connection a Parser sits on, since a
// handful of options (LINEMODE chief among them) are asymmetric: a server
// asks a client to take over local editing, never the reverse.
type Role int

const (
	RoleEither Role = iota
	RoleClient
	RoleServer
)

type decodePhase int

const (
	phaseData decodePhase = iota
	phaseIAC
	phaseNegotiation
	phaseSBOption
	phaseSBData
	phaseSBIAC
)

// Parser is the IAC decoder and per-option negotiation state machine. It
// owns no transport; Receive consumes raw bytes off the wire and returns
// the events the caller must act on (write bytes, apply a line ending,
// surface a subnegotiation, etc), with CompatibilityEntry's
// LocalState/RemoteState using the four-valued OptionState.
type Parser struct {
	// Options is the compatibility table this parser negotiates against.
	// Exported so callers can call Options.SupportLocal/SupportRemote/Get
	// directly.
	Options *CompatibilityTable

	role Role

	phase       decodePhase
	pendingVerb byte
	sbOption    byte
	sbBuf       []byte
	maxSubneg   int
}

// NewParser builds a parser around an existing compatibility table.
func NewParser(table *CompatibilityTable) *Parser {
	return &Parser{Options: table, maxSubneg: MaxSubnegotiationSize}
}

// NewParserDefault builds a parser with every option this package has a
// handler for marked supported on both sides.
func NewParserDefault() *Parser {
	return NewParser(DefaultCompatibility())
}

// NewParserWithCapacity is NewParserDefault with a caller-chosen
// subnegotiation buffer cap, for tests that want to exercise the cap
// without sending 64KiB of data.
func NewParserWithCapacity(capacity int) *Parser {
	p := NewParserDefault()
	p.maxSubneg = capacity
	return p
}

// NewParserForRole builds a parser whose compatibility table has been
// narrowed for role. LINEMODE is enabled only on the client's side, at
// the server's request: a server may send DO LINEMODE and accepts a
// client's WILL with DO, priming its SLC table, but never sends WILL
// LINEMODE (it has no local line buffer of its own to hand over). A
// client refuses an incoming DO LINEMODE with WONT, refuses an incoming
// WILL LINEMODE with DONT, and never sends DO LINEMODE. NAWS, TSPEED and
// SNDLOC are client-side options: a server refuses DO for them and a
// client refuses WILL for them.
func NewParserForRole(role Role) *Parser {
	p := NewParser(DefaultCompatibility())
	p.role = role
	clientOnly := []byte{OptNAWS, OptTSPEED, OptSNDLOC}
	switch role {
	case RoleServer:
		e := p.Options.Get(OptLinemode)
		e.Local = false
		p.Options.Set(OptLinemode, e)
		for _, opt := range clientOnly {
			e := p.Options.Get(opt)
			e.Local = false
			p.Options.Set(opt, e)
		}
	case RoleClient:
		e := p.Options.Get(OptLinemode)
		e.Local = false
		e.Remote = false
		p.Options.Set(OptLinemode, e)
		for _, opt := range clientOnly {
			e := p.Options.Get(opt)
			e.Remote = false
			p.Options.Set(opt, e)
		}
	}
	return p
}

// Receive decodes data, advancing internal state across calls so that a
// command, negotiation, or subnegotiation split across TCP reads is
// handled correctly. Plain data bytes are coalesced into a single
// TelnetEventDataReceive per contiguous run within a call (they are not
// buffered across calls).
func (p *Parser) Receive(data []byte) []TelnetEvent {
	var events []TelnetEvent
	var buf []byte

	flush := func() {
		if len(buf) > 0 {
			events = append(events, TelnetEvent{Kind: TelnetEventDataReceive, Data: buf})
			buf = nil
		}
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch p.phase {
		case phaseData:
			if b == CmdIAC {
				p.phase = phaseIAC
			} else {
				buf = append(buf, b)
			}

		case phaseIAC:
			if b != CmdIAC {
				flush()
			}
			switch b {
			case CmdIAC:
				buf = append(buf, CmdIAC)
				p.phase = phaseData
			case CmdWILL, CmdWONT, CmdDO, CmdDONT:
				p.pendingVerb = b
				p.phase = phaseNegotiation
			case CmdSB:
				p.sbOption = 0
				p.sbBuf = p.sbBuf[:0]
				p.phase = phaseSBOption
			case CmdSE:
				// Stray SE with no matching SB: ignore, resume data mode.
				p.phase = phaseData
			default:
				kind, reason := TelnetEventIAC, ""
				if _, known := CommandNames[b]; !known {
					kind, reason = TelnetEventUnknownCommand, "unknown command"
				}
				events = append(events, TelnetEvent{Kind: kind, Command: b, Reason: reason})
				p.phase = phaseData
			}

		case phaseNegotiation:
			events = append(events, p.handleNegotiation(p.pendingVerb, b)...)
			p.phase = phaseData

		case phaseSBOption:
			p.sbOption = b
			p.phase = phaseSBData

		case phaseSBData:
			if b == CmdIAC {
				p.phase = phaseSBIAC
			} else if len(p.sbBuf) < p.maxSubneg {
				p.sbBuf = append(p.sbBuf, b)
			}

		case phaseSBIAC:
			switch b {
			case CmdSE:
				sbEvents, stop := p.finishSubnegotiation()
				events = append(events, sbEvents...)
				p.phase = phaseData
				if stop {
					return events
				}
			case CmdIAC:
				if len(p.sbBuf) < p.maxSubneg {
					p.sbBuf = append(p.sbBuf, CmdIAC)
				}
				p.phase = phaseSBData
			default:
				events = append(events, p.malformedSubnegotiation("unterminated subnegotiation"))
				p.phase = phaseIAC
				i--
			}
		}
	}

	flush()
	return events
}

// finishSubnegotiation builds the event(s) for a completed IAC SB ... IAC
// SE run. MCCP2 is special: once its subnegotiation completes, every byte
// after it in this call belongs to a freshly negotiated compressed stream
// this package does not decode, so stop signals the caller to discard the
// rest of the current Receive call entirely.
func (p *Parser) finishSubnegotiation() (events []TelnetEvent, stop bool) {
	opt := p.sbOption
	payload := append([]byte(nil), p.sbBuf...)
	ev := TelnetEvent{Kind: TelnetEventSubnegotiation, Option: opt, Data: payload}
	if opt == OptCompress2 {
		return []TelnetEvent{ev, {Kind: TelnetEventDecompressImmediate}}, true
	}
	return []TelnetEvent{ev}, false
}

func (p *Parser) malformedSubnegotiation(reason string) TelnetEvent {
	return TelnetEvent{
		Kind:   TelnetEventSubnegotiationMalformed,
		Option: p.sbOption,
		Data:   append([]byte(nil), p.sbBuf...),
		Reason: reason,
	}
}

// Will requests (or reaffirms) enabling opt on our side. Returns nil if
// opt is not marked Local-supported; callers that want a refusal signal
// should check Options.Get(opt).Local themselves.
func (p *Parser) Will(opt byte) *TelnetEvent {
	entry := p.Options.Get(opt)
	if !entry.Local {
		return nil
	}
	if entry.LocalState == Enabled || entry.LocalState == PendingOn {
		ev := dataSend([]byte{CmdIAC, CmdWILL, opt})
		return &ev
	}
	entry.LocalState = PendingOn
	p.Options.Set(opt, entry)
	ev := dataSend([]byte{CmdIAC, CmdWILL, opt})
	return &ev
}

// Wont requests disabling opt on our side.
func (p *Parser) Wont(opt byte) *TelnetEvent {
	entry := p.Options.Get(opt)
	if entry.LocalState == Disabled || entry.LocalState == PendingOff {
		ev := dataSend([]byte{CmdIAC, CmdWONT, opt})
		return &ev
	}
	entry.LocalState = PendingOff
	p.Options.Set(opt, entry)
	ev := dataSend([]byte{CmdIAC, CmdWONT, opt})
	return &ev
}

// Do requests the peer enable opt on its side. Returns nil if opt is not
// marked Remote-supported.
func (p *Parser) Do(opt byte) *TelnetEvent {
	entry := p.Options.Get(opt)
	if !entry.Remote {
		return nil
	}
	if entry.RemoteState == Enabled || entry.RemoteState == PendingOn {
		ev := dataSend([]byte{CmdIAC, CmdDO, opt})
		return &ev
	}
	entry.RemoteState = PendingOn
	p.Options.Set(opt, entry)
	ev := dataSend([]byte{CmdIAC, CmdDO, opt})
	return &ev
}

// Dont requests the peer disable opt on its side.
func (p *Parser) Dont(opt byte) *TelnetEvent {
	entry := p.Options.Get(opt)
	if entry.RemoteState == Disabled || entry.RemoteState == PendingOff {
		ev := dataSend([]byte{CmdIAC, CmdDONT, opt})
		return &ev
	}
	entry.RemoteState = PendingOff
	p.Options.Set(opt, entry)
	ev := dataSend([]byte{CmdIAC, CmdDONT, opt})
	return &ev
}

// Subnegotiation frames payload under opt, escaping any IAC bytes it
// contains. Returns nil unless opt is currently enabled on at least one
// side (there is no point sending a subnegotiation the peer has not
// agreed to interpret).
func (p *Parser) Subnegotiation(opt byte, payload []byte) *TelnetEvent {
	entry := p.Options.Get(opt)
	if entry.LocalState != Enabled && entry.RemoteState != Enabled {
		return nil
	}
	escaped := EscapeIAC(payload)
	out := make([]byte, 0, len(escaped)+5)
	out = append(out, CmdIAC, CmdSB, opt)
	out = append(out, escaped...)
	out = append(out, CmdIAC, CmdSE)
	ev := dataSend(out)
	return &ev
}

// LinemodeEnabled reports whether LINEMODE is active on either side.
func (p *Parser) LinemodeEnabled() bool {
	entry := p.Options.Get(OptLinemode)
	return entry.LocalState == Enabled || entry.RemoteState == Enabled
}

// EscapeIAC doubles every IAC byte in data, the byte-transparency rule
// RFC 854 requires for anything carried inside a subnegotiation (or sent
// as free text via SendText).
func EscapeIAC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		out = append(out, b)
		if b == CmdIAC {
			out = append(out, CmdIAC)
		}
	}
	return out
}

// UnescapeIAC collapses doubled IAC bytes back to one. The decoder applies
// this implicitly while scanning a subnegotiation; it is exported for
// callers that received an already-framed payload from elsewhere.
func UnescapeIAC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		out = append(out, b)
		if b == CmdIAC && i+1 < len(data) && data[i+1] == CmdIAC {
			i++
		}
	}
	return out
}
