package telnet

import "fmt"

// TelnetEventKind identifies the kind of event produced by Parser.Receive
// or by an explicit engine call (Will, Do, Subnegotiation, ...).
type TelnetEventKind int

const (
	// TelnetEventDataReceive carries application-visible bytes decoded
	// from the stream ("DATA byte" events, coalesced).
	TelnetEventDataReceive TelnetEventKind = iota
	// TelnetEventDataSend carries outbound protocol bytes the caller must
	// write to the transport (negotiation replies, subnegotiation
	// requests, framed data).
	TelnetEventDataSend
	// TelnetEventIAC carries a simple (option-less) command: NOP, DM, BRK,
	// IP, AO, AYT, EC, EL, GA, EOR.
	TelnetEventIAC
	// TelnetEventNegotiation reports a completed WILL/WONT/DO/DONT state
	// transition, after the loop-prevention and pending-flag rules have
	// been applied. Never fired for a dropped/duplicate ack.
	TelnetEventNegotiation
	// TelnetEventSubnegotiation carries a fully-framed SB payload for any
	// option, whether or not this engine has a built-in handler for it
	// (Session dispatches the ones it handles and logs the rest); the
	// payload is exactly what was between IAC SB <opt> and IAC SE, with
	// doubled IAC already collapsed.
	TelnetEventSubnegotiation
	// TelnetEventSubnegotiationMalformed reports an SB cut short: inside
	// the payload, IAC was followed by a byte other than SE or IAC. Data
	// holds the payload collected so far, and that byte is then decoded
	// as a command. No state change occurs; the event exists so callers
	// can log it.
	TelnetEventSubnegotiationMalformed
	// TelnetEventUnknownCommand reports an IAC byte this engine does not
	// recognize as any defined command. Never raised as an error.
	TelnetEventUnknownCommand
	// TelnetEventFunction reports an SLC editing function recognized in
	// KLUDGE/LOCAL mode (component F), or surfaced from a LINEMODE SB in
	// REMOTE mode.
	TelnetEventFunction
	// TelnetEventLineEnd reports a normalized line boundary (component G).
	TelnetEventLineEnd
	// TelnetEventRecordEnd reports IAC EOR, distinct from TelnetEventLineEnd.
	TelnetEventRecordEnd
	// TelnetEventDecompressImmediate signals that all bytes from this
	// point in the current Receive call must be treated as belonging to a
	// newly negotiated compressed stream (MCCP2); this engine does not
	// implement decompression itself, it only marks the boundary so a
	// caller layering MCCP2 on top knows where to switch codecs.
	TelnetEventDecompressImmediate
)

func (k TelnetEventKind) String() string {
	switch k {
	case TelnetEventDataReceive:
		return "DataReceive"
	case TelnetEventDataSend:
		return "DataSend"
	case TelnetEventIAC:
		return "IAC"
	case TelnetEventNegotiation:
		return "Negotiation"
	case TelnetEventSubnegotiation:
		return "Subnegotiation"
	case TelnetEventSubnegotiationMalformed:
		return "SubnegotiationMalformed"
	case TelnetEventUnknownCommand:
		return "UnknownCommand"
	case TelnetEventFunction:
		return "Function"
	case TelnetEventLineEnd:
		return "LineEnd"
	case TelnetEventRecordEnd:
		return "RecordEnd"
	case TelnetEventDecompressImmediate:
		return "DecompressImmediate"
	default:
		return fmt.Sprintf("TelnetEventKind(%d)", int(k))
	}
}

// SLCFunction identifies an editing/signal function bound by the SLC table
// (component F). Names follow BSD telnetd's slc.py / termios naming.
type SLCFunction byte

const (
	SLCSync SLCFunction = iota
	SLCBrk
	SLCIP
	SLCAO
	SLCAYT
	SLCEOR
	SLCAbort
	SLCEOF
	SLCSUSP
	SLCEC  // erase character
	SLCEL  // erase line
	SLCEW  // erase word
	SLCRP  // repaint
	SLCLNEXT
	SLCXON
	SLCXOFF
	SLCFORW1
	SLCFORW2
	SLCMCL // erase-multiple-char? reserved, matches BSD NSLC count
)

// TelnetEvent is the single event type produced by the parser and by
// explicit request calls (Will/Wont/Do/Dont/Subnegotiation/SendText).
//
// Only the fields relevant to Kind are populated; callers should switch on
// Kind first.
type TelnetEvent struct {
	Kind TelnetEventKind

	// Data carries: raw application bytes (DataReceive), raw wire bytes to
	// send (DataSend), or a subnegotiation payload (Subnegotiation /
	// SubnegotiationMalformed).
	Data []byte

	// Command is populated for TelnetEventIAC, TelnetEventLineEnd (rarely),
	// and TelnetEventUnknownCommand.
	Command byte

	// Option is populated for TelnetEventNegotiation,
	// TelnetEventSubnegotiation(Malformed), and TelnetEventFunction (when
	// the function arrived via a LINEMODE SB rather than local matching).
	Option byte

	// Verb is the negotiation verb (CmdWILL/CmdWONT/CmdDO/CmdDONT) for
	// TelnetEventNegotiation.
	Verb byte

	// Function is populated for TelnetEventFunction.
	Function SLCFunction

	// Reason carries a short machine-stable string for
	// TelnetEventSubnegotiationMalformed / TelnetEventUnknownCommand, for
	// structured logging.
	Reason string
}

func (e TelnetEvent) String() string {
	switch e.Kind {
	case TelnetEventNegotiation:
		return fmt.Sprintf("Negotiation(%s %s)", CommandNames[e.Verb], OptionName(e.Option))
	case TelnetEventIAC:
		return fmt.Sprintf("IAC(%s)", CommandNames[e.Command])
	case TelnetEventSubnegotiation, TelnetEventSubnegotiationMalformed:
		return fmt.Sprintf("%s(%s, %d bytes)", e.Kind, OptionName(e.Option), len(e.Data))
	default:
		return e.Kind.String()
	}
}

// dataSend is a small constructor used throughout the package so every
// outbound-byte event is built the same way.
func dataSend(b []byte) TelnetEvent {
	return TelnetEvent{Kind: TelnetEventDataSend, Data: b}
}

// SendText frames application text for the wire: doubles IAC and appends
// the NVT line ending appropriate for a plain, non-BINARY connection
// (CR LF). Callers that need BINARY or SGA-only CR-NUL behaviour should use
// Session.Write / Writer.Write instead, which consult negotiated state;
// SendText is a convenience for simple one-shot sends and always assumes
// NVT text mode.
func SendText(s string) TelnetEvent {
	escaped := EscapeIAC([]byte(s))
	out := make([]byte, 0, len(escaped)+2)
	out = append(out, escaped...)
	out = append(out, '\r', '\n')
	return dataSend(out)
}
