package telnet

// EditMode is the engine's derived effective editing mode (component F),
// recomputed after every negotiation transition that could change it.
type EditMode int

const (
	// ModeCharacter: exactly one of SGA and ECHO enabled locally, no remote
	// LINEMODE; raw character-at-a-time NVT with no local editing
	// assistance.
	ModeCharacter EditMode = iota
	// ModeLocal: half-duplex default NVT (neither SGA nor ECHO enabled
	// locally). Rare in practice; most peers immediately negotiate SGA.
	ModeLocal
	// ModeKludge: local WILL SGA + WILL ECHO. The server echoes
	// character-at-a-time and must simulate SLC editing itself.
	ModeKludge
	// ModeRemote: remote WILL LINEMODE. The peer edits its own input
	// locally and forwards complete lines plus SLC function bytes.
	ModeRemote
)

func (m EditMode) String() string {
	switch m {
	case ModeCharacter:
		return "CHARACTER"
	case ModeLocal:
		return "LOCAL"
	case ModeKludge:
		return "KLUDGE"
	case ModeRemote:
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}

// DeriveMode computes the session's editing mode fresh from current
// option state rather than cached, since any of the three inputs can
// change independently.
func (p *Parser) DeriveMode() EditMode {
	if p.Options.Get(OptLinemode).RemoteState == Enabled {
		return ModeRemote
	}
	sga := p.Options.Get(OptSGA).LocalState == Enabled
	echo := p.Options.Get(OptEcho).LocalState == Enabled
	switch {
	case sga && echo:
		return ModeKludge
	case !sga && !echo:
		return ModeLocal
	default:
		return ModeCharacter
	}
}

// Editor simulates local line editing in KLUDGE and LOCAL modes: it
// matches incoming bytes against the SLC table, applies EC/EL/EW/RP/LNEXT
// to an in-progress line buffer, and emits a line once a terminator is
// reached (via OutputBuffer-style normalization, handled by the caller
// using lineend.go). Outside KLUDGE and LOCAL modes the owning Session
// does not call Feed and appends bytes to the line buffer directly; in
// REMOTE mode SLC functions and line boundaries arrive pre-formed from
// the peer.
type Editor struct {
	slc    SLCTable
	line   []byte
	litNext bool
}

// NewEditor builds an editor bound to table, which it does not copy: the
// caller (typically the owning Session) mutates the same table via
// LINEMODE SLC negotiation.
func NewEditor(table SLCTable) *Editor {
	return &Editor{slc: table}
}

// EditorResult reports what a single byte did to the line buffer.
type EditorResult struct {
	// Function is set when b matched an SLC binding.
	Function SLCFunction
	Matched  bool
	// Line completion is not reported here; the caller is responsible for
	// detecting the terminator (CR, LF, ...) via lineend.go and calling
	// Editor.TakeLine.
}

// Feed processes one input byte, applying erase/kill/literal-next editing
// and returning the SLC function it triggered, if any. Plain bytes (no
// SLC match, not consumed by a pending literal-next) are appended to the
// line buffer and Matched is false.
func (e *Editor) Feed(b byte) EditorResult {
	if e.litNext {
		e.litNext = false
		e.line = append(e.line, b)
		return EditorResult{}
	}

	fn, matched := e.match(b)
	if !matched {
		e.line = append(e.line, b)
		return EditorResult{}
	}

	switch fn {
	case SLCEC:
		if n := len(e.line); n > 0 {
			e.line = e.line[:n-1]
		}
	case SLCEL:
		e.line = e.line[:0]
	case SLCEW:
		e.eraseWord()
	case SLCRP:
		// Repaint is a display-only signal; the line buffer is untouched.
	case SLCLNEXT:
		e.litNext = true
	}
	return EditorResult{Function: fn, Matched: true}
}

func (e *Editor) eraseWord() {
	i := len(e.line)
	for i > 0 && e.line[i-1] == ' ' {
		i--
	}
	for i > 0 && e.line[i-1] != ' ' {
		i--
	}
	e.line = e.line[:i]
}

func (e *Editor) match(b byte) (SLCFunction, bool) {
	for fn, entry := range e.slc {
		if entry.level() == SLCNoSupport {
			continue
		}
		if entry.Value == b {
			return fn, true
		}
	}
	return 0, false
}

// TakeLine returns the accumulated line and resets the buffer, for use
// once lineend.go's normalizer reports a terminator.
func (e *Editor) TakeLine() []byte {
	line := e.line
	e.line = nil
	return line
}

// Peek returns the current in-progress line without consuming it.
func (e *Editor) Peek() []byte {
	return e.line
}
