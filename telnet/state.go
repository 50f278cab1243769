package telnet

// OptionState is the four-valued state assigned to each option, per
// side (local/remote). Invariant: exactly one of Enabled/Disabled/
// PendingOn/PendingOff holds at any time; PendingOn may only transition to
// Enabled or Disabled; PendingOff may only transition to Disabled.
type OptionState byte

const (
	Disabled OptionState = iota
	Enabled
	PendingOn
	PendingOff
)

func (s OptionState) String() string {
	switch s {
	case Disabled:
		return "DISABLED"
	case Enabled:
		return "ENABLED"
	case PendingOn:
		return "PENDING-ON"
	case PendingOff:
		return "PENDING-OFF"
	default:
		return "INVALID"
	}
}

// Bit layout for CompatibilityEntry's byte serialization: two support
// bits plus two two-bit state fields, so a whole entry still fits one
// byte.
const (
	bitLocalSupport  byte = 1 << 0
	bitRemoteSupport byte = 1 << 1
	localStateShift       = 2
	remoteStateShift      = 4
	stateMask        byte = 0x03
)

// CompatibilityEntry is the per-option, per-connection record: whether this
// side is willing to support the option locally/remotely at all (the
// registry's acceptability predicate, potentially narrowed by application
// policy), and its current four-valued state on each side.
type CompatibilityEntry struct {
	// Local reports whether we are willing to originate/accept WILL on our
	// side (i.e. offer or agree to enable this option locally).
	Local bool
	// Remote reports whether we are willing to originate/accept DO on the
	// peer's side (i.e. request or agree to let the peer enable it).
	Remote bool

	LocalState  OptionState
	RemoteState OptionState
}

func (e CompatibilityEntry) toU8() byte {
	var b byte
	if e.Local {
		b |= bitLocalSupport
	}
	if e.Remote {
		b |= bitRemoteSupport
	}
	b |= (byte(e.LocalState) & stateMask) << localStateShift
	b |= (byte(e.RemoteState) & stateMask) << remoteStateShift
	return b
}

func entryFromU8(b byte) CompatibilityEntry {
	return CompatibilityEntry{
		Local:       b&bitLocalSupport != 0,
		Remote:      b&bitRemoteSupport != 0,
		LocalState:  OptionState((b >> localStateShift) & stateMask),
		RemoteState: OptionState((b >> remoteStateShift) & stateMask),
	}
}

// CompatibilityTable is the per-connection option registry: state
// indexed by option byte, narrowed to the options this session actually
// cares about. Unlisted options default to the zero CompatibilityEntry
// (unsupported on both sides), which always resolves to a refusal.
type CompatibilityTable struct {
	entries [256]byte
}

// NewCompatibilityTable returns an empty table (nothing supported on
// either side).
func NewCompatibilityTable() *CompatibilityTable {
	return &CompatibilityTable{}
}

// FromOptions builds a table from (option, entryByte) pairs, primarily
// useful in tests that want to construct a specific initial state directly.
func FromOptions(pairs [][2]byte) *CompatibilityTable {
	t := NewCompatibilityTable()
	for _, p := range pairs {
		t.entries[p[0]] = p[1]
	}
	return t
}

// Get returns the entry for opt (the zero value if never configured).
func (t *CompatibilityTable) Get(opt byte) CompatibilityEntry {
	return entryFromU8(t.entries[opt])
}

// Set stores the entry for opt.
func (t *CompatibilityTable) Set(opt byte, e CompatibilityEntry) {
	t.entries[opt] = e.toU8()
}

// SupportLocal marks opt as one we are willing to enable on our own side
// (WILL-capable), leaving its Remote flag and state untouched.
func (t *CompatibilityTable) SupportLocal(opt byte) {
	e := t.Get(opt)
	e.Local = true
	t.Set(opt, e)
}

// SupportRemote marks opt as one we are willing to let the peer enable
// (DO-capable), leaving its Local flag and state untouched.
func (t *CompatibilityTable) SupportRemote(opt byte) {
	e := t.Get(opt)
	e.Remote = true
	t.Set(opt, e)
}

// SupportBoth is shorthand for SupportLocal followed by SupportRemote.
func (t *CompatibilityTable) SupportBoth(opt byte) {
	t.SupportLocal(opt)
	t.SupportRemote(opt)
}

// ResetStates clears every option's Local/RemoteState back to Disabled
// while preserving the Local/Remote support flags, for session restart
// without re-registering which options a caller supports.
func (t *CompatibilityTable) ResetStates() {
	for opt := 0; opt < 256; opt++ {
		e := entryFromU8(t.entries[opt])
		e.LocalState = Disabled
		e.RemoteState = Disabled
		t.entries[opt] = e.toU8()
	}
}

// DefaultCompatibility returns the table of options this engine supports
// out of the box on both sides: every option with a built-in handler in
// this package. Directional options (client-only or server-only) are
// still marked supported on both sides here, so the same default table
// works for both client and server roles; NewParserForRole narrows
// LINEMODE, NAWS, TSPEED and SNDLOC to their direction per role.
func DefaultCompatibility() *CompatibilityTable {
	t := NewCompatibilityTable()
	for _, opt := range []byte{
		OptBinary, OptEcho, OptSGA, OptStatus, OptTimingMark, OptLogout,
		OptSNDLOC, OptTTYPE, OptEOR, OptNAWS, OptTSPEED, OptLFLOW,
		OptLinemode, OptXDISPLOC, OptNewEnviron, OptCharset,
	} {
		t.SupportBoth(opt)
	}
	return t
}
