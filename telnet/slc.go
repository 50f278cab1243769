package telnet

// SLCEntry is one row of the Special Linemode Characters table: which
// byte value triggers Function, and the level/flag byte carried in
// LINEMODE SLC subnegotiations (RFC 1184 §3).
type SLCEntry struct {
	Value byte
	Flags byte
}

func (e SLCEntry) level() byte {
	return e.Flags & slcLevelMask
}

// SLCTable maps an SLC function to its current binding. It is seeded from
// DefaultSLCTable at session start and mutated only by LINEMODE SLC
// subnegotiation or explicit application override.
type SLCTable map[SLCFunction]SLCEntry

// clone returns an independent copy, so a session's live table is never
// aliased with DefaultSLCTable's package-level map.
func (t SLCTable) clone() SLCTable {
	out := make(SLCTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DefaultSLCTable returns the BSD telnetd SLC defaults: the control-code
// bindings most Unix ttys use for these functions, each marked VARIABLE
// (the peer may renegotiate it) except the functions BSD historically
// leaves unbound.
func DefaultSLCTable() SLCTable {
	v := func(value byte) SLCEntry { return SLCEntry{Value: value, Flags: SLCVariable} }
	unset := func() SLCEntry { return SLCEntry{Value: 0, Flags: SLCNoSupport} }

	return SLCTable{
		SLCSync:   unset(),
		SLCBrk:    unset(),
		SLCIP:     v(3),   // ^C
		SLCAO:     v(15),  // ^O
		SLCAYT:    v(20),  // ^T
		SLCEOR:    unset(),
		SLCAbort:  v(28), // ^\
		SLCEOF:    v(4),  // ^D
		SLCSUSP:   v(26), // ^Z
		SLCEC:     v(127), // DEL
		SLCEL:     v(21),  // ^U
		SLCEW:     v(23),  // ^W
		SLCRP:     v(18),  // ^R
		SLCLNEXT:  v(22),  // ^V
		SLCXON:    v(17),  // ^Q
		SLCXOFF:   v(19),  // ^S
		SLCFORW1:  v(13),  // CR
		SLCFORW2:  unset(),
		SLCMCL:    unset(),
	}
}

// negotiateSLCTriple applies the per-triple negotiation rule to one
// (func, flags, value) triple received from the peer, given fn's current
// local entry and its BSD default. It returns the entry to store locally
// and, if non-nil, the triple to echo back to the peer.
func negotiateSLCTriple(fn SLCFunction, local SLCEntry, def SLCEntry, peerFlags, peerValue byte) (newLocal SLCEntry, reply *SLCEntry) {
	if peerFlags&SLCAck != 0 {
		// Peer is acknowledging our proposal; accept it verbatim.
		e := SLCEntry{Value: peerValue, Flags: peerFlags &^ SLCAck}
		return e, nil
	}

	peerLevel := peerFlags & slcLevelMask
	if peerLevel == SLCNoSupport {
		e := SLCEntry{Value: 0, Flags: SLCNoSupport}
		return e, nil
	}

	localLevel := local.level()
	if localLevel == SLCNoSupport {
		// A function we don't support locally can never be raised by a
		// peer proposal; hold at NOSUPPORT and echo that back.
		e := SLCEntry{Value: 0, Flags: SLCNoSupport}
		reply := SLCEntry{Value: 0, Flags: SLCNoSupport}
		return e, &reply
	}

	switch {
	case localLevel > peerLevel:
		e := local
		reply := SLCEntry{Value: local.Value, Flags: local.Flags | SLCAck}
		return e, &reply
	case localLevel < peerLevel:
		e := SLCEntry{Value: peerValue, Flags: peerFlags | SLCAck}
		return e, &e
	default: // equal level: tie-break to the function's BSD default
		reply := SLCEntry{Value: def.Value, Flags: def.Flags | SLCAck}
		return def, &reply
	}
}
