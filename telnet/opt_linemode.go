package telnet

// LinemodeState is the negotiated MODE flags plus the acknowledgement
// bookkeeping the MODE ACK protocol requires: a proposer sends MODE
// without ACK, the receiver echoes it back with ACK set, and only then
// does the mode take effect.
type LinemodeState struct {
	EditMode   byte // OR of LMModeEdit/LMModeTrapSig/LMModeSoftTab/LMModeLitEcho
	Acked      bool
	lastSent   byte
	haveSent   bool
}

// ProposeMode builds a MODE subnegotiation for flags, without ACK set.
// Returns nil (no bytes to send) if flags matches the mode already
// acked in state, avoiding a redundant re-propose loop.
func (s *LinemodeState) ProposeMode(flags byte) []byte {
	if s.Acked && s.EditMode == flags {
		return nil
	}
	s.lastSent = flags
	s.haveSent = true
	return SendSB(OptLinemode, []byte{LMModeCmd, flags})
}

// ReceiveMode applies an incoming LINEMODE MODE subnegotiation payload
// (the byte after the LMModeCmd tag: the flags byte itself). If the
// ACK bit is already set, the sender is finalizing a mode we proposed
// (or just telling us theirs); we record it and need not reply. If ACK is
// absent, we must echo the same flags back with ACK set. Resending an
// identical already-acked MODE is treated as a no-op, an explicit
// anti-loop rule.
func (s *LinemodeState) ReceiveMode(flags byte) (reply []byte, changed bool) {
	acked := flags&LMModeAck != 0
	bare := flags &^ LMModeAck

	if acked {
		if s.Acked && s.EditMode == bare {
			return nil, false
		}
		s.EditMode = bare
		s.Acked = true
		return nil, true
	}

	if s.Acked && s.EditMode == bare {
		// Peer re-sent the same MODE without ACK; do not loop.
		return nil, false
	}
	s.EditMode = bare
	s.Acked = true
	return SendSB(OptLinemode, []byte{LMModeCmd, bare | LMModeAck}), true
}

// ForwardMask is accepted, stored, and logged but never enforced: a
// misbehaving peer's mask must never be able to hang the connection.
type ForwardMask [32]byte

// ParseForwardMask extracts a 32-byte forwardmask payload. ok is false
// (and mask is left zero) for any other length; the caller logs and
// otherwise ignores, never treating it as fatal.
func ParseForwardMask(payload []byte) (mask ForwardMask, ok bool) {
	if len(payload) != 32 {
		return ForwardMask{}, false
	}
	copy(mask[:], payload)
	return mask, true
}

// EncodeForwardMask frames a FORWARDMASK subnegotiation.
func EncodeForwardMask(mask ForwardMask) []byte {
	return SendSB(OptLinemode, append([]byte{LMForwardMaskCmd}, mask[:]...))
}

// SLCNegotiationResult is one outcome of feeding an incoming SLC
// triple-list subnegotiation into the current table.
type SLCNegotiationResult struct {
	Table SLCTable
	Reply []byte // nil if every triple was accepted with no reply needed
}

// ApplySLCTriples decodes the triple-list body of a LINEMODE SLC
// subnegotiation (the bytes after the LMSlcCmd tag) against the current
// table and returns the updated table plus any reply triples that must
// be echoed back, per the per-triple negotiation rule.
func ApplySLCTriples(table SLCTable, body []byte) SLCNegotiationResult {
	next := table.clone()
	defaults := DefaultSLCTable()
	var replyBody []byte

	for i := 0; i+3 <= len(body); i += 3 {
		fn := SLCFunction(body[i])
		peerFlags := body[i+1]
		peerValue := body[i+2]

		local := next[fn]
		def := defaults[fn]
		newLocal, reply := negotiateSLCTriple(fn, local, def, peerFlags, peerValue)
		next[fn] = newLocal
		if reply != nil {
			replyBody = append(replyBody, byte(fn), reply.Flags, reply.Value)
		}
	}

	result := SLCNegotiationResult{Table: next}
	if len(replyBody) > 0 {
		result.Reply = SendSB(OptLinemode, append([]byte{LMSlcCmd}, replyBody...))
	}
	return result
}

// SLCSettled reports whether every supported (not NOSUPPORT) function in
// table has ACK set, the termination condition for SLC negotiation.
func SLCSettled(table SLCTable) bool {
	for _, entry := range table {
		if entry.level() == SLCNoSupport {
			continue
		}
		if entry.Flags&SLCAck == 0 {
			return false
		}
	}
	return true
}

// EncodeSLCTable frames the entire table as one SLC subnegotiation, for
// the initial proposal a server sends on entering REMOTE mode.
func EncodeSLCTable(table SLCTable) []byte {
	body := []byte{LMSlcCmd}
	for fn, entry := range table {
		body = append(body, byte(fn), entry.Flags, entry.Value)
	}
	return SendSB(OptLinemode, body)
}
