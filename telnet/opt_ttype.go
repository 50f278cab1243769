package telnet

import "strings"

// ttypeCycleCap is the hard round cap that guards against a misbehaving
// peer that never repeats a terminal type.
const ttypeCycleCap = 20

// TTYPECycle tracks an in-progress TTYPE SEND/IS exchange (RFC 1091): the
// engine keeps sending SEND until the peer repeats its previous answer
// (case-insensitively) or the round cap is hit.
type TTYPECycle struct {
	chain []string
	done  bool
}

// SendTTYPE returns the wire bytes for "IAC SB TTYPE SEND IAC SE".
func SendTTYPE() []byte {
	return SendSB(OptTTYPE, []byte{SubSEND})
}

// Feed records one IS reply from the peer and reports whether the cycle
// should continue (send another SEND) or has terminated (repeat seen, or
// the cap was reached).
func (c *TTYPECycle) Feed(payload []byte) (name string, keepCycling bool) {
	if c.done || len(payload) < 1 || payload[0] != SubIS {
		return "", false
	}
	name = string(payload[1:])
	if len(c.chain) > 0 && strings.EqualFold(c.chain[len(c.chain)-1], name) {
		c.done = true
		return name, false
	}
	c.chain = append(c.chain, name)
	if len(c.chain) >= ttypeCycleCap {
		c.done = true
		return name, false
	}
	return name, true
}

// Chain returns every distinct terminal type name seen, in arrival order,
// excluding the final repeated value that terminated the cycle.
func (c *TTYPECycle) Chain() []string {
	return append([]string(nil), c.chain...)
}

// Done reports whether the cycle has terminated.
func (c *TTYPECycle) Done() bool {
	return c.done
}

// EncodeTTYPEIs frames a TTYPE IS reply for name, the side normally
// implemented by a client answering the peer's SEND.
func EncodeTTYPEIs(name string) []byte {
	payload := append([]byte{SubIS}, []byte(name)...)
	return SendSB(OptTTYPE, payload)
}
