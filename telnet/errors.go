package telnet

import "fmt"

// ProtocolWarning is error taxonomy class 1: a malformed SB or
// unrecognized IAC verb. Always logged, never propagated to the
// application as a failure.
type ProtocolWarning struct {
	Option byte
	Reason string
}

func (e *ProtocolWarning) Error() string {
	return fmt.Sprintf("telnet: protocol warning: %s (option %s)", e.Reason, OptionName(e.Option))
}

// PolicyRefusal is error taxonomy class 2: the peer asked for something
// this engine's registry or application policy refuses. The refusal is
// sent on the wire; this value exists only so callers that want visibility
// (logging, metrics) can observe it.
type PolicyRefusal struct {
	Option byte
	Verb   byte
}

func (e *PolicyRefusal) Error() string {
	return fmt.Sprintf("telnet: refused %s for %s", CommandNames[e.Verb], OptionName(e.Option))
}

// StateError is error taxonomy class 5: caller misuse, such as requesting
// a second WILL while one is already pending. Returned directly to the
// caller; nothing is sent on the wire.
type StateError struct {
	Option byte
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("telnet: %s (option %s)", e.Reason, OptionName(e.Option))
}

// ErrConnectionClosed is returned to pending waiters when the session is
// closed before their condition was met: pending waiters always complete
// with a definitive outcome, never hang forever.
var ErrConnectionClosed = fmt.Errorf("telnet: connection closed")

// ErrNegotiationTimeout names the case where connect_maxwait elapses
// before negotiation reaches a quiescent state. Session does not deliver
// it: Settled's channel is closed the same way on expiry as on
// settlement, and expiry does not fail the session.
var ErrNegotiationTimeout = fmt.Errorf("telnet: negotiation did not settle before connect_maxwait")
