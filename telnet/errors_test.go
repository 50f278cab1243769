package telnet

import "testing"

func TestProtocolWarningError(t *testing.T) {
	err := &ProtocolWarning{Option: OptNAWS, Reason: "bad length"}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestPolicyRefusalError(t *testing.T) {
	err := &PolicyRefusal{Option: OptLinemode, Verb: CmdWILL}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestStateErrorError(t *testing.T) {
	err := &StateError{Option: OptEcho, Reason: "already pending"}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	if ErrConnectionClosed == ErrNegotiationTimeout {
		t.Fatalf("expected distinct sentinel errors")
	}
}
