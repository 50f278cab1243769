package telnet

// LFlowState is the negotiated flow-control policy (RFC 1372).
type LFlowState struct {
	Enabled       bool
	RestartOnAny  bool
}

// ApplyLFlow decodes an LFLOW subnegotiation payload and returns the new
// state to store. An unrecognized sub-option leaves state unchanged.
func ApplyLFlow(state LFlowState, payload []byte) LFlowState {
	if len(payload) < 1 {
		return state
	}
	switch payload[0] {
	case LflowOff:
		state.Enabled = false
	case LflowOn:
		state.Enabled = true
	case LflowRestartAny:
		state.RestartOnAny = true
	case LflowRestartXon:
		state.RestartOnAny = false
	}
	return state
}

// EncodeLFlow frames an LFLOW sub-option request.
func EncodeLFlow(sub byte) []byte {
	return SendSB(OptLFLOW, []byte{sub})
}
