package telnet

// StatusPair is one (verb, option) entry in a STATUS IS report, verb
// being CmdWILL or CmdDO: it enumerates the ENABLED sides.
type StatusPair struct {
	Verb   byte
	Option byte
}

// SendStatusSend returns "IAC SB STATUS SEND IAC SE", requesting the
// peer's view of negotiated state.
func SendStatusSend() []byte {
	return SendSB(OptStatus, []byte{SubSEND})
}

// BuildStatusIS mirrors table's current ENABLED sides into a STATUS IS
// reply: one WILL <opt> pair per option ENABLED on our local side, one DO
// <opt> pair per option ENABLED on the peer's remote side (from our point
// of view, i.e. RemoteState).
func BuildStatusIS(table *CompatibilityTable) []byte {
	payload := []byte{SubIS}
	for opt := 0; opt < 256; opt++ {
		entry := table.Get(byte(opt))
		if entry.LocalState == Enabled {
			payload = append(payload, CmdWILL, byte(opt))
		}
		if entry.RemoteState == Enabled {
			payload = append(payload, CmdDO, byte(opt))
		}
	}
	return SendSB(OptStatus, payload)
}

// ParseStatusIS decodes a STATUS IS payload, including its leading SubIS
// token, into its WILL/DO pairs. It returns nil if the payload does not
// start with SubIS.
func ParseStatusIS(payload []byte) []StatusPair {
	if len(payload) < 1 || payload[0] != SubIS {
		return nil
	}
	body := payload[1:]
	var pairs []StatusPair
	for i := 0; i+1 < len(body); i += 2 {
		pairs = append(pairs, StatusPair{Verb: body[i], Option: body[i+1]})
	}
	return pairs
}

// DiffStatus compares a peer-reported STATUS IS against our own table.
// Differences are informational only, never re-negotiated. The caller
// decides whether to log or invoke an application hook.
func DiffStatus(table *CompatibilityTable, pairs []StatusPair) []string {
	var mismatches []string
	for _, p := range pairs {
		entry := table.Get(p.Option)
		var ours OptionState
		switch p.Verb {
		case CmdWILL:
			ours = entry.RemoteState // peer's local == our remote view of them
		case CmdDO:
			ours = entry.LocalState
		default:
			continue
		}
		if ours != Enabled {
			mismatches = append(mismatches, OptionName(p.Option))
		}
	}
	return mismatches
}
