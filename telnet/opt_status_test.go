package telnet

import "testing"

func TestBuildStatusISEnumeratesEnabledSides(t *testing.T) {
	table := NewCompatibilityTable()
	table.SupportBoth(OptEcho)
	entry := table.Get(OptEcho)
	entry.LocalState = Enabled
	entry.RemoteState = Enabled
	table.Set(OptEcho, entry)

	wire := BuildStatusIS(table)
	pairs := ParseStatusIS(wire[3 : len(wire)-2])
	foundWill, foundDo := false, false
	for _, p := range pairs {
		if p.Option == OptEcho && p.Verb == CmdWILL {
			foundWill = true
		}
		if p.Option == OptEcho && p.Verb == CmdDO {
			foundDo = true
		}
	}
	if !foundWill || !foundDo {
		t.Fatalf("expected both WILL and DO ECHO pairs, got %+v", pairs)
	}
}

func TestParseStatusISRequiresISToken(t *testing.T) {
	if pairs := ParseStatusIS([]byte{SubSEND, CmdWILL, OptEcho}); pairs != nil {
		t.Fatalf("expected nil when payload does not start with SubIS, got %+v", pairs)
	}
}

func TestDiffStatusFlagsMismatch(t *testing.T) {
	table := NewCompatibilityTable()
	table.SupportBoth(OptEcho)
	// Our table disagrees: we think ECHO is not enabled locally, but the
	// peer's STATUS IS claims DO ECHO (they think it is enabled on us).
	pairs := []StatusPair{{Verb: CmdDO, Option: OptEcho}}
	mismatches := DiffStatus(table, pairs)
	if len(mismatches) != 1 || mismatches[0] != OptionName(OptEcho) {
		t.Fatalf("got %v", mismatches)
	}
}

func TestDiffStatusNoMismatch(t *testing.T) {
	table := NewCompatibilityTable()
	table.SupportBoth(OptEcho)
	entry := table.Get(OptEcho)
	entry.LocalState = Enabled
	table.Set(OptEcho, entry)
	pairs := []StatusPair{{Verb: CmdDO, Option: OptEcho}}
	if mismatches := DiffStatus(table, pairs); len(mismatches) != 0 {
		t.Fatalf("expected no mismatch, got %v", mismatches)
	}
}

func TestSendStatusSend(t *testing.T) {
	want := []byte{CmdIAC, CmdSB, OptStatus, SubSEND, CmdIAC, CmdSE}
	if got := SendStatusSend(); string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
