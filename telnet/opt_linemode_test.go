package telnet

import "testing"

func TestLinemodeProposeModeThenSkipRedundant(t *testing.T) {
	s := &LinemodeState{}
	wire := s.ProposeMode(LMModeEdit | LMModeTrapSig)
	if wire == nil {
		t.Fatalf("expected non-nil proposal")
	}
	s.Acked = true
	s.EditMode = LMModeEdit | LMModeTrapSig
	if got := s.ProposeMode(LMModeEdit | LMModeTrapSig); got != nil {
		t.Fatalf("expected nil for a redundant re-propose, got %v", got)
	}
}

func TestLinemodeReceiveModeAcksAndReplies(t *testing.T) {
	s := &LinemodeState{}
	reply, changed := s.ReceiveMode(LMModeEdit)
	if !changed {
		t.Fatalf("expected changed=true on first MODE")
	}
	if reply == nil {
		t.Fatalf("expected a reply echoing ACK")
	}
	if s.EditMode != LMModeEdit || !s.Acked {
		t.Fatalf("got %+v", s)
	}
}

func TestLinemodeReceiveModeAlreadyAckedIsNoop(t *testing.T) {
	s := &LinemodeState{EditMode: LMModeEdit, Acked: true}
	reply, changed := s.ReceiveMode(LMModeEdit)
	if changed || reply != nil {
		t.Fatalf("expected no-op re-send of an already-acked MODE, got reply=%v changed=%v", reply, changed)
	}
}

func TestLinemodeReceiveModeFinalACK(t *testing.T) {
	s := &LinemodeState{}
	reply, changed := s.ReceiveMode(LMModeEdit | LMModeAck)
	if reply != nil {
		t.Fatalf("expected no further reply once the peer sends the final ACK, got %v", reply)
	}
	if !changed || !s.Acked || s.EditMode != LMModeEdit {
		t.Fatalf("got %+v, changed=%v", s, changed)
	}
}

func TestParseForwardMaskLength(t *testing.T) {
	var mask [32]byte
	mask[0] = 0xff
	got, ok := ParseForwardMask(mask[:])
	if !ok || got[0] != 0xff {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if _, ok := ParseForwardMask([]byte{1, 2, 3}); ok {
		t.Fatalf("expected wrong-length forwardmask to be rejected")
	}
}

func TestApplySLCTriplesProducesReply(t *testing.T) {
	table := DefaultSLCTable()
	body := []byte{byte(SLCIP), SLCDefault, 9}
	result := ApplySLCTriples(table, body)
	if result.Reply == nil {
		t.Fatalf("expected a reply triple for a peer-wins negotiation")
	}
	if result.Table[SLCIP].Value != 9 {
		t.Fatalf("got %+v", result.Table[SLCIP])
	}
}

func TestApplySLCTriplesIgnoresPartialTrailingTriple(t *testing.T) {
	table := DefaultSLCTable()
	body := []byte{byte(SLCIP), SLCVariable, 9, byte(SLCAO)} // trailing partial triple
	result := ApplySLCTriples(table, body)
	if result.Table[SLCAO] != table[SLCAO] {
		t.Fatalf("expected the partial trailing triple to be ignored")
	}
}

func TestSLCSettled(t *testing.T) {
	table := SLCTable{
		SLCIP: {Value: 3, Flags: SLCVariable | SLCAck},
		SLCAO: {Value: 0, Flags: SLCNoSupport},
	}
	if !SLCSettled(table) {
		t.Fatalf("expected settled: every supported function ACKed")
	}
	table[SLCIP] = SLCEntry{Value: 3, Flags: SLCVariable}
	if SLCSettled(table) {
		t.Fatalf("expected not settled: IP lost its ACK")
	}
}

func TestEncodeSLCTableFramesAllEntries(t *testing.T) {
	table := SLCTable{SLCIP: {Value: 3, Flags: SLCVariable}}
	wire := EncodeSLCTable(table)
	inner := wire[3 : len(wire)-2]
	if len(inner) != 4 || inner[0] != LMSlcCmd {
		t.Fatalf("got %v", inner)
	}
}
