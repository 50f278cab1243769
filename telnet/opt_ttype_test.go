package telnet

import "testing"

func TestTTYPECycleCollectsNames(t *testing.T) {
	c := &TTYPECycle{}
	name, keep := c.Feed(append([]byte{SubIS}, []byte("XTERM")...))
	if name != "XTERM" || !keep {
		t.Fatalf("got %q, %v", name, keep)
	}
	name, keep = c.Feed(append([]byte{SubIS}, []byte("ANSI")...))
	if name != "ANSI" || !keep {
		t.Fatalf("got %q, %v", name, keep)
	}
}

func TestTTYPECycleTerminatesOnCaseInsensitiveRepeat(t *testing.T) {
	c := &TTYPECycle{}
	c.Feed(append([]byte{SubIS}, []byte("XTERM")...))
	name, keep := c.Feed(append([]byte{SubIS}, []byte("xterm")...))
	if name != "xterm" || keep {
		t.Fatalf("expected cycle to terminate on case-insensitive repeat, got %q, %v", name, keep)
	}
	if !c.Done() {
		t.Fatalf("expected Done() true after termination")
	}
}

func TestTTYPECycleCapsAtTwentyRounds(t *testing.T) {
	c := &TTYPECycle{}
	var keep bool
	for i := 0; i < 25; i++ {
		name := "TERM" + string(rune('A'+i%26))
		_, keep = c.Feed(append([]byte{SubIS}, []byte(name)...))
		if !keep {
			break
		}
	}
	if keep {
		t.Fatalf("expected the cycle to terminate by the cap even without a repeat")
	}
	if len(c.Chain()) > ttypeCycleCap {
		t.Fatalf("chain grew past the cap: %d entries", len(c.Chain()))
	}
}

func TestTTYPECycleFeedAfterDoneIsNoop(t *testing.T) {
	c := &TTYPECycle{}
	c.Feed(append([]byte{SubIS}, []byte("XTERM")...))
	c.Feed(append([]byte{SubIS}, []byte("xterm")...))
	name, keep := c.Feed(append([]byte{SubIS}, []byte("ANSI")...))
	if name != "" || keep {
		t.Fatalf("expected no-op after cycle terminated, got %q, %v", name, keep)
	}
}

func TestEncodeTTYPEIs(t *testing.T) {
	wire := EncodeTTYPEIs("xterm-256color")
	want := append([]byte{CmdIAC, CmdSB, OptTTYPE, SubIS}, []byte("xterm-256color")...)
	want = append(want, CmdIAC, CmdSE)
	if string(wire) != string(want) {
		t.Fatalf("got %v, want %v", wire, want)
	}
}

func TestSendTTYPE(t *testing.T) {
	want := []byte{CmdIAC, CmdSB, OptTTYPE, SubSEND, CmdIAC, CmdSE}
	if got := SendTTYPE(); string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
