package telnet

import (
	"bytes"
	"testing"
)

func TestParserPlainData(t *testing.T) {
	p := NewParserDefault()
	events := p.Receive([]byte("hello"))
	if len(events) != 1 || events[0].Kind != TelnetEventDataReceive {
		t.Fatalf("expected one DataReceive event, got %+v", events)
	}
	if string(events[0].Data) != "hello" {
		t.Fatalf("got %q, want %q", events[0].Data, "hello")
	}
}

func TestParserHandlesSplitDoNegotiation(t *testing.T) {
	p := NewParserDefault()
	// IAC DO ECHO split across two Receive calls.
	events1 := p.Receive([]byte{CmdIAC, CmdDO})
	if len(events1) != 0 {
		t.Fatalf("expected no events from a split command, got %+v", events1)
	}
	events2 := p.Receive([]byte{OptEcho})
	if len(events2) != 2 {
		t.Fatalf("expected WILL reply + Negotiation event, got %+v", events2)
	}
	if events2[0].Kind != TelnetEventDataSend {
		t.Fatalf("expected first event to be the WILL reply, got %+v", events2[0])
	}
	if got := events2[0].Data; !bytes.Equal(got, []byte{CmdIAC, CmdWILL, OptEcho}) {
		t.Fatalf("got reply %v, want IAC WILL ECHO", got)
	}
	if events2[1].Kind != TelnetEventNegotiation || events2[1].Option != OptEcho {
		t.Fatalf("expected Negotiation(DO ECHO), got %+v", events2[1])
	}
}

func TestDoubleIACInData(t *testing.T) {
	p := NewParserDefault()
	events := p.Receive([]byte{'a', CmdIAC, CmdIAC, 'b'})
	if len(events) != 1 {
		t.Fatalf("expected a single coalesced DataReceive, got %+v", events)
	}
	if !bytes.Equal(events[0].Data, []byte{'a', CmdIAC, 'b'}) {
		t.Fatalf("got %v, want a single unescaped IAC between a and b", events[0].Data)
	}
}

func TestIncompleteIAC(t *testing.T) {
	p := NewParserDefault()
	events := p.Receive([]byte{'x', CmdIAC})
	if len(events) != 1 || !bytes.Equal(events[0].Data, []byte{'x'}) {
		t.Fatalf("expected only the data before IAC to flush, got %+v", events)
	}
	// the trailing IAC should still be pending; feeding NOP completes it.
	events2 := p.Receive([]byte{CmdNOP})
	if len(events2) != 1 || events2[0].Kind != TelnetEventIAC || events2[0].Command != CmdNOP {
		t.Fatalf("expected IAC NOP event, got %+v", events2)
	}
}

func TestNOPCommand(t *testing.T) {
	p := NewParserDefault()
	events := p.Receive([]byte{CmdIAC, CmdNOP})
	if len(events) != 1 || events[0].Kind != TelnetEventIAC || events[0].Command != CmdNOP {
		t.Fatalf("expected a single IAC NOP event, got %+v", events)
	}
}

func TestSubnegotiationBasicNAWS(t *testing.T) {
	p := NewParserDefault()
	payload := []byte{0, 80, 0, 24}
	data := append([]byte{CmdIAC, CmdSB, OptNAWS}, payload...)
	data = append(data, CmdIAC, CmdSE)
	events := p.Receive(data)
	if len(events) != 1 || events[0].Kind != TelnetEventSubnegotiation {
		t.Fatalf("expected one Subnegotiation event, got %+v", events)
	}
	if events[0].Option != OptNAWS || !bytes.Equal(events[0].Data, payload) {
		t.Fatalf("got %+v", events[0])
	}
	naws, ok := ParseNAWS(events[0].Data)
	if !ok || naws.Cols != 80 || naws.Rows != 24 {
		t.Fatalf("ParseNAWS(%v) = %+v, %v", events[0].Data, naws, ok)
	}
}

func TestSubnegSeparateReceives(t *testing.T) {
	p := NewParserDefault()
	events1 := p.Receive([]byte{CmdIAC, CmdSB, OptTTYPE, SubIS})
	if len(events1) != 0 {
		t.Fatalf("expected no events mid-subnegotiation, got %+v", events1)
	}
	events2 := p.Receive([]byte("xterm"))
	if len(events2) != 0 {
		t.Fatalf("expected no events, still mid-subnegotiation, got %+v", events2)
	}
	events3 := p.Receive([]byte{CmdIAC, CmdSE})
	if len(events3) != 1 || events3[0].Kind != TelnetEventSubnegotiation {
		t.Fatalf("expected completed Subnegotiation event, got %+v", events3)
	}
	want := append([]byte{SubIS}, []byte("xterm")...)
	if !bytes.Equal(events3[0].Data, want) {
		t.Fatalf("got %v, want %v", events3[0].Data, want)
	}
}

func TestSubnegUTF8Content(t *testing.T) {
	p := NewParserDefault()
	payload := []byte("héllo wörld")
	data := append([]byte{CmdIAC, CmdSB, OptGMCP}, payload...)
	data = append(data, CmdIAC, CmdSE)
	events := p.Receive(data)
	if len(events) != 1 || !bytes.Equal(events[0].Data, payload) {
		t.Fatalf("got %+v, want payload %q preserved byte-for-byte", events, payload)
	}
}

func TestEscapeIACRoundtripBugOne(t *testing.T) {
	// IAC IAC 228 -> escape -> IAC IAC IAC IAC 228 -> unescape -> IAC IAC 228
	in := []byte{CmdIAC, CmdIAC, 228}
	escaped := EscapeIAC(in)
	want := []byte{CmdIAC, CmdIAC, CmdIAC, CmdIAC, 228}
	if !bytes.Equal(escaped, want) {
		t.Fatalf("Escape(%v) = %v, want %v", in, escaped, want)
	}
	if got := UnescapeIAC(escaped); !bytes.Equal(got, in) {
		t.Fatalf("Unescape(Escape(%v)) = %v, want %v", in, got, in)
	}
}

func TestEscapeIACRoundtripBugTwo(t *testing.T) {
	in := []byte{228, CmdIAC, CmdIAC}
	escaped := EscapeIAC(in)
	want := []byte{228, CmdIAC, CmdIAC, CmdIAC, CmdIAC}
	if !bytes.Equal(escaped, want) {
		t.Fatalf("Escape(%v) = %v, want %v", in, escaped, want)
	}
	if got := UnescapeIAC(escaped); !bytes.Equal(got, in) {
		t.Fatalf("Unescape(Escape(%v)) = %v, want %v", in, got, in)
	}
}

func TestEscapeIACPlain(t *testing.T) {
	if got := EscapeIAC([]byte("abc")); !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("Escape of data with no IAC should be unchanged, got %v", got)
	}
}

func TestUnescapeIACPlain(t *testing.T) {
	if got := UnescapeIAC([]byte("abc")); !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("Unescape of data with no IAC should be unchanged, got %v", got)
	}
}

func TestBadSubnegBuffer(t *testing.T) {
	p := NewParserDefault()
	// IAC SB <opt> <data> IAC <not SE, not IAC> should terminate the
	// subnegotiation as malformed and resume decoding from the stray byte
	// as a fresh IAC phase.
	data := []byte{CmdIAC, CmdSB, OptNAWS, 1, 2, CmdIAC, CmdNOP}
	events := p.Receive(data)
	if len(events) != 2 {
		t.Fatalf("expected malformed event + recovered IAC NOP, got %+v", events)
	}
	if events[0].Kind != TelnetEventSubnegotiationMalformed {
		t.Fatalf("expected first event malformed, got %+v", events[0])
	}
	if events[1].Kind != TelnetEventIAC || events[1].Command != CmdNOP {
		t.Fatalf("expected recovered IAC NOP, got %+v", events[1])
	}
}

func TestSubnegotiationMaxCapacity(t *testing.T) {
	p := NewParserWithCapacity(4)
	payload := bytes.Repeat([]byte{'x'}, 10)
	data := append([]byte{CmdIAC, CmdSB, OptGMCP}, payload...)
	data = append(data, CmdIAC, CmdSE)
	events := p.Receive(data)
	if len(events) != 1 || len(events[0].Data) != 4 {
		t.Fatalf("expected payload capped at 4 bytes, got %+v", events)
	}
}

func TestMCCP2DecompressImmediateStopsProcessing(t *testing.T) {
	p := NewParserDefault()
	data := []byte{CmdIAC, CmdSB, OptCompress2, CmdIAC, CmdSE}
	data = append(data, []byte("trailing plaintext that must be discarded")...)
	events := p.Receive(data)
	if len(events) != 2 {
		t.Fatalf("expected exactly 2 events, got %+v", events)
	}
	if events[0].Kind != TelnetEventSubnegotiation || events[0].Option != OptCompress2 {
		t.Fatalf("expected Subnegotiation(MCCP2), got %+v", events[0])
	}
	if events[1].Kind != TelnetEventDecompressImmediate {
		t.Fatalf("expected DecompressImmediate, got %+v", events[1])
	}
}

func TestLinemodeEnabled(t *testing.T) {
	p := NewParserDefault()
	if p.LinemodeEnabled() {
		t.Fatalf("expected LINEMODE not enabled initially")
	}
	entry := p.Options.Get(OptLinemode)
	entry.RemoteState = Enabled
	p.Options.Set(OptLinemode, entry)
	if !p.LinemodeEnabled() {
		t.Fatalf("expected LINEMODE enabled after RemoteState=Enabled")
	}
}

func TestNewParserForRoleAsymmetry(t *testing.T) {
	server := NewParserForRole(RoleServer)
	if server.Options.Get(OptLinemode).Local {
		t.Fatalf("server should never offer WILL LINEMODE")
	}
	if !server.Options.Get(OptLinemode).Remote {
		t.Fatalf("server should still accept an incoming WILL LINEMODE")
	}
	client := NewParserForRole(RoleClient)
	if client.Options.Get(OptLinemode).Local {
		t.Fatalf("client should always refuse an incoming DO LINEMODE")
	}
}

func TestWillDoNilWhenUnsupported(t *testing.T) {
	p := NewParser(NewCompatibilityTable())
	if ev := p.Will(OptEcho); ev != nil {
		t.Fatalf("expected nil Will for unsupported option, got %+v", ev)
	}
	if ev := p.Do(OptEcho); ev != nil {
		t.Fatalf("expected nil Do for unsupported option, got %+v", ev)
	}
}

func TestSubnegotiationMethodSkipsUnlessEnabled(t *testing.T) {
	p := NewParserDefault()
	if ev := p.Subnegotiation(OptNAWS, []byte{0, 1, 0, 1}); ev != nil {
		t.Fatalf("expected nil Subnegotiation before NAWS is enabled, got %+v", ev)
	}
	entry := p.Options.Get(OptNAWS)
	entry.LocalState = Enabled
	p.Options.Set(OptNAWS, entry)
	ev := p.Subnegotiation(OptNAWS, []byte{0, 80, 0, 24})
	if ev == nil {
		t.Fatalf("expected non-nil Subnegotiation once enabled")
	}
	want := []byte{CmdIAC, CmdSB, OptNAWS, 0, 80, 0, 24, CmdIAC, CmdSE}
	if !bytes.Equal(ev.Data, want) {
		t.Fatalf("got %v, want %v", ev.Data, want)
	}
}
