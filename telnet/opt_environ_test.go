package telnet

import "testing"

func TestEnvTableSetGet(t *testing.T) {
	tbl := NewEnvTable()
	tbl.Set(EnvEntry{Name: "USER", Value: "alice", Kind: EnvKindVar})
	entry, ok := tbl.Get("USER")
	if !ok || entry.Value != "alice" {
		t.Fatalf("got %+v, %v", entry, ok)
	}
	if tbl.Len() != 1 {
		t.Fatalf("got Len()=%d, want 1", tbl.Len())
	}
}

func TestParseEnvISBasic(t *testing.T) {
	body := []byte{EnvVAR}
	body = append(body, []byte("USER")...)
	body = append(body, EnvVALUE)
	body = append(body, []byte("alice")...)
	entries := ParseEnvIS(body)
	if len(entries) != 1 {
		t.Fatalf("got %+v", entries)
	}
	if entries[0].Name != "USER" || entries[0].Value != "alice" || entries[0].Kind != EnvKindVar {
		t.Fatalf("got %+v", entries[0])
	}
}

func TestParseEnvISUserVarAndMultiple(t *testing.T) {
	body := []byte{EnvVAR}
	body = append(body, []byte("TERM")...)
	body = append(body, EnvVALUE)
	body = append(body, []byte("ansi")...)
	body = append(body, EnvUSERVAR)
	body = append(body, []byte("CUSTOM")...)
	body = append(body, EnvVALUE)
	body = append(body, []byte("val")...)
	entries := ParseEnvIS(body)
	if len(entries) != 2 {
		t.Fatalf("got %+v", entries)
	}
	if entries[0].Name != "TERM" || entries[0].Kind != EnvKindVar {
		t.Fatalf("got %+v", entries[0])
	}
	if entries[1].Name != "CUSTOM" || entries[1].Kind != EnvKindUserVar {
		t.Fatalf("got %+v", entries[1])
	}
}

func TestParseEnvISNameWithNoValue(t *testing.T) {
	body := append([]byte{EnvVAR}, []byte("USER")...)
	entries := ParseEnvIS(body)
	if len(entries) != 1 || entries[0].Name != "USER" || entries[0].Value != "" {
		t.Fatalf("got %+v", entries)
	}
}

func TestParseEnvISEscapedTokenByte(t *testing.T) {
	// A value byte that happens to equal EnvVALUE literally must survive
	// escaped, not be mistaken for the VALUE token.
	body := []byte{EnvVAR}
	body = append(body, []byte("X")...)
	body = append(body, EnvVALUE)
	body = append(body, EnvESC, EnvVALUE) // escaped literal VALUE byte (1)
	body = append(body, 'y')
	entries := ParseEnvIS(body)
	if len(entries) != 1 {
		t.Fatalf("got %+v", entries)
	}
	want := string([]byte{EnvVALUE, 'y'})
	if entries[0].Value != want {
		t.Fatalf("got %q, want %q", entries[0].Value, want)
	}
}

func TestParseEnvISTruncatedTrailingRecordDropped(t *testing.T) {
	body := []byte{EnvVAR}
	body = append(body, []byte("GOOD")...)
	body = append(body, EnvVALUE)
	body = append(body, []byte("ok")...)
	body = append(body, EnvVAR, EnvESC) // truncated: ESC with nothing following
	entries := ParseEnvIS(body)
	if len(entries) != 1 || entries[0].Name != "GOOD" {
		t.Fatalf("expected only the complete record to survive, got %+v", entries)
	}
}

func TestEncodeEnvISRoundtrip(t *testing.T) {
	entries := []EnvEntry{
		{Name: "USER", Value: "alice", Kind: EnvKindVar},
		{Name: "MYVAR", Value: "1", Kind: EnvKindUserVar},
	}
	wire := EncodeEnvIS(entries)
	inner := wire[3 : len(wire)-2]
	got := ParseEnvIS(inner[1:]) // strip SubIS
	if len(got) != 2 || got[0].Name != "USER" || got[1].Kind != EnvKindUserVar {
		t.Fatalf("got %+v", got)
	}
}

func TestEncodeEnvSendEmptyMeansAll(t *testing.T) {
	wire := EncodeEnvSend(nil)
	inner := wire[3 : len(wire)-2]
	if len(inner) != 1 || inner[0] != SubSEND {
		t.Fatalf("got %v, want a bare SEND token", inner)
	}
}

func TestEnvTableEvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	tbl := NewEnvTable()
	// Exercise eviction indirectly: fill past capacity and confirm the
	// table never exceeds defaultMaxEnvVars entries.
	for i := 0; i < defaultMaxEnvVars+10; i++ {
		name := string(rune('a' + i%26))
		tbl.Set(EnvEntry{Name: name + string(rune(i)), Value: "v"})
	}
	if tbl.Len() > defaultMaxEnvVars {
		t.Fatalf("got Len()=%d, want <= %d", tbl.Len(), defaultMaxEnvVars)
	}
	if _, ok := tbl.Get("a" + string(rune(0))); ok {
		t.Fatalf("expected the first-inserted, least recently used entry to be evicted")
	}
}
