package text

import "testing"

func TestStripANSIRemovesEscapeCodes(t *testing.T) {
	got := StripANSI("\x1b[31mred\x1b[0m plain")
	if got != "red plain" {
		t.Fatalf("got %q", got)
	}
}

func TestNewLineSplitsRawAndClean(t *testing.T) {
	l := NewLine("\x1b[1mbold\x1b[0m")
	if l.Raw != "\x1b[1mbold\x1b[0m" {
		t.Fatalf("got raw %q", l.Raw)
	}
	if l.Clean != "bold" {
		t.Fatalf("got clean %q", l.Clean)
	}
}

func TestFilterClearSequencesRemovesHomeAndClear(t *testing.T) {
	got := FilterClearSequences("\x1b[2Jhello\x1b[Hworld")
	if got != "helloworld" {
		t.Fatalf("got %q", got)
	}
}

func TestFilterClearSequencesLeavesColorCodesIntact(t *testing.T) {
	in := "\x1b[31mred\x1b[0m"
	if got := FilterClearSequences(in); got != in {
		t.Fatalf("got %q, want unchanged %q", got, in)
	}
}
