package text

import "strings"

// Line represents a server line with both raw (ANSI) and clean (stripped) versions.
type Line struct {
	Raw   string // Original line with ANSI codes
	Clean string // ANSI-stripped version
}

// NewLine creates a Line from raw text, automatically stripping ANSI codes.
func NewLine(raw string) Line {
	return Line{Raw: raw, Clean: StripANSI(raw)}
}

// FilterClearSequences removes ANSI sequences that would clear the
// screen or reposition the cursor to the origin. A telnet peer that
// sends these expects to own the whole terminal; a scrollback view
// should not let it wipe history out from under the user.
func FilterClearSequences(line string) string {
	line = strings.ReplaceAll(line, "\x1b[2J", "")
	line = strings.ReplaceAll(line, "\x1b[H", "")
	line = strings.ReplaceAll(line, "\x1b[0;0H", "")
	line = strings.ReplaceAll(line, "\x1b[1;1H", "")
	return line
}

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
