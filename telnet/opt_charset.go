package telnet

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// CharsetUsage controls when this side is willing to switch its text
// encoding at all, mirroring the TerminalConfig side-policy design in the
// moodclient telnet library: a side may insist on always negotiating
// CHARSET, or only do so once BINARY is also agreed (the common case,
// since RFC 2066 payloads are themselves 7-bit-clean but the resulting
// text stream generally is not).
type CharsetUsage int

const (
	CharsetUsageBinary CharsetUsage = iota
	CharsetUsageAlways
)

// CharsetPolicy configures CHARSET negotiation for one side of a session.
type CharsetPolicy struct {
	Usage           CharsetUsage
	DefaultName     string
	FallbackName    string
	Supported       []string
}

// DefaultCharsetPolicy offers UTF-8, US-ASCII and ISO-8859-1, with Usage
// set to CharsetUsageBinary. Session does not read Usage, DefaultName or
// FallbackName: it sends its CHARSET REQUEST as soon as CHARSET is
// enabled, whatever the BINARY state.
func DefaultCharsetPolicy() CharsetPolicy {
	return CharsetPolicy{
		Usage:        CharsetUsageBinary,
		DefaultName:  "UTF-8",
		FallbackName: "US-ASCII",
		Supported:    []string{"UTF-8", "US-ASCII", "ISO-8859-1"},
	}
}

// NormalizeCharsetName resolves charset aliases (e.g. "iso-8859-02" ->
// "ISO-8859-2") to their canonical IANA name using x/text's index, so
// peers that spell a name differently still match our supported list.
func NormalizeCharsetName(name string) (canonical string, enc encoding.Encoding, ok bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", nil, false
	}
	e, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil || e == nil {
		// ASCII is not separately registered under that exact spelling in
		// every index build; promote it to UTF-8, since UTF-8 is a strict
		// superset for 7-bit content.
		if strings.EqualFold(trimmed, "ANSI_X3.4-1968") || strings.EqualFold(trimmed, "ASCII") || strings.EqualFold(trimmed, "US-ASCII") {
			return "UTF-8", nil, true
		}
		return "", nil, false
	}
	canonicalName, err := ianaindex.IANA.Name(e)
	if err != nil || canonicalName == "" {
		canonicalName = trimmed
	}
	return canonicalName, e, true
}

// SendCharsetRequest frames "IAC SB CHARSET REQUEST <sep><name1><sep>..."
// for the CHARSET REQUEST sub-protocol (RFC 2066). sep is conventionally
// a semicolon but any byte not itself used in a charset name is legal.
func SendCharsetRequest(names []string, sep byte) []byte {
	var body bytes.Buffer
	body.WriteByte(CharsetREQUEST)
	for _, n := range names {
		body.WriteByte(sep)
		body.WriteString(n)
	}
	return SendSB(OptCharset, body.Bytes())
}

// ChooseCharset implements the selection policy: pick the first offered
// name this engine supports, after normalizing
// aliases. offered is the delimiter-separated list from a REQUEST
// payload (with the leading REQUEST token and separator byte already
// stripped by the caller).
func ChooseCharset(policy CharsetPolicy, offered []string) (chosen string, ok bool) {
	supported := make(map[string]bool, len(policy.Supported))
	for _, s := range policy.Supported {
		supported[strings.ToUpper(s)] = true
	}
	for _, name := range offered {
		canonical, _, resolved := NormalizeCharsetName(name)
		if !resolved {
			continue
		}
		if supported[strings.ToUpper(canonical)] {
			return canonical, true
		}
	}
	return "", false
}

// ParseCharsetRequest splits a REQUEST payload (bytes after the REQUEST
// token) into its delimiter-separated names. The first byte of payload is
// the separator.
func ParseCharsetRequest(payload []byte) []string {
	if len(payload) < 1 {
		return nil
	}
	sep := payload[0]
	parts := strings.Split(string(payload[1:]), string(sep))
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncodeCharsetAccepted/EncodeCharsetRejected frame the two possible
// replies to a REQUEST.
func EncodeCharsetAccepted(name string) []byte {
	return SendSB(OptCharset, append([]byte{CharsetACCEPTED}, []byte(name)...))
}

func EncodeCharsetRejected() []byte {
	return SendSB(OptCharset, []byte{CharsetREJECTED})
}
