package telnet

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// EnvKind distinguishes NEW_ENVIRON's two namespaces (RFC 1572): well-known
// variables (VAR) versus arbitrary application variables (USERVAR).
type EnvKind int

const (
	EnvKindVar EnvKind = iota
	EnvKindUserVar
)

// EnvEntry is one decoded NEW_ENVIRON record.
type EnvEntry struct {
	Name  string
	Value string
	Kind  EnvKind
}

// defaultMaxEnvVars bounds the peer-controlled variable table the same
// way the subnegotiation buffer is hard-capped: an adversarial or buggy
// peer must never be able to grow engine-owned memory without limit.
const defaultMaxEnvVars = 1024

// EnvTable is the bounded store of negotiated NEW_ENVIRON variables.
type EnvTable struct {
	cache *lru.Cache[string, EnvEntry]
}

// NewEnvTable builds an empty table capped at defaultMaxEnvVars entries.
func NewEnvTable() *EnvTable {
	c, _ := lru.New[string, EnvEntry](defaultMaxEnvVars)
	return &EnvTable{cache: c}
}

// Set stores or overwrites entry, evicting the least-recently-used
// variable if the table is at capacity.
func (t *EnvTable) Set(entry EnvEntry) {
	t.cache.Add(entry.Name, entry)
}

// Get returns the entry for name, if present.
func (t *EnvTable) Get(name string) (EnvEntry, bool) {
	return t.cache.Get(name)
}

// Len reports the number of stored variables.
func (t *EnvTable) Len() int {
	return t.cache.Len()
}

// All returns every stored entry, order unspecified.
func (t *EnvTable) All() []EnvEntry {
	out := make([]EnvEntry, 0, t.cache.Len())
	for _, k := range t.cache.Keys() {
		if e, ok := t.cache.Peek(k); ok {
			out = append(out, e)
		}
	}
	return out
}

// escapeEnvToken prefixes ESC to any VAR/VALUE/ESC/USERVAR token byte
// appearing literally within name/value data, per the ESC escaping rule.
func escapeEnvToken(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case EnvVAR, EnvVALUE, EnvESC, EnvUSERVAR:
			out = append(out, EnvESC, b)
		default:
			out = append(out, b)
		}
	}
	return out
}

func unescapeEnvToken(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == EnvESC && i+1 < len(data) {
			out = append(out, data[i+1])
			i++
			continue
		}
		out = append(out, data[i])
	}
	return out
}

// ParseEnvIS decodes the body of a NEW_ENVIRON IS (or INFO) payload, the
// bytes after the leading SubIS/SubINFO token, into ordered entries.
// A name with no following VALUE token is kept with an empty value; a
// trailing record cut off after a lone ESC byte is dropped rather than
// corrupting the table.
func ParseEnvIS(body []byte) []EnvEntry {
	var entries []EnvEntry
	i := 0
	readToken := func() ([]byte, bool) {
		start := i
		for i < len(body) {
			if body[i] == EnvESC {
				i += 2
				continue
			}
			if body[i] == EnvVAR || body[i] == EnvUSERVAR || body[i] == EnvVALUE {
				break
			}
			i++
		}
		if i > len(body) {
			return nil, false
		}
		return body[start:min(i, len(body))], true
	}

	for i < len(body) {
		tokenByte := body[i]
		if tokenByte != EnvVAR && tokenByte != EnvUSERVAR {
			i++
			continue
		}
		kind := EnvKindVar
		if tokenByte == EnvUSERVAR {
			kind = EnvKindUserVar
		}
		i++
		nameRaw, ok := readToken()
		if !ok {
			break
		}
		name := string(unescapeEnvToken(nameRaw))

		if i >= len(body) || body[i] != EnvVALUE {
			// A name with no VALUE token is legal (peer has no value for
			// it); record an empty value rather than discarding the name.
			entries = append(entries, EnvEntry{Name: name, Kind: kind})
			continue
		}
		i++ // consume VALUE
		valueRaw, ok := readToken()
		if !ok {
			break
		}
		entries = append(entries, EnvEntry{Name: name, Value: string(unescapeEnvToken(valueRaw)), Kind: kind})
	}
	return entries
}

// EncodeEnvIS frames a NEW_ENVIRON IS reply for entries.
func EncodeEnvIS(entries []EnvEntry) []byte {
	body := []byte{SubIS}
	for _, e := range entries {
		if e.Kind == EnvKindUserVar {
			body = append(body, EnvUSERVAR)
		} else {
			body = append(body, EnvVAR)
		}
		body = append(body, escapeEnvToken([]byte(e.Name))...)
		body = append(body, EnvVALUE)
		body = append(body, escapeEnvToken([]byte(e.Value))...)
	}
	return SendSB(OptNewEnviron, body)
}

// EncodeEnvSend frames a NEW_ENVIRON SEND request. An empty names list
// means "send all".
func EncodeEnvSend(names []string) []byte {
	body := []byte{SubSEND}
	for _, n := range names {
		body = append(body, EnvVAR)
		body = append(body, escapeEnvToken([]byte(n))...)
	}
	return SendSB(OptNewEnviron, body)
}

// WellKnownEnvVars is the default allowlist of variable names sent via
// NEW_ENVIRON IS when an application has not configured its own
// send_environ list, rather than sending the entire process environment
// to any peer that asks.
var WellKnownEnvVars = []string{"USER", "TERM", "COLUMNS", "LINES", "CHARSET"}
