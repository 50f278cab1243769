package telnet

import "time"

// Config is the recognised configuration surface for a session. It has
// no defaults baked into the zero value other than those
// documented per field; callers typically start from DefaultConfig.
type Config struct {
	// Encoding is a character-encoding name (e.g. "UTF-8") or the
	// sentinel "binary bytes". Session does not read it: the application
	// always receives the peer's bytes as sent, without transcoding.
	Encoding string

	// ForceBinary treats both directions as BINARY regardless of
	// negotiation outcome, for peers (BSD telnet, netcat) that never
	// negotiate but still expect 8-bit-clean transport.
	ForceBinary bool

	ConnectMinWait time.Duration
	ConnectMaxWait time.Duration
	ConnectTimeout time.Duration

	// Term and Speed are advertised via TTYPE and TSPEED respectively.
	Term  string
	Speed string

	// SendEnviron is the allowlist of variable names this side will
	// include in a NEW_ENVIRON IS reply. Defaults to WellKnownEnvVars.
	SendEnviron []string

	// NeverSendGA is not read by Session, which never emits IAC GA on its
	// own whether or not SGA has been negotiated.
	NeverSendGA bool

	// DefaultSLCTable overrides the BSD-derived seed table. Nil means
	// use DefaultSLCTable().
	DefaultSLCTable SLCTable

	Role Role

	CharsetPolicy CharsetPolicy
}

const BinaryEncoding = "binary bytes"

// DefaultConfig returns the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		Encoding:       "UTF-8",
		ConnectMinWait: 0,
		ConnectMaxWait: 2 * time.Second,
		ConnectTimeout: 10 * time.Second,
		Term:           "ansi",
		SendEnviron:    WellKnownEnvVars,
		CharsetPolicy:  DefaultCharsetPolicy(),
	}
}
