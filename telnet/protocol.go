// Package telnet implements the Telnet protocol engine: an IAC decoder,
// a per-option negotiation state machine, and an encoder, per RFC 854 and
// the standard option suite (RFC 856-861, 885, 1073, 1079, 1091, 1116,
// 1123, 1143(-lite), 1184, 1372, 1408/1572, 2066, 2217-adjacent LFLOW).
//
// The engine does not open sockets. It consumes bytes via Parser.Receive
// and produces outbound bytes as TelnetEvent values of kind
// TelnetEventDataSend; a driver (see the transport package and cmd/telnetd,
// cmd/telnetc) owns the actual connection.
package telnet

// Telnet commands (RFC 854).
const (
	CmdSE   byte = 240 // Subnegotiation End
	CmdNOP  byte = 241 // No Operation
	CmdDM   byte = 242 // Data Mark
	CmdBRK  byte = 243 // Break
	CmdIP   byte = 244 // Interrupt Process
	CmdAO   byte = 245 // Abort Output
	CmdAYT  byte = 246 // Are You There
	CmdEC   byte = 247 // Erase Character
	CmdEL   byte = 248 // Erase Line
	CmdGA   byte = 249 // Go Ahead
	CmdSB   byte = 250 // Subnegotiation Begin
	CmdWILL byte = 251
	CmdWONT byte = 252
	CmdDO   byte = 253
	CmdDONT byte = 254
	CmdIAC  byte = 255 // Interpret As Command
	CmdEOR  byte = 239 // End Of Record (RFC 885)
)

// CommandNames maps a command byte to its human-readable name, for logging.
var CommandNames = map[byte]string{
	CmdSE:   "SE",
	CmdNOP:  "NOP",
	CmdDM:   "DM",
	CmdBRK:  "BRK",
	CmdIP:   "IP",
	CmdAO:   "AO",
	CmdAYT:  "AYT",
	CmdEC:   "EC",
	CmdEL:   "EL",
	CmdGA:   "GA",
	CmdSB:   "SB",
	CmdWILL: "WILL",
	CmdWONT: "WONT",
	CmdDO:   "DO",
	CmdDONT: "DONT",
	CmdIAC:  "IAC",
	CmdEOR:  "EOR",
}

// Telnet options this engine understands. Unknown options still decode
// correctly (the classifier is data-driven on structure, not on the option
// table) but have no per-option handler and are always refused.
const (
	OptBinary        byte = 0  // RFC 856
	OptEcho          byte = 1  // RFC 857
	OptReconnect     byte = 2
	OptSGA           byte = 3  // RFC 858 - Suppress Go Ahead
	OptStatus        byte = 5  // RFC 859
	OptTimingMark    byte = 6  // RFC 860
	OptLogout        byte = 18 // RFC 727
	OptSNDLOC        byte = 23 // RFC 779
	OptTTYPE         byte = 24 // RFC 1091
	OptEOR           byte = 25 // RFC 885
	OptNAWS          byte = 31 // RFC 1073
	OptTSPEED        byte = 32 // RFC 1079
	OptLFLOW         byte = 33 // RFC 1372
	OptLinemode      byte = 34 // RFC 1184
	OptXDISPLOC      byte = 35 // RFC 1096
	OptOldEnviron    byte = 36 // RFC 1408 (deprecated by 1572)
	OptNewEnviron    byte = 39 // RFC 1572
	OptCharset       byte = 42 // RFC 2066
	OptMSSP          byte = 70 // MUD Server Status Protocol (opaque here)
	OptCompress2     byte = 86 // MCCP2 (opaque here)
	OptGMCP          byte = 201
	OptExtendedList  byte = 255 // RFC 861, non-goal, refused
)

// OptionNames maps an option byte to its human-readable name, for logging.
var OptionNames = map[byte]string{
	OptBinary:       "BINARY",
	OptEcho:         "ECHO",
	OptReconnect:    "RECONNECT",
	OptSGA:          "SGA",
	OptStatus:       "STATUS",
	OptTimingMark:   "TIMING-MARK",
	OptLogout:       "LOGOUT",
	OptSNDLOC:       "SNDLOC",
	OptTTYPE:        "TTYPE",
	OptEOR:          "EOR",
	OptNAWS:         "NAWS",
	OptTSPEED:       "TSPEED",
	OptLFLOW:        "LFLOW",
	OptLinemode:     "LINEMODE",
	OptXDISPLOC:     "XDISPLOC",
	OptOldEnviron:   "OLD-ENVIRON",
	OptNewEnviron:   "NEW-ENVIRON",
	OptCharset:      "CHARSET",
	OptMSSP:         "MSSP",
	OptCompress2:    "MCCP2",
	OptGMCP:         "GMCP",
	OptExtendedList: "EXOPL",
}

// OptionName returns a human-readable option name, falling back to
// "UNKNOWN" for options this engine has no table entry for.
func OptionName(opt byte) string {
	if name, ok := OptionNames[opt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Subnegotiation tokens shared by TTYPE, NEW_ENVIRON, STATUS, TSPEED,
// XDISPLOC, and SNDLOC.
const (
	SubIS   byte = 0
	SubSEND byte = 1
	SubINFO byte = 2
)

// NEW_ENVIRON tokens (RFC 1572). VAR and IS/VALUE share byte 0/1 by design
// of the RFC; keep them separately named for readability at call sites.
const (
	EnvVAR     byte = 0
	EnvVALUE   byte = 1
	EnvESC     byte = 2
	EnvUSERVAR byte = 3
)

// CHARSET tokens (RFC 2066).
const (
	CharsetREQUEST        byte = 1
	CharsetACCEPTED       byte = 2
	CharsetREJECTED       byte = 3
	CharsetTTABLE_IS      byte = 4
	CharsetTTABLE_REJECTED byte = 5
	CharsetTTABLE_ACK     byte = 6
	CharsetTTABLE_NAK     byte = 7
)

// LINEMODE sub-commands and MODE flags (RFC 1184).
const (
	LMModeCmd        byte = 1
	LMForwardMaskCmd byte = 2
	LMSlcCmd         byte = 3

	LMModeEdit    byte = 0x01
	LMModeTrapSig byte = 0x02
	LMModeSoftTab byte = 0x04
	LMModeLitEcho byte = 0x08
	LMModeAck     byte = 0x80
)

// SLC flag bits (RFC 1184 §3).
const (
	SLCNoSupport byte = 0
	SLCCantChange byte = 1
	SLCVariable   byte = 2
	SLCDefault    byte = 3
	slcLevelMask  byte = 0x03

	SLCFlushIn  byte = 32
	SLCFlushOut byte = 64
	SLCAck      byte = 128
)

// LFLOW sub-options (RFC 1372).
const (
	LflowOff         byte = 0
	LflowOn          byte = 1
	LflowRestartAny  byte = 2
	LflowRestartXon  byte = 3
)

// SB payload hard cap (spec: bounded byte buffer for the current
// subnegotiation).
const MaxSubnegotiationSize = 65535
