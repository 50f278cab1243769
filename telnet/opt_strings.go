package telnet

// EncodeStringIS frames an IS reply carrying an ASCII payload, the shape
// shared by TSPEED, XDISPLOC, and SNDLOC.
func EncodeStringIS(opt byte, value string) []byte {
	payload := append([]byte{SubIS}, []byte(value)...)
	return SendSB(opt, payload)
}

// EncodeStringSend frames a SEND request for opt.
func EncodeStringSend(opt byte) []byte {
	return SendSB(opt, []byte{SubSEND})
}

// ParseStringIS extracts the ASCII value from an IS payload, stripping
// the leading token. ok is false if payload does not start with SubIS.
func ParseStringIS(payload []byte) (value string, ok bool) {
	if len(payload) < 1 || payload[0] != SubIS {
		return "", false
	}
	return string(payload[1:]), true
}

// SendTimingMark returns "IAC WILL TM", the immediate reply to an
// incoming "IAC DO TM" round-trip probe: no subnegotiation involved.
func SendTimingMark() []byte {
	return Negotiate(CmdWILL, OptTimingMark)
}

// LogoutRequested reports whether opt/verb represents the peer asking us
// to log out, so the caller can schedule an orderly close.
func LogoutRequested(verb, opt byte) bool {
	return opt == OptLogout && (verb == CmdWILL || verb == CmdDO)
}
