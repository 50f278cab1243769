package telnet

// NAWS is the negotiated terminal size (RFC 1073): 4 bytes big-endian,
// cols then rows. A value of 0 means "unspecified" but is still stored.
type NAWS struct {
	Cols uint16
	Rows uint16
}

// ParseNAWS decodes a NAWS subnegotiation payload. Any length other than
// 4 is a protocol violation that must not corrupt state: ok is false and
// the caller should drop the SB and log a warning instead of applying the
// zero value.
func ParseNAWS(payload []byte) (naws NAWS, ok bool) {
	if len(payload) != 4 {
		return NAWS{}, false
	}
	return NAWS{
		Cols: uint16(payload[0])<<8 | uint16(payload[1]),
		Rows: uint16(payload[2])<<8 | uint16(payload[3]),
	}, true
}

// EncodeNAWS frames naws for sending, e.g. in response to a resize.
func EncodeNAWS(naws NAWS) []byte {
	payload := []byte{
		byte(naws.Cols >> 8), byte(naws.Cols),
		byte(naws.Rows >> 8), byte(naws.Rows),
	}
	return SendSB(OptNAWS, payload)
}
