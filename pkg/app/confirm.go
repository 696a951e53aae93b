package app

// BuildConfirm builds the 2-byte application confirmation fragment a
// master sends in reply to a response with CON set. Confirms carry no
// object data and echo the response's sequence number.
func BuildConfirm(seq uint8, unsolicited bool) []byte {
	ctrl := ControlByte{FIR: true, FIN: true, UNS: unsolicited, Seq: seq & 0x0F}
	return []byte{ctrl.Encode(), byte(FuncConfirm)}
}
