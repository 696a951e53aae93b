package app

// ControlByte is the application layer's 1-byte fragment header: the FIR,
// FIN, CON and UNS flags plus a 4-bit sequence number.
type ControlByte struct {
	FIR bool
	FIN bool
	CON bool
	UNS bool
	Seq uint8 // 0..15
}

// Encode serializes the control byte.
func (c ControlByte) Encode() byte {
	b := c.Seq & 0x0F
	if c.FIR {
		b |= 0x80
	}
	if c.FIN {
		b |= 0x40
	}
	if c.CON {
		b |= 0x20
	}
	if c.UNS {
		b |= 0x10
	}
	return b
}

// DecodeControlByte parses an application control byte.
func DecodeControlByte(b byte) ControlByte {
	return ControlByte{
		FIR: b&0x80 != 0,
		FIN: b&0x40 != 0,
		CON: b&0x20 != 0,
		UNS: b&0x10 != 0,
		Seq: b & 0x0F,
	}
}

// SequenceModulus is the wraparound point of the 4-bit application
// sequence number.
const SequenceModulus = 16
