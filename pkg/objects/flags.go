// Package objects implements typed encode/decode for the DNP3 static and
// event data objects used by this core: groups 1, 2, 10, 11, 12, 20, 21,
// 22, 30, 31, 32, 40, 41, 42, 50 and 60. See spec sections 3, 4.5 and 6.
package objects

// BinaryFlags is the flag byte carried by binary input/output points.
type BinaryFlags struct {
	Online       bool
	Restart      bool
	CommLost     bool
	RemoteForced bool
	LocalForced  bool
	Chatter      bool // binary input only; reserved on outputs
	Reserved     bool
	State        bool
}

func DecodeBinaryFlags(b byte) BinaryFlags {
	return BinaryFlags{
		Online:       b&0x01 != 0,
		Restart:      b&0x02 != 0,
		CommLost:     b&0x04 != 0,
		RemoteForced: b&0x08 != 0,
		LocalForced:  b&0x10 != 0,
		Chatter:      b&0x20 != 0,
		Reserved:     b&0x40 != 0,
		State:        b&0x80 != 0,
	}
}

func (f BinaryFlags) Encode() byte {
	var b byte
	if f.Online {
		b |= 0x01
	}
	if f.Restart {
		b |= 0x02
	}
	if f.CommLost {
		b |= 0x04
	}
	if f.RemoteForced {
		b |= 0x08
	}
	if f.LocalForced {
		b |= 0x10
	}
	if f.Chatter {
		b |= 0x20
	}
	if f.Reserved {
		b |= 0x40
	}
	if f.State {
		b |= 0x80
	}
	return b
}

// AnalogFlags is the flag byte carried by analog input/output points.
// Counters use CounterFlags, which names bits 5 and 6 rollover and
// discontinuity instead.
type AnalogFlags struct {
	Online       bool
	Restart      bool
	CommLost     bool
	RemoteForced bool
	LocalForced  bool
	OverRange    bool
	ReferenceErr bool
	Reserved     bool
}

func DecodeAnalogFlags(b byte) AnalogFlags {
	return AnalogFlags{
		Online:       b&0x01 != 0,
		Restart:      b&0x02 != 0,
		CommLost:     b&0x04 != 0,
		RemoteForced: b&0x08 != 0,
		LocalForced:  b&0x10 != 0,
		OverRange:    b&0x20 != 0,
		ReferenceErr: b&0x40 != 0,
		Reserved:     b&0x80 != 0,
	}
}

func (f AnalogFlags) Encode() byte {
	var b byte
	if f.Online {
		b |= 0x01
	}
	if f.Restart {
		b |= 0x02
	}
	if f.CommLost {
		b |= 0x04
	}
	if f.RemoteForced {
		b |= 0x08
	}
	if f.LocalForced {
		b |= 0x10
	}
	if f.OverRange {
		b |= 0x20
	}
	if f.ReferenceErr {
		b |= 0x40
	}
	if f.Reserved {
		b |= 0x80
	}
	return b
}

// CounterFlags is the flag byte carried by counter points.
type CounterFlags struct {
	Online         bool
	Restart        bool
	CommLost       bool
	RemoteForced   bool
	LocalForced    bool
	Rollover       bool
	Discontinuity  bool
	Reserved       bool
}

func DecodeCounterFlags(b byte) CounterFlags {
	return CounterFlags{
		Online:        b&0x01 != 0,
		Restart:       b&0x02 != 0,
		CommLost:      b&0x04 != 0,
		RemoteForced:  b&0x08 != 0,
		LocalForced:   b&0x10 != 0,
		Rollover:      b&0x20 != 0,
		Discontinuity: b&0x40 != 0,
		Reserved:      b&0x80 != 0,
	}
}

func (f CounterFlags) Encode() byte {
	var b byte
	if f.Online {
		b |= 0x01
	}
	if f.Restart {
		b |= 0x02
	}
	if f.CommLost {
		b |= 0x04
	}
	if f.RemoteForced {
		b |= 0x08
	}
	if f.LocalForced {
		b |= 0x10
	}
	if f.Rollover {
		b |= 0x20
	}
	if f.Discontinuity {
		b |= 0x40
	}
	if f.Reserved {
		b |= 0x80
	}
	return b
}

// Timestamp is an optional point timestamp: either absolute (48-bit
// milliseconds since the DNP3/UNIX epoch) or relative (16-bit milliseconds,
// used by some event variations).
type Timestamp struct {
	Valid    bool
	Relative bool
	Millis   uint64 // absolute: full 48-bit value; relative: 0..65535
}

// EncodeAbsolute48 serializes ms as a little-endian 48-bit value.
func EncodeAbsolute48(ms uint64) []byte {
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = byte(ms >> (8 * i))
	}
	return out
}

// DecodeAbsolute48 parses a little-endian 48-bit value.
func DecodeAbsolute48(b []byte) uint64 {
	var v uint64
	for i := 0; i < 6; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
