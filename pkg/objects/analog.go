package objects

import "math"

// AnalogValue is a tagged union over the wire representations DNP3 analog
// objects use: signed integer or IEEE-754 float.
type AnalogValue struct {
	IsFloat bool
	Int     int32
	Float   float64
}

func (v AnalogValue) AsFloat64() float64 {
	if v.IsFloat {
		return v.Float
	}
	return float64(v.Int)
}

// AnalogInput is a decoded group 30/31/32 point.
type AnalogInput struct {
	Value AnalogValue
	Flags AnalogFlags
	Time  Timestamp
}

// analogLayout describes how to decode one fixed-size analog variation:
// whether a leading flag byte is present, the value's wire width/kind, and
// whether a trailing 48-bit absolute timestamp follows.
type analogLayout struct {
	hasFlag  bool
	width    int // 2, 4 (int) or 4, 8 (float, via isFloat)
	isFloat  bool
	hasTime  bool
}

var analogLayouts = map[[2]byte]analogLayout{
	{30, 1}: {hasFlag: true, width: 4},
	{30, 2}: {hasFlag: true, width: 2},
	{30, 3}: {hasFlag: false, width: 4},
	{30, 4}: {hasFlag: false, width: 2},
	{30, 5}: {hasFlag: true, width: 4, isFloat: true},
	{30, 6}: {hasFlag: true, width: 8, isFloat: true},

	{31, 1}: {hasFlag: true, width: 4},
	{31, 2}: {hasFlag: true, width: 2},
	{31, 5}: {hasFlag: false, width: 4},
	{31, 6}: {hasFlag: false, width: 2},
	{31, 7}: {hasFlag: true, width: 4, isFloat: true},
	{31, 8}: {hasFlag: true, width: 8, isFloat: true},

	{32, 1}: {hasFlag: true, width: 4},
	{32, 2}: {hasFlag: true, width: 2},
	{32, 3}: {hasFlag: true, width: 4, hasTime: true},
	{32, 4}: {hasFlag: true, width: 2, hasTime: true},
	{32, 5}: {hasFlag: true, width: 4, isFloat: true},
	{32, 6}: {hasFlag: true, width: 8, isFloat: true},
	{32, 7}: {hasFlag: true, width: 4, isFloat: true, hasTime: true},
	{32, 8}: {hasFlag: true, width: 8, isFloat: true, hasTime: true},

	{40, 1}: {hasFlag: true, width: 4},
	{40, 2}: {hasFlag: true, width: 2},
	{40, 3}: {hasFlag: true, width: 4, isFloat: true},
	{40, 4}: {hasFlag: true, width: 8, isFloat: true},

	{42, 1}: {hasFlag: true, width: 4},
	{42, 2}: {hasFlag: true, width: 2},
	{42, 3}: {hasFlag: true, width: 4, hasTime: true},
	{42, 4}: {hasFlag: true, width: 2, hasTime: true},
	{42, 5}: {hasFlag: true, width: 4, isFloat: true},
	{42, 6}: {hasFlag: true, width: 8, isFloat: true},
	{42, 7}: {hasFlag: true, width: 4, isFloat: true, hasTime: true},
	{42, 8}: {hasFlag: true, width: 8, isFloat: true, hasTime: true},
}

// DecodeAnalogInput decodes one group 30/31/32/40/42 object.
func DecodeAnalogInput(group, variation byte, data []byte) AnalogInput {
	layout := analogLayouts[[2]byte{group, variation}]
	offset := 0
	ai := AnalogInput{}
	if layout.hasFlag {
		ai.Flags = DecodeAnalogFlags(data[0])
		offset = 1
	} else {
		ai.Flags = AnalogFlags{Online: true}
	}

	ai.Value = decodeAnalogValue(layout, data[offset:offset+layout.width])
	offset += layout.width

	if layout.hasTime {
		ai.Time = Timestamp{Valid: true, Millis: DecodeAbsolute48(data[offset : offset+6])}
	}
	return ai
}

func decodeAnalogValue(layout analogLayout, raw []byte) AnalogValue {
	if layout.isFloat {
		if layout.width == 4 {
			bits := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
			return AnalogValue{IsFloat: true, Float: float64(math.Float32frombits(bits))}
		}
		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(raw[i]) << (8 * i)
		}
		return AnalogValue{IsFloat: true, Float: math.Float64frombits(bits)}
	}
	if layout.width == 2 {
		v := int16(uint16(raw[0]) | uint16(raw[1])<<8)
		return AnalogValue{Int: int32(v)}
	}
	v := int32(uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24)
	return AnalogValue{Int: v}
}

func encodeAnalogValue(layout analogLayout, v AnalogValue) []byte {
	if layout.isFloat {
		if layout.width == 4 {
			bits := math.Float32bits(float32(v.AsFloat64()))
			return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
		}
		bits := math.Float64bits(v.AsFloat64())
		out := make([]byte, 8)
		for i := 0; i < 8; i++ {
			out[i] = byte(bits >> (8 * i))
		}
		return out
	}
	if layout.width == 2 {
		iv := int16(v.Int)
		return []byte{byte(iv), byte(uint16(iv) >> 8)}
	}
	return []byte{byte(v.Int), byte(v.Int >> 8), byte(v.Int >> 16), byte(v.Int >> 24)}
}

// EncodeAnalogInput serializes an AnalogInput for the given group/variation.
func EncodeAnalogInput(group, variation byte, ai AnalogInput) []byte {
	layout := analogLayouts[[2]byte{group, variation}]
	var out []byte
	if layout.hasFlag {
		out = append(out, ai.Flags.Encode())
	}
	out = append(out, encodeAnalogValue(layout, ai.Value)...)
	if layout.hasTime {
		out = append(out, EncodeAbsolute48(ai.Time.Millis)...)
	}
	return out
}

// AnalogOutput is a decoded group 40 (status) or group 41 (control block)
// point.
type AnalogOutput struct {
	Value  AnalogValue
	Flags  AnalogFlags
	Status ControlStatus // meaningful for group 41 only
}

var analogOutputBlockLayouts = map[byte]analogLayout{
	1: {width: 4},
	2: {width: 2},
	3: {width: 4, isFloat: true},
	4: {width: 8, isFloat: true},
}

// DecodeAnalogOutputBlock decodes a group 41 object: value followed by a
// 1-byte control status echo.
func DecodeAnalogOutputBlock(variation byte, data []byte) AnalogOutput {
	layout := analogOutputBlockLayouts[variation]
	val := decodeAnalogValue(layout, data[:layout.width])
	return AnalogOutput{Value: val, Status: ControlStatus(data[layout.width])}
}

// EncodeAnalogOutputBlock serializes a group 41 request object: value
// followed by the 1-byte status, which is 0 on requests.
func EncodeAnalogOutputBlock(variation byte, value AnalogValue) []byte {
	layout := analogOutputBlockLayouts[variation]
	out := encodeAnalogValue(layout, value)
	return append(out, 0)
}

// DecodeAnalogOutputStatus decodes a group 40 object.
func DecodeAnalogOutputStatus(variation byte, data []byte) AnalogOutput {
	layout := analogLayouts[[2]byte{40, variation}]
	flags := DecodeAnalogFlags(data[0])
	val := decodeAnalogValue(layout, data[1:1+layout.width])
	return AnalogOutput{Value: val, Flags: flags}
}
