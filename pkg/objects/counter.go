package objects

// Counter is a decoded group 20/21/22 point. Delta variations (20/3,4,7,8)
// carry a signed count -- spec.md section 4.5 requires two's-complement
// representation for those -- while the rest of the group is a plain
// unsigned running count. Value always holds the raw bit pattern; use
// SignedValue for delta variations.
type Counter struct {
	Value   uint32
	IsDelta bool
	Width   int // wire width in bytes (2 or 4) Value was decoded from
	Flags   CounterFlags
	Time    Timestamp
}

// SignedValue interprets Value as a two's-complement signed count, sign
// extended from the wire width Width records. Only meaningful when
// IsDelta is true.
func (c Counter) SignedValue() int32 {
	if !c.IsDelta {
		return int32(c.Value)
	}
	if c.Width == 2 {
		return int32(int16(c.Value))
	}
	return int32(c.Value)
}

type counterLayout struct {
	hasFlag bool
	width   int // 2 or 4
	hasTime bool
	delta   bool
}

var counterLayouts = map[[2]byte]counterLayout{
	{20, 1}: {hasFlag: true, width: 4},
	{20, 2}: {hasFlag: true, width: 2},
	{20, 3}: {hasFlag: true, width: 4, delta: true},
	{20, 4}: {hasFlag: true, width: 2, delta: true},
	{20, 5}: {hasFlag: false, width: 4},
	{20, 6}: {hasFlag: false, width: 2},
	{20, 7}: {hasFlag: false, width: 4, delta: true},
	{20, 8}: {hasFlag: false, width: 2, delta: true},

	{21, 1}:  {hasFlag: true, width: 4},
	{21, 2}:  {hasFlag: true, width: 2},
	{21, 5}:  {hasFlag: true, width: 4, hasTime: true},
	{21, 6}:  {hasFlag: true, width: 2, hasTime: true},
	{21, 9}:  {hasFlag: false, width: 4},
	{21, 10}: {hasFlag: false, width: 2},

	{22, 1}: {hasFlag: true, width: 4},
	{22, 2}: {hasFlag: true, width: 2},
	{22, 5}: {hasFlag: true, width: 4, hasTime: true},
	{22, 6}: {hasFlag: true, width: 2, hasTime: true},
}

// DecodeCounter decodes one group 20/21/22 object.
func DecodeCounter(group, variation byte, data []byte) Counter {
	layout := counterLayouts[[2]byte{group, variation}]
	offset := 0
	c := Counter{IsDelta: layout.delta, Width: layout.width}
	if layout.hasFlag {
		c.Flags = DecodeCounterFlags(data[0])
		offset = 1
	} else {
		c.Flags = CounterFlags{Online: true}
	}

	if layout.width == 2 {
		c.Value = uint32(data[offset]) | uint32(data[offset+1])<<8
		offset += 2
	} else {
		c.Value = uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
		offset += 4
	}

	if layout.hasTime {
		c.Time = Timestamp{Valid: true, Millis: DecodeAbsolute48(data[offset : offset+6])}
	}
	return c
}

// EncodeCounter serializes a Counter for the given group/variation.
func EncodeCounter(group, variation byte, c Counter) []byte {
	layout := counterLayouts[[2]byte{group, variation}]
	var out []byte
	if layout.hasFlag {
		out = append(out, c.Flags.Encode())
	}
	if layout.width == 2 {
		out = append(out, byte(c.Value), byte(c.Value>>8))
	} else {
		out = append(out, byte(c.Value), byte(c.Value>>8), byte(c.Value>>16), byte(c.Value>>24))
	}
	if layout.hasTime {
		out = append(out, EncodeAbsolute48(c.Time.Millis)...)
	}
	return out
}
