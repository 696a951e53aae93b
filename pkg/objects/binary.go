package objects

// BinaryInput is a decoded group 1/2 point: current state plus quality
// flags, and an optional event timestamp.
type BinaryInput struct {
	Value bool
	Flags BinaryFlags
	Time  Timestamp
}

// DecodeBinaryInputPacked unpacks a group 1 variation 1 block of count
// points starting at bit 0 of data.
func DecodeBinaryInputPacked(data []byte, count int) []BinaryInput {
	out := make([]BinaryInput, count)
	for i := 0; i < count; i++ {
		byteIdx, bitIdx := i/8, uint(i%8)
		bit := data[byteIdx]&(1<<bitIdx) != 0
		out[i] = BinaryInput{Value: bit, Flags: BinaryFlags{Online: true, State: bit}}
	}
	return out
}

// EncodeBinaryInputPacked packs count boolean states into a group 1
// variation 1 block.
func EncodeBinaryInputPacked(values []bool) []byte {
	out := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// DecodeBinaryInputFlags decodes a single group 1 variation 2 (or group 2
// variation 1/2/3) object from data, which must be at least the size the
// variation's SizeSpec reports. A 1-byte variation 2 object (group 1) is
// read as the flag byte alone.
func DecodeBinaryInputFlags(variation byte, data []byte) BinaryInput {
	flags := DecodeBinaryFlags(data[0])
	bi := BinaryInput{Value: flags.State, Flags: flags}
	switch variation {
	case 2: // group 2 var 2: flags + 48-bit absolute time
		if len(data) >= 7 {
			bi.Time = Timestamp{Valid: true, Millis: DecodeAbsolute48(data[1:7])}
		}
	case 3: // group 2 var 3: flags + 16-bit relative time
		ms := uint64(data[1]) | uint64(data[2])<<8
		bi.Time = Timestamp{Valid: true, Relative: true, Millis: ms}
	}
	return bi
}

// EncodeBinaryInputFlags serializes a BinaryInput for the given group 2
// variation: 2 appends a 48-bit absolute time, 3 a 16-bit relative time,
// and any other value writes the flag byte alone (the group 1 variation 2
// layout).
func EncodeBinaryInputFlags(variation byte, bi BinaryInput) []byte {
	flags := bi.Flags
	flags.State = bi.Value
	out := []byte{flags.Encode()}
	switch variation {
	case 2:
		out = append(out, EncodeAbsolute48(bi.Time.Millis)...)
	case 3:
		out = append(out, byte(bi.Time.Millis), byte(bi.Time.Millis>>8))
	}
	return out
}

// BinaryOutput is a decoded group 10/11 point.
type BinaryOutput struct {
	Value bool
	Flags BinaryFlags
	Time  Timestamp
}

// DecodeBinaryOutputPacked mirrors DecodeBinaryInputPacked for group 10
// variation 1.
func DecodeBinaryOutputPacked(data []byte, count int) []BinaryOutput {
	out := make([]BinaryOutput, count)
	for i := 0; i < count; i++ {
		byteIdx, bitIdx := i/8, uint(i%8)
		bit := data[byteIdx]&(1<<bitIdx) != 0
		out[i] = BinaryOutput{Value: bit, Flags: BinaryFlags{Online: true, State: bit}}
	}
	return out
}

// DecodeBinaryOutputFlags decodes a group 10 variation 2 or group 11
// variation 1/2 object. group distinguishes group 10's flags-only
// variation 2 from group 11's time-carrying variation 2.
func DecodeBinaryOutputFlags(group, variation byte, data []byte) BinaryOutput {
	flags := DecodeBinaryFlags(data[0])
	bo := BinaryOutput{Value: flags.State, Flags: flags}
	if group == 11 && variation == 2 && len(data) >= 7 {
		bo.Time = Timestamp{Valid: true, Millis: DecodeAbsolute48(data[1:7])}
	}
	return bo
}
