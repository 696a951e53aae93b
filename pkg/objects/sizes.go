package objects

// SizeKind classifies how many bytes (or bits) a single object occupies
// within a qualifier 0x00/0x01/0x07/0x08/0x17/0x28/0x29 object block.
type SizeKind int

const (
	// KindFixed objects occupy a fixed number of bytes each.
	KindFixed SizeKind = iota
	// KindPackedBit1 objects occupy 1 bit each (groups 1, 10); the block
	// size in bytes is ceil(count/8).
	KindPackedBit1
	// KindPackedBit2 objects occupy 2 bits each (group 3, double-bit
	// binary input); the block size in bytes is ceil(2*count/8). Group 3
	// is not decoded to a typed value by this core (see decodePacked in
	// pkg/app) but a
	// conforming header parser must still be able to skip over it.
	KindPackedBit2
)

// SizeSpec describes the per-object footprint for one (group, variation).
type SizeSpec struct {
	Kind SizeKind
	Size int // bytes per object, meaningful only when Kind == KindFixed
}

// BlockBytes returns the number of bytes occupied by count objects of this
// size spec.
func (s SizeSpec) BlockBytes(count int) int {
	switch s.Kind {
	case KindPackedBit1:
		return (count + 7) / 8
	case KindPackedBit2:
		return (2*count + 7) / 8
	default:
		return s.Size * count
	}
}

var sizeTable = map[[2]byte]SizeSpec{
	// Group 1: Binary Input (static).
	{1, 1}: {Kind: KindPackedBit1},
	{1, 2}: {Kind: KindFixed, Size: 1},

	// Group 2: Binary Input Event.
	{2, 1}: {Kind: KindFixed, Size: 1}, // flags only
	{2, 2}: {Kind: KindFixed, Size: 7}, // flags + 48-bit absolute time
	{2, 3}: {Kind: KindFixed, Size: 3}, // flags + 16-bit relative time

	// Group 3: Double-bit Binary Input (static). Header-skip only.
	{3, 1}: {Kind: KindPackedBit2},
	{3, 2}: {Kind: KindFixed, Size: 1},

	// Group 10: Binary Output (static).
	{10, 1}: {Kind: KindPackedBit1},
	{10, 2}: {Kind: KindFixed, Size: 1},

	// Group 11: Binary Output Event.
	{11, 1}: {Kind: KindFixed, Size: 1},
	{11, 2}: {Kind: KindFixed, Size: 7},

	// Group 12: Control Relay Output Block.
	{12, 1}: {Kind: KindFixed, Size: 11},

	// Group 20: Binary Counter (static).
	{20, 1}: {Kind: KindFixed, Size: 5}, // flag + 32-bit
	{20, 2}: {Kind: KindFixed, Size: 3}, // flag + 16-bit
	{20, 3}: {Kind: KindFixed, Size: 5}, // flag + 32-bit delta
	{20, 4}: {Kind: KindFixed, Size: 3}, // flag + 16-bit delta
	{20, 5}: {Kind: KindFixed, Size: 4}, // 32-bit, no flag
	{20, 6}: {Kind: KindFixed, Size: 2}, // 16-bit, no flag
	{20, 7}: {Kind: KindFixed, Size: 4}, // 32-bit delta, no flag
	{20, 8}: {Kind: KindFixed, Size: 2}, // 16-bit delta, no flag

	// Group 21: Frozen Counter (static).
	{21, 1}:  {Kind: KindFixed, Size: 5},
	{21, 2}:  {Kind: KindFixed, Size: 3},
	{21, 5}:  {Kind: KindFixed, Size: 11}, // flag + 32-bit + 48-bit time
	{21, 6}:  {Kind: KindFixed, Size: 9},  // flag + 16-bit + 48-bit time
	{21, 9}:  {Kind: KindFixed, Size: 4},
	{21, 10}: {Kind: KindFixed, Size: 2},

	// Group 22: Counter Event.
	{22, 1}: {Kind: KindFixed, Size: 5},
	{22, 2}: {Kind: KindFixed, Size: 3},
	{22, 5}: {Kind: KindFixed, Size: 11},
	{22, 6}: {Kind: KindFixed, Size: 9},

	// Group 30: Analog Input (static).
	{30, 1}: {Kind: KindFixed, Size: 5}, // flag + int32
	{30, 2}: {Kind: KindFixed, Size: 3}, // flag + int16
	{30, 3}: {Kind: KindFixed, Size: 4}, // int32, no flag
	{30, 4}: {Kind: KindFixed, Size: 2}, // int16, no flag
	{30, 5}: {Kind: KindFixed, Size: 5}, // flag + float32
	{30, 6}: {Kind: KindFixed, Size: 9}, // flag + float64

	// Group 31: Frozen Analog Input (static).
	{31, 1}: {Kind: KindFixed, Size: 5},
	{31, 2}: {Kind: KindFixed, Size: 3},
	{31, 5}: {Kind: KindFixed, Size: 4},
	{31, 6}: {Kind: KindFixed, Size: 2},
	{31, 7}: {Kind: KindFixed, Size: 5},
	{31, 8}: {Kind: KindFixed, Size: 9},

	// Group 32: Analog Input Event.
	{32, 1}: {Kind: KindFixed, Size: 5},
	{32, 2}: {Kind: KindFixed, Size: 3},
	{32, 3}: {Kind: KindFixed, Size: 11},
	{32, 4}: {Kind: KindFixed, Size: 9},
	{32, 5}: {Kind: KindFixed, Size: 5},
	{32, 6}: {Kind: KindFixed, Size: 9},
	{32, 7}: {Kind: KindFixed, Size: 11},
	{32, 8}: {Kind: KindFixed, Size: 15},

	// Group 40: Analog Output Status (static).
	{40, 1}: {Kind: KindFixed, Size: 5},
	{40, 2}: {Kind: KindFixed, Size: 3},
	{40, 3}: {Kind: KindFixed, Size: 5},
	{40, 4}: {Kind: KindFixed, Size: 9},

	// Group 41: Analog Output Block (control).
	{41, 1}: {Kind: KindFixed, Size: 5}, // int32 + status
	{41, 2}: {Kind: KindFixed, Size: 3}, // int16 + status
	{41, 3}: {Kind: KindFixed, Size: 5}, // float32 + status
	{41, 4}: {Kind: KindFixed, Size: 9}, // float64 + status

	// Group 42: Analog Output Event.
	{42, 1}: {Kind: KindFixed, Size: 5},
	{42, 2}: {Kind: KindFixed, Size: 3},
	{42, 3}: {Kind: KindFixed, Size: 11},
	{42, 4}: {Kind: KindFixed, Size: 9},
	{42, 5}: {Kind: KindFixed, Size: 5},
	{42, 6}: {Kind: KindFixed, Size: 9},
	{42, 7}: {Kind: KindFixed, Size: 11},
	{42, 8}: {Kind: KindFixed, Size: 15},

	// Group 50: Time and Date.
	{50, 1}: {Kind: KindFixed, Size: 6},

	// Group 60: Class Data. These objects carry no payload; they only
	// ever appear with the ALL_OBJECTS qualifier in a request.
	{60, 1}: {Kind: KindFixed, Size: 0},
	{60, 2}: {Kind: KindFixed, Size: 0},
	{60, 3}: {Kind: KindFixed, Size: 0},
	{60, 4}: {Kind: KindFixed, Size: 0},
}

// ObjectSize returns the per-object size spec for (group, variation) and
// whether that combination is known to this core.
func ObjectSize(group, variation byte) (SizeSpec, bool) {
	spec, ok := sizeTable[[2]byte{group, variation}]
	return spec, ok
}
