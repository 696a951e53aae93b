package app

import "github.com/fxodell/dnp3/pkg/objects"

// DecodedObject pairs a point index with its fully typed decoded value, as
// produced by DecodeSection. Value's concrete type depends on Group: for
// example group 30 yields objects.AnalogInput, group 12 yields
// objects.CROB. Group 60 class-data sections yield no DecodedObject: an
// ALL_OBJECTS section decodes to nothing, and any other qualifier on group
// 60 is ErrUnknownObject.
type DecodedObject struct {
	Group     byte
	Variation byte
	Index     int
	Value     interface{}
}

// DecodeSection expands a parsed Section's raw point bytes into typed
// values. Packed-bit sections (group 1/10 variation 1) are unpacked from
// their single combined Point into one DecodedObject per bit; all other
// kinds decode one Point to one DecodedObject.
func DecodeSection(sec Section) ([]DecodedObject, error) {
	if sec.Header.Qualifier == QualAllObjects {
		return nil, nil
	}

	spec, known := objects.ObjectSize(sec.Header.Group, sec.Header.Variation)
	if !known {
		return nil, ErrUnknownObject
	}

	if spec.Kind != objects.KindFixed && len(sec.Points) == 1 {
		return decodePacked(sec.Header, sec.Points[0])
	}

	out := make([]DecodedObject, 0, len(sec.Points))
	for _, p := range sec.Points {
		v, err := decodeOne(sec.Header.Group, sec.Header.Variation, p.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, DecodedObject{Group: sec.Header.Group, Variation: sec.Header.Variation, Index: p.Index, Value: v})
	}
	return out, nil
}

func decodePacked(h ObjectHeader, p Point) ([]DecodedObject, error) {
	count := p.Count
	switch h.Group {
	case 1:
		bits := objects.DecodeBinaryInputPacked(p.Raw, count)
		out := make([]DecodedObject, count)
		for i, b := range bits {
			out[i] = DecodedObject{Group: h.Group, Variation: h.Variation, Index: p.Index + i, Value: b}
		}
		return out, nil
	case 10:
		bits := objects.DecodeBinaryOutputPacked(p.Raw, count)
		out := make([]DecodedObject, count)
		for i, b := range bits {
			out[i] = DecodedObject{Group: h.Group, Variation: h.Variation, Index: p.Index + i, Value: b}
		}
		return out, nil
	default:
		// Group 3 (double-bit) and any other packed kind: header grammar
		// can skip it, but this core has no typed decode for it.
		return nil, ErrUnknownObject
	}
}

func decodeOne(group, variation byte, raw []byte) (interface{}, error) {
	switch group {
	case 1, 2:
		return objects.DecodeBinaryInputFlags(variation, raw), nil
	case 10, 11:
		return objects.DecodeBinaryOutputFlags(group, variation, raw), nil
	case 12:
		return objects.DecodeCROB(raw), nil
	case 20, 21, 22:
		return objects.DecodeCounter(group, variation, raw), nil
	case 30, 31, 32, 42:
		return objects.DecodeAnalogInput(group, variation, raw), nil
	case 40:
		return objects.DecodeAnalogOutputStatus(variation, raw), nil
	case 41:
		return objects.DecodeAnalogOutputBlock(variation, raw), nil
	case 50:
		return objects.DecodeTimeAndDate(raw), nil
	default:
		return nil, ErrUnknownObject
	}
}
