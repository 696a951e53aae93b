package app

import "github.com/fxodell/dnp3/pkg/objects"

// Qualifier is the object header qualifier code, selecting how a header's
// range/count is encoded and whether each object carries its own index.
type Qualifier byte

const (
	QualStartStop8          Qualifier = 0x00
	QualStartStop16         Qualifier = 0x01
	QualAllObjects          Qualifier = 0x06
	QualCount8              Qualifier = 0x07
	QualCount16             Qualifier = 0x08
	QualIndexPrefix8Count8  Qualifier = 0x17
	QualIndexPrefix16Count8 Qualifier = 0x28
	QualIndexPrefix16Count16 Qualifier = 0x29
)

func (q Qualifier) indexed() bool {
	return q == QualIndexPrefix8Count8 || q == QualIndexPrefix16Count8 || q == QualIndexPrefix16Count16
}

// ObjectHeader identifies one object block: the group/variation being
// described and the qualifier that shaped its range or index encoding.
type ObjectHeader struct {
	Group     byte
	Variation byte
	Qualifier Qualifier
}

// Point is one decoded object instance: its point index and raw wire
// bytes. Use DecodeSection (decode.go) to turn Raw into a typed value. Count is
// only meaningful for a packed-bit block Point (see finishRange): the
// true number of points the range/count addressed, since the backing
// byte block is padded up to a whole number of bytes.
type Point struct {
	Index int
	Raw   []byte
	Count int
}

// Section is one object header plus the points it describes.
type Section struct {
	Header ObjectHeader
	Points []Point
}

// ParseSections walks data, a sequence of object header blocks, until it is
// exhausted. It returns the decoded sections in wire order.
func ParseSections(data []byte) ([]Section, error) {
	var sections []Section
	pos := 0
	for pos < len(data) {
		sec, n, err := parseSection(data[pos:])
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
		pos += n
	}
	return sections, nil
}

func parseSection(data []byte) (Section, int, error) {
	if len(data) < 3 {
		return Section{}, 0, ErrHeaderTruncated
	}
	header := ObjectHeader{Group: data[0], Variation: data[1], Qualifier: Qualifier(data[2])}
	pos := 3

	spec, known := objects.ObjectSize(header.Group, header.Variation)
	if !known && header.Qualifier != QualAllObjects {
		return Section{}, 0, ErrUnknownObject
	}

	switch header.Qualifier {
	case QualStartStop8:
		if len(data) < pos+2 {
			return Section{}, 0, ErrHeaderTruncated
		}
		start, stop := int(data[pos]), int(data[pos+1])
		pos += 2
		return finishRange(header, data, pos, start, stop, spec)

	case QualStartStop16:
		if len(data) < pos+4 {
			return Section{}, 0, ErrHeaderTruncated
		}
		start := int(data[pos]) | int(data[pos+1])<<8
		stop := int(data[pos+2]) | int(data[pos+3])<<8
		pos += 4
		return finishRange(header, data, pos, start, stop, spec)

	case QualAllObjects:
		return Section{Header: header, Points: nil}, pos, nil

	case QualCount8:
		if len(data) < pos+1 {
			return Section{}, 0, ErrHeaderTruncated
		}
		count := int(data[pos])
		pos++
		return finishRange(header, data, pos, 0, count-1, spec)

	case QualCount16:
		if len(data) < pos+2 {
			return Section{}, 0, ErrHeaderTruncated
		}
		count := int(data[pos]) | int(data[pos+1])<<8
		pos += 2
		return finishRange(header, data, pos, 0, count-1, spec)

	case QualIndexPrefix8Count8, QualIndexPrefix16Count8, QualIndexPrefix16Count16:
		return finishIndexed(header, data, pos, spec)

	default:
		return Section{}, 0, ErrUnknownQualifier
	}
}

func finishRange(header ObjectHeader, data []byte, pos, start, stop int, spec objects.SizeSpec) (Section, int, error) {
	if header.Qualifier == QualCount8 || header.Qualifier == QualCount16 {
		if stop < start {
			return Section{Header: header}, pos, nil
		}
	} else if start > stop {
		return Section{}, 0, ErrRangeInverted
	}
	count := stop - start + 1

	blockLen := spec.BlockBytes(count)
	if len(data) < pos+blockLen {
		return Section{}, 0, ErrHeaderTruncated
	}
	block := data[pos : pos+blockLen]
	pos += blockLen

	points := make([]Point, 0, count)
	if spec.Kind != objects.KindFixed {
		// Packed-bit objects are decoded as a whole block by the caller;
		// surface the entire block once under the range's first index,
		// carrying the true point count since the block is byte-padded.
		points = append(points, Point{Index: start, Raw: block, Count: count})
		return Section{Header: header, Points: points}, pos, nil
	}
	for i := 0; i < count; i++ {
		off := i * spec.Size
		points = append(points, Point{Index: start + i, Raw: block[off : off+spec.Size]})
	}
	return Section{Header: header, Points: points}, pos, nil
}

func finishIndexed(header ObjectHeader, data []byte, pos int, spec objects.SizeSpec) (Section, int, error) {
	indexSize := 1
	if header.Qualifier != QualIndexPrefix8Count8 {
		indexSize = 2
	}

	var count int
	switch header.Qualifier {
	case QualIndexPrefix8Count8, QualIndexPrefix16Count8:
		if len(data) < pos+1 {
			return Section{}, 0, ErrHeaderTruncated
		}
		count = int(data[pos])
		pos++
	case QualIndexPrefix16Count16:
		if len(data) < pos+2 {
			return Section{}, 0, ErrHeaderTruncated
		}
		count = int(data[pos]) | int(data[pos+1])<<8
		pos += 2
	}

	points := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		if len(data) < pos+indexSize+spec.Size {
			return Section{}, 0, ErrHeaderTruncated
		}
		var idx int
		if indexSize == 1 {
			idx = int(data[pos])
		} else {
			idx = int(data[pos]) | int(data[pos+1])<<8
		}
		pos += indexSize
		points = append(points, Point{Index: idx, Raw: data[pos : pos+spec.Size]})
		pos += spec.Size
	}
	return Section{Header: header, Points: points}, pos, nil
}

// BuildRangeSection serializes a section addressing points start..stop by
// an 8-bit or 16-bit start/stop qualifier (whichever fits) followed by the
// fixed-size encoded payload for each point, in index order.
func BuildRangeSection(group, variation byte, start, stop int, payload []byte) []byte {
	var out []byte
	if start <= 0xFF && stop <= 0xFF {
		out = []byte{group, variation, byte(QualStartStop8), byte(start), byte(stop)}
	} else {
		out = []byte{group, variation, byte(QualStartStop16), byte(start), byte(start >> 8), byte(stop), byte(stop >> 8)}
	}
	return append(out, payload...)
}

// BuildIndexedSection serializes a section where each point carries its
// own 1-byte index, using qualifier 0x17 (8-bit count, 8-bit index
// prefix) -- the layout DNP3 control requests use.
func BuildIndexedSection(group, variation byte, indexedPayload []struct {
	Index   int
	Payload []byte
}) []byte {
	out := []byte{group, variation, byte(QualIndexPrefix8Count8), byte(len(indexedPayload))}
	for _, p := range indexedPayload {
		out = append(out, byte(p.Index))
		out = append(out, p.Payload...)
	}
	return out
}

// BuildAllObjectsSection serializes a qualifier 0x06 header with no range
// or data, as used by class/integrity poll requests.
func BuildAllObjectsSection(group, variation byte) []byte {
	return []byte{group, variation, byte(QualAllObjects)}
}
