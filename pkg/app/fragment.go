package app

// Fragment is a fully parsed application fragment: its header fields and
// the flattened, typed objects every section decoded to.
type Fragment struct {
	Control  ControlByte
	Function FunctionCode
	IIN      IIN // zero value on request fragments (the master never sends IIN)
	Objects  []DecodedObject
}

// ParseFragment decodes a reassembled application fragment. isResponse
// selects whether the two bytes after the function code are parsed as IIN
// (response/unsolicited-response) or as the start of the object block
// (request).
func ParseFragment(data []byte, isResponse bool) (Fragment, error) {
	if len(data) < 2 {
		return Fragment{}, ErrFragmentTooShort
	}
	f := Fragment{
		Control:  DecodeControlByte(data[0]),
		Function: FunctionCode(data[1]),
	}
	pos := 2
	if isResponse {
		if len(data) < 4 {
			return Fragment{}, ErrFragmentTooShort
		}
		f.IIN = DecodeIIN(data[2], data[3])
		pos = 4
	}

	sections, err := ParseSections(data[pos:])
	if err != nil {
		return Fragment{}, err
	}
	for _, sec := range sections {
		objs, err := DecodeSection(sec)
		if err != nil {
			return Fragment{}, err
		}
		f.Objects = append(f.Objects, objs...)
	}
	return f, nil
}
