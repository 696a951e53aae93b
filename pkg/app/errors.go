// Package app implements the DNP3 application layer: the control byte,
// function codes, internal indication bits, the qualifier-driven object
// header grammar and the request/response/confirm fragment codecs built on
// top of it. See spec section 4.4.
package app

import "errors"

var (
	// ErrFragmentTooShort signals an application fragment with fewer than
	// the 2-byte control+function header.
	ErrFragmentTooShort = errors.New("dnp3: application fragment shorter than the 2-byte header")
	// ErrUnknownQualifier signals an object header qualifier byte this
	// core does not implement.
	ErrUnknownQualifier = errors.New("dnp3: unknown object header qualifier")
	// ErrUnknownObject signals a (group, variation) this core has no size
	// or codec information for.
	ErrUnknownObject = errors.New("dnp3: unknown object group/variation")
	// ErrHeaderTruncated signals an object header or its data block
	// running past the end of the fragment.
	ErrHeaderTruncated = errors.New("dnp3: object header truncated")
	// ErrRangeInverted signals a start/stop range with start > stop.
	ErrRangeInverted = errors.New("dnp3: object header range start exceeds stop")
)
