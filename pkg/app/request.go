package app

import "github.com/fxodell/dnp3/pkg/objects"

// BuildRequest assembles a master-to-outstation application fragment:
// control byte + function code + zero or more pre-built object sections.
// Requests are always a single fragment (FIR=FIN=true) at this layer; the
// transport function is responsible for segmentation below 249 bytes.
func BuildRequest(seq uint8, fn FunctionCode, sections ...[]byte) []byte {
	ctrl := ControlByte{FIR: true, FIN: true, Seq: seq & 0x0F}
	out := []byte{ctrl.Encode(), byte(fn)}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// BuildClassPoll builds a READ request for one event class (1-3) or the
// static/integrity class 0.
func BuildClassPoll(seq uint8, class objects.Class) []byte {
	return BuildRequest(seq, FuncRead, BuildAllObjectsSection(60, class.Group60Variation()))
}

// BuildIntegrityPoll builds the READ request for a full integrity scan:
// class 0 (static data) plus classes 1-3 (buffered events), matching the
// scan master stations run after (re)establishing a session.
func BuildIntegrityPoll(seq uint8) []byte {
	return BuildRequest(seq, FuncRead,
		BuildAllObjectsSection(60, objects.Class0.Group60Variation()),
		BuildAllObjectsSection(60, objects.Class1.Group60Variation()),
		BuildAllObjectsSection(60, objects.Class2.Group60Variation()),
		BuildAllObjectsSection(60, objects.Class3.Group60Variation()),
	)
}

// BuildRangeRead builds a READ request for one (group, variation) over an
// inclusive point index range.
func BuildRangeRead(seq uint8, group, variation byte, start, stop int) []byte {
	var header []byte
	if start <= 0xFF && stop <= 0xFF {
		header = []byte{group, variation, byte(QualStartStop8), byte(start), byte(stop)}
	} else {
		header = []byte{group, variation, byte(QualStartStop16), byte(start), byte(start >> 8), byte(stop), byte(stop >> 8)}
	}
	return BuildRequest(seq, FuncRead, header)
}

// BuildDirectOperateCROB builds a DIRECT_OPERATE (or DIRECT_OPERATE_NO_ACK)
// request carrying a single group 12 CROB addressed by index.
func BuildDirectOperateCROB(seq uint8, noAck bool, index int, crob objects.CROB) []byte {
	fn := FuncDirectOperate
	if noAck {
		fn = FuncDirectOperateNoAck
	}
	section := BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: index, Payload: objects.EncodeCROB(crob)}})
	return BuildRequest(seq, fn, section)
}

// BuildSelectCROB builds the SELECT half of a select-before-operate
// sequence.
func BuildSelectCROB(seq uint8, index int, crob objects.CROB) []byte {
	section := BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: index, Payload: objects.EncodeCROB(crob)}})
	return BuildRequest(seq, FuncSelect, section)
}

// BuildOperateCROB builds the OPERATE half of a select-before-operate
// sequence. Callers pass the same index and CROB as the SELECT; the master
// coordinator's echo validation (validateCROBEcho) checks only the echoed
// status byte, not that the echoed CROB matches the selected one.
func BuildOperateCROB(seq uint8, index int, crob objects.CROB) []byte {
	section := BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: index, Payload: objects.EncodeCROB(crob)}})
	return BuildRequest(seq, FuncOperate, section)
}

// BuildDirectOperateAOB builds a DIRECT_OPERATE request carrying a single
// group 41 Analog Output Block addressed by index.
func BuildDirectOperateAOB(seq uint8, noAck bool, variation byte, index int, value objects.AnalogValue) []byte {
	fn := FuncDirectOperate
	if noAck {
		fn = FuncDirectOperateNoAck
	}
	section := BuildIndexedSection(41, variation, []struct {
		Index   int
		Payload []byte
	}{{Index: index, Payload: objects.EncodeAnalogOutputBlock(variation, value)}})
	return BuildRequest(seq, fn, section)
}

// BuildColdRestart and BuildWarmRestart build the bodiless restart
// requests.
func BuildColdRestart(seq uint8) []byte { return BuildRequest(seq, FuncColdRestart) }
func BuildWarmRestart(seq uint8) []byte { return BuildRequest(seq, FuncWarmRestart) }

// BuildEnableUnsolicited and BuildDisableUnsolicited build requests
// toggling unsolicited response delivery for the given classes (1-3,
// addressed via group 60 all-objects sections as with class polls).
func BuildEnableUnsolicited(seq uint8, classes ...objects.Class) []byte {
	return buildUnsolicitedToggle(seq, FuncEnableUnsolicited, classes)
}

func BuildDisableUnsolicited(seq uint8, classes ...objects.Class) []byte {
	return buildUnsolicitedToggle(seq, FuncDisableUnsolicited, classes)
}

func buildUnsolicitedToggle(seq uint8, fn FunctionCode, classes []objects.Class) []byte {
	var sections [][]byte
	for _, c := range classes {
		sections = append(sections, BuildAllObjectsSection(60, c.Group60Variation()))
	}
	return BuildRequest(seq, fn, sections...)
}
