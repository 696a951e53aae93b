package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryInputPackedRoundTrip(t *testing.T) {
	values := []bool{true, false, true, true, false, false, false, true, true}
	packed := EncodeBinaryInputPacked(values)
	decoded := DecodeBinaryInputPacked(packed, len(values))
	for i, v := range values {
		assert.Equal(t, v, decoded[i].Value, "index %d", i)
	}
}

func TestBinaryInputFlagsRoundTrip(t *testing.T) {
	bi := BinaryInput{Value: true, Flags: BinaryFlags{Online: true, State: true}, Time: Timestamp{Valid: true, Millis: 123456789012}}
	raw := EncodeBinaryInputFlags(2, bi)
	out := DecodeBinaryInputFlags(2, raw)
	assert.True(t, out.Value)
	assert.True(t, out.Flags.Online)
	assert.Equal(t, uint64(123456789012), out.Time.Millis&0xFFFFFFFFFFFF)
}

func TestAnalogInputInt32RoundTrip(t *testing.T) {
	ai := AnalogInput{Value: AnalogValue{Int: -42}, Flags: AnalogFlags{Online: true}}
	raw := EncodeAnalogInput(30, 1, ai)
	out := DecodeAnalogInput(30, 1, raw)
	assert.Equal(t, int32(-42), out.Value.Int)
	assert.True(t, out.Flags.Online)
}

func TestAnalogInputFloat32RoundTrip(t *testing.T) {
	ai := AnalogInput{Value: AnalogValue{IsFloat: true, Float: 3.5}, Flags: AnalogFlags{Online: true}}
	raw := EncodeAnalogInput(30, 5, ai)
	out := DecodeAnalogInput(30, 5, raw)
	assert.InDelta(t, 3.5, out.Value.AsFloat64(), 0.0001)
}

func TestAnalogInputFloat64WithTimeRoundTrip(t *testing.T) {
	ai := AnalogInput{
		Value: AnalogValue{IsFloat: true, Float: -123.456},
		Flags: AnalogFlags{Online: true},
		Time:  Timestamp{Valid: true, Millis: 99999},
	}
	raw := EncodeAnalogInput(42, 8, ai)
	out := DecodeAnalogInput(42, 8, raw)
	assert.InDelta(t, -123.456, out.Value.AsFloat64(), 0.0001)
	assert.Equal(t, uint64(99999), out.Time.Millis)
}

func TestAnalogOutputBlockRoundTrip(t *testing.T) {
	raw := EncodeAnalogOutputBlock(1, AnalogValue{Int: 1000})
	out := DecodeAnalogOutputBlock(1, append(raw[:4], byte(StatusSuccess)))
	assert.Equal(t, int32(1000), out.Value.Int)
	assert.Equal(t, StatusSuccess, out.Status)
}

func TestCounterRoundTrip(t *testing.T) {
	c := Counter{Value: 70000, Flags: CounterFlags{Online: true}}
	raw := EncodeCounter(20, 1, c)
	out := DecodeCounter(20, 1, raw)
	assert.Equal(t, uint32(70000), out.Value)
	assert.True(t, out.Flags.Online)
}

func TestCounterWithTimeRoundTrip(t *testing.T) {
	c := Counter{Value: 5, Flags: CounterFlags{Online: true}, Time: Timestamp{Valid: true, Millis: 42}}
	raw := EncodeCounter(22, 5, c)
	out := DecodeCounter(22, 5, raw)
	assert.Equal(t, uint32(5), out.Value)
	assert.Equal(t, uint64(42), out.Time.Millis)
}

func TestDeltaCounterRoundTripNegative(t *testing.T) {
	c := Counter{Value: uint32(int32(-1)), IsDelta: true, Width: 2, Flags: CounterFlags{Online: true}}
	raw := EncodeCounter(20, 4, c)
	out := DecodeCounter(20, 4, raw)
	assert.True(t, out.IsDelta)
	assert.Equal(t, int32(-1), out.SignedValue())
}

func TestNonDeltaCounterSignedValueIsUnsigned(t *testing.T) {
	c := Counter{Value: 70000, Flags: CounterFlags{Online: true}}
	raw := EncodeCounter(20, 1, c)
	out := DecodeCounter(20, 1, raw)
	assert.False(t, out.IsDelta)
	assert.Equal(t, int32(70000), out.SignedValue())
}

func TestCROBRoundTrip(t *testing.T) {
	c := CROB{Op: OpLatchOn, TCC: TCCClose, Count: 1, OnTime: 1000, OffTime: 0, Status: StatusSuccess}
	raw := EncodeCROB(c)
	assert.Len(t, raw, 11)
	out := DecodeCROB(raw)
	assert.Equal(t, OpLatchOn, out.Op)
	assert.Equal(t, TCCClose, out.TCC)
	assert.Equal(t, uint32(1000), out.OnTime)
	assert.Equal(t, StatusSuccess, out.Status)
}

func TestTimeAndDateRoundTrip(t *testing.T) {
	tm := TimeAndDate{Millis: 1700000000000}
	out := DecodeTimeAndDate(EncodeTimeAndDate(tm))
	assert.Equal(t, tm.Millis, out.Millis)
}

func TestObjectSizeLookup(t *testing.T) {
	spec, ok := ObjectSize(12, 1)
	assert.True(t, ok)
	assert.Equal(t, 11, spec.Size)
	assert.Equal(t, 11, spec.BlockBytes(1))

	spec, ok = ObjectSize(1, 1)
	assert.True(t, ok)
	assert.Equal(t, KindPackedBit1, spec.Kind)
	assert.Equal(t, 2, spec.BlockBytes(9))

	_, ok = ObjectSize(99, 99)
	assert.False(t, ok)
}

func TestClassGroup60Variation(t *testing.T) {
	assert.Equal(t, byte(1), Class0.Group60Variation())
	assert.Equal(t, byte(4), Class3.Group60Variation())
}
