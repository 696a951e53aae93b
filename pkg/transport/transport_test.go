package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassembleAll(t *testing.T, segs []Segment) ([]byte, error) {
	t.Helper()
	r := NewReassembler(time.Second)
	var last []byte
	for _, s := range segs {
		out, complete, err := r.Feed(s)
		if err != nil {
			return nil, err
		}
		if complete {
			last = out
		}
	}
	return last, nil
}

func TestSegmentReassembleRoundTrip(t *testing.T) {
	apdu := make([]byte, 1000)
	for i := range apdu {
		apdu[i] = byte(i)
	}
	var seq uint8
	segs := SegmentAPDU(apdu, &seq)
	require.Greater(t, len(segs), 1)
	assert.True(t, segs[0].FIR)
	assert.True(t, segs[len(segs)-1].FIN)

	out, err := reassembleAll(t, segs)
	require.NoError(t, err)
	assert.Equal(t, apdu, out)
}

func TestEmptyAPDUSingleSegment(t *testing.T) {
	var seq uint8
	segs := SegmentAPDU(nil, &seq)
	require.Len(t, segs, 1)
	assert.True(t, segs[0].FIR)
	assert.True(t, segs[0].FIN)
	assert.Empty(t, segs[0].Payload)
}

func TestSequenceAdvancesAndWraps(t *testing.T) {
	var seq uint8 = 62
	apdu := make([]byte, MaxSegmentPayload*3)
	segs := SegmentAPDU(apdu, &seq)
	require.Len(t, segs, 3)
	assert.EqualValues(t, 62, segs[0].Seq)
	assert.EqualValues(t, 63, segs[1].Seq)
	assert.EqualValues(t, 0, segs[2].Seq)
	assert.EqualValues(t, 1, seq)
}

func TestDuplicateOfLastSegmentIgnored(t *testing.T) {
	var seq uint8
	apdu := make([]byte, MaxSegmentPayload*3)
	segs := SegmentAPDU(apdu, &seq)

	r := NewReassembler(time.Second)
	_, complete, err := r.Feed(segs[0])
	require.NoError(t, err)
	require.False(t, complete)

	// Duplicate delivery of segment 0: [s, s, s+1, s+2].
	_, complete, err = r.Feed(segs[0])
	require.NoError(t, err)
	require.False(t, complete)

	_, complete, err = r.Feed(segs[1])
	require.NoError(t, err)
	require.False(t, complete)

	out, complete, err := r.Feed(segs[2])
	require.NoError(t, err)
	require.True(t, complete)
	assert.Equal(t, apdu, out)
}

func TestReorderedSegmentIsFrameError(t *testing.T) {
	var seq uint8
	apdu := make([]byte, MaxSegmentPayload*3)
	segs := SegmentAPDU(apdu, &seq)

	r := NewReassembler(time.Second)
	_, _, err := r.Feed(segs[0])
	require.NoError(t, err)

	// [s, s+2, s+1] -- out of sequence.
	_, _, err = r.Feed(segs[2])
	assert.ErrorIs(t, err, ErrOutOfSequence)
	assert.True(t, r.Idle())
}

func TestLostFirstSegmentIsProtocolError(t *testing.T) {
	r := NewReassembler(time.Second)
	seg := Segment{Seq: 5, FIR: false, FIN: true, Payload: []byte{1}}
	_, _, err := r.Feed(seg)
	assert.ErrorIs(t, err, ErrLostFirstSegment)
}

func TestFIRWhileReceivingRestartsMessage(t *testing.T) {
	var seq uint8
	apdu := make([]byte, MaxSegmentPayload*3)
	segs := SegmentAPDU(apdu, &seq)

	r := NewReassembler(time.Second)
	_, _, err := r.Feed(segs[0])
	require.NoError(t, err)

	var seq2 uint8 = 10
	fresh := SegmentAPDU([]byte("hello"), &seq2)
	out, complete, err := r.Feed(fresh[0])
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, []byte("hello"), out)
}

func TestReassemblyTimeout(t *testing.T) {
	now := time.Now()
	r := NewReassembler(100 * time.Millisecond)
	r.Now = func() time.Time { return now }

	_, _, err := r.Feed(Segment{Seq: 0, FIR: true, Payload: []byte{1}})
	require.NoError(t, err)

	now = now.Add(200 * time.Millisecond)
	_, _, err = r.Feed(Segment{Seq: 1, Payload: []byte{2}})
	assert.ErrorIs(t, err, ErrReassemblyTimeout)
	assert.True(t, r.Idle())
}

func TestSizeLimitEnforced(t *testing.T) {
	r := NewReassembler(time.Second)
	big := make([]byte, MaxMessageSize)
	_, _, err := r.Feed(Segment{Seq: 0, FIR: true, Payload: big})
	require.NoError(t, err)

	_, _, err = r.Feed(Segment{Seq: 1, Payload: []byte{1}})
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	assert.True(t, r.Idle())
}

func TestEncodeDecodeSegment(t *testing.T) {
	s := Segment{Seq: 37, FIR: true, FIN: false, Payload: []byte{9, 8, 7}}
	encoded := s.Encode()
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}
