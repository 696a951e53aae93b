package master

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fxodell/dnp3/pkg/app"
	"github.com/fxodell/dnp3/pkg/config"
	"github.com/fxodell/dnp3/pkg/link"
	"github.com/fxodell/dnp3/pkg/objects"
	"github.com/fxodell/dnp3/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	writes   [][]byte
	reads    [][]byte
	readIdx  int
	failRead bool
}

func (s *fakeStream) Connect(ctx context.Context, deadline time.Time) error { return nil }

func (s *fakeStream) Write(b []byte) error {
	s.writes = append(s.writes, append([]byte{}, b...))
	return nil
}

func (s *fakeStream) Read(ctx context.Context, deadline time.Time) ([]byte, error) {
	if s.failRead {
		return nil, errors.New("fake: connection reset")
	}
	if s.readIdx >= len(s.reads) {
		return nil, errors.New("fake: no more queued data")
	}
	b := s.reads[s.readIdx]
	s.readIdx++
	return b, nil
}

func (s *fakeStream) Close() error { return nil }

func testConfig() config.DNP3Config {
	cfg := config.Default()
	cfg.ResponseTimeout = 1
	cfg.ConnectionTimeout = 1
	cfg.SelectTimeout = 1
	cfg.RetryDelay = 0
	cfg.MaxRetries = 1
	return cfg
}

// buildResponseFrame wraps an application fragment as a single unconfirmed
// data link frame, as a fake outstation would send it.
func buildResponseFrame(t *testing.T, cfg config.DNP3Config, fragment []byte) []byte {
	t.Helper()
	var seq uint8
	segs := transport.SegmentAPDU(fragment, &seq)
	require.Len(t, segs, 1)
	frame, err := link.BuildUserDataFrame(uint16(cfg.MasterAddress), uint16(cfg.OutstationAddress), segs[0].Encode(), false, false)
	require.NoError(t, err)
	return frame
}

func TestOpenSendsResetLink(t *testing.T) {
	cfg := testConfig()
	stream := &fakeStream{}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))
	require.Len(t, stream.writes, 1)

	frame, n, err := link.ParseFrame(stream.writes[0])
	require.NoError(t, err)
	assert.Equal(t, len(stream.writes[0]), n)
	assert.Equal(t, byte(link.FuncResetLink), frame.Function())
}

func TestIntegrityPollDecodesBinaryInputs(t *testing.T) {
	cfg := testConfig()
	bi := objects.BinaryInput{Value: true, Flags: objects.BinaryFlags{Online: true, State: true}}
	// Group 1 variation 2 is the flag byte alone: the encoder's flags-only layout.
	section := app.BuildRangeSection(1, 2, 0, 0, objects.EncodeBinaryInputFlags(1, bi))
	fragment := append([]byte{app.ControlByte{FIR: true, FIN: true}.Encode(), byte(app.FuncResponse), 0, 0}, section...)

	stream := &fakeStream{reads: [][]byte{buildResponseFrame(t, cfg, fragment)}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	result := m.IntegrityPoll(context.Background())
	require.NoError(t, result.Error)
	require.Len(t, result.BinaryInputs, 1)
	assert.True(t, result.BinaryInputs[0].Value)
}

func TestDirectOperateBinarySuccess(t *testing.T) {
	cfg := testConfig()
	crob := objects.CROB{Op: objects.OpLatchOn, TCC: objects.TCCClose, Count: 1, OnTime: 100, Status: objects.StatusSuccess}
	section := app.BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: 3, Payload: objects.EncodeCROB(crob)}})
	fragment := append([]byte{app.ControlByte{FIR: true, FIN: true}.Encode(), byte(app.FuncResponse), 0, 0}, section...)

	stream := &fakeStream{reads: [][]byte{buildResponseFrame(t, cfg, fragment)}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	err := m.DirectOperateBinary(context.Background(), 3, crob, false)
	assert.NoError(t, err)
}

func TestDirectOperateBinaryRejected(t *testing.T) {
	cfg := testConfig()
	crob := objects.CROB{Op: objects.OpLatchOn, TCC: objects.TCCClose, Count: 1, Status: objects.StatusNotSupported}
	section := app.BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: 3, Payload: objects.EncodeCROB(crob)}})
	fragment := append([]byte{app.ControlByte{FIR: true, FIN: true}.Encode(), byte(app.FuncResponse), 0, 0}, section...)

	stream := &fakeStream{reads: [][]byte{buildResponseFrame(t, cfg, fragment)}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	err := m.DirectOperateBinary(context.Background(), 3, crob, false)
	var ctrlErr *ControlError
	require.ErrorAs(t, err, &ctrlErr)
	assert.Equal(t, objects.StatusNotSupported, ctrlErr.Status)
}

func TestSelectOperateBinarySequence(t *testing.T) {
	cfg := testConfig()
	crob := objects.CROB{Op: objects.OpPulseOn, TCC: objects.TCCTrip, Count: 1, OnTime: 500, Status: objects.StatusSuccess}
	section := app.BuildIndexedSection(12, 1, []struct {
		Index   int
		Payload []byte
	}{{Index: 1, Payload: objects.EncodeCROB(crob)}})
	fragment := append([]byte{app.ControlByte{FIR: true, FIN: true}.Encode(), byte(app.FuncResponse), 0, 0}, section...)
	frame := buildResponseFrame(t, cfg, fragment)

	stream := &fakeStream{reads: [][]byte{frame, frame}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	err := m.SelectOperateBinary(context.Background(), 1, crob)
	assert.NoError(t, err)
}

// TestMultiFragmentResponseMerges encodes spec.md section 8 scenario 5: two
// application fragments, the first FIR/!FIN, the second !FIR/FIN/CON=1,
// each decoding to one analog input. The merged PollResult must hold both
// points in order and a confirmation must be sent for the second fragment.
func TestMultiFragmentResponseMerges(t *testing.T) {
	cfg := testConfig()

	section0 := app.BuildRangeSection(30, 1, 0, 0, objects.EncodeAnalogInput(30, 1, objects.AnalogInput{
		Value: objects.AnalogValue{Int: 100}, Flags: objects.AnalogFlags{Online: true},
	}))
	frag1 := append([]byte{app.ControlByte{FIR: true, FIN: false}.Encode(), byte(app.FuncResponse), 0, 0}, section0...)

	section1 := app.BuildRangeSection(30, 1, 1, 1, objects.EncodeAnalogInput(30, 1, objects.AnalogInput{
		Value: objects.AnalogValue{Int: 200}, Flags: objects.AnalogFlags{Online: true},
	}))
	frag2 := append([]byte{app.ControlByte{FIR: false, FIN: true, CON: true, Seq: 1}.Encode(), byte(app.FuncResponse), 0, 0}, section1...)

	stream := &fakeStream{reads: [][]byte{
		buildResponseFrame(t, cfg, frag1),
		buildResponseFrame(t, cfg, frag2),
	}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	result := m.IntegrityPoll(context.Background())
	require.NoError(t, result.Error)
	require.Len(t, result.AnalogInputs, 2)
	assert.Equal(t, int32(100), result.AnalogInputs[0].Value.Int)
	assert.Equal(t, int32(200), result.AnalogInputs[1].Value.Int)

	// stream.writes: reset-link, integrity poll request, confirm for frag2.
	require.Len(t, stream.writes, 3)
	confirmFrag, n, err := link.ParseFrame(stream.writes[2])
	require.NoError(t, err)
	assert.Equal(t, len(stream.writes[2]), n)
	seg, err := transport.Decode(confirmFrag.UserData)
	require.NoError(t, err)
	confirm, err := app.ParseFragment(seg.Payload, false)
	require.NoError(t, err)
	assert.Equal(t, app.FunctionCode(0x00), confirm.Function)
	assert.Equal(t, uint8(1), confirm.Control.Seq)
}

func TestExchangeRetriesOnCommunicationError(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	cfg.RetryDelay = 0
	stream := &fakeStream{failRead: true}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	result := m.IntegrityPoll(context.Background())
	require.Error(t, result.Error)
	var commErr *CommunicationError
	assert.ErrorAs(t, result.Error, &commErr)
	// One initial attempt plus one retry: Open's reset-link write plus two
	// integrity-poll writes.
	assert.Len(t, stream.writes, 3)
}

func TestApplicationErrorOnIINErrorBits(t *testing.T) {
	cfg := testConfig()
	fragment := []byte{app.ControlByte{FIR: true, FIN: true}.Encode(), byte(app.FuncResponse), 0, app.IIN2ObjectUnknown}
	stream := &fakeStream{reads: [][]byte{buildResponseFrame(t, cfg, fragment)}}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))

	result := m.IntegrityPoll(context.Background())
	var appErr *ApplicationError
	require.ErrorAs(t, result.Error, &appErr)
}

func TestCloseClearsState(t *testing.T) {
	cfg := testConfig()
	stream := &fakeStream{}
	m := NewMaster(cfg, stream)
	require.NoError(t, m.Open(context.Background()))
	require.NoError(t, m.Close())
	assert.False(t, m.opened)
}
