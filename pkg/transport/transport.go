// Package transport implements the DNP3 transport function: splitting an
// application fragment into ≤249-byte segments for the data link layer to
// carry, and reassembling received segments back into a complete fragment
// with 6-bit sequence checking, duplicate suppression, a size cap and a
// reassembly timeout. See spec section 4.3.
package transport

import (
	"errors"
	"fmt"
	"time"
)

// MaxSegmentPayload is the largest payload a single transport segment can
// carry, leaving the 1-byte transport header within the data link layer's
// 250-byte frame capacity (spec 4.3).
const MaxSegmentPayload = 249

// MaxMessageSize bounds the total size of a reassembled application
// fragment, regardless of peer behavior.
const MaxMessageSize = 65536

// SequenceModulus is the wraparound point of the 6-bit transport sequence.
const SequenceModulus = 64

var (
	// ErrLostFirstSegment signals a non-FIR segment arriving while idle.
	ErrLostFirstSegment = errors.New("dnp3: transport received a continuation segment with no preceding FIR segment")
	// ErrOutOfSequence signals a segment whose sequence is neither the
	// expected next value nor a duplicate of the last accepted segment.
	ErrOutOfSequence = errors.New("dnp3: transport segment out of sequence")
	// ErrReassemblyTimeout signals that too much time elapsed between
	// segments of one fragment.
	ErrReassemblyTimeout = errors.New("dnp3: transport reassembly timed out")
	// ErrMessageTooLarge signals the size cap was exceeded during
	// reassembly.
	ErrMessageTooLarge = fmt.Errorf("dnp3: reassembled message exceeds %d bytes", MaxMessageSize)
)

// Segment is one unit of transport-layer framing: a sequenced chunk of an
// application fragment, destined to become a single data link frame's user
// data.
type Segment struct {
	Seq     uint8 // 0..63
	FIR     bool
	FIN     bool
	Payload []byte
}

// Encode serializes the segment as a 1-byte transport header (FIN|FIR|seq)
// followed by the payload, ready to hand to the data link layer.
func (s Segment) Encode() []byte {
	header := byte(s.Seq & 0x3F)
	if s.FIR {
		header |= 0x40
	}
	if s.FIN {
		header |= 0x80
	}
	out := make([]byte, 0, 1+len(s.Payload))
	out = append(out, header)
	return append(out, s.Payload...)
}

// Decode parses a single transport segment from data link user data.
func Decode(userData []byte) (Segment, error) {
	if len(userData) == 0 {
		return Segment{}, errors.New("dnp3: empty transport segment")
	}
	header := userData[0]
	return Segment{
		Seq:     header & 0x3F,
		FIR:     header&0x40 != 0,
		FIN:     header&0x80 != 0,
		Payload: userData[1:],
	}, nil
}

// Segment splits apdu into a sequence of Segments, each carrying at most
// MaxSegmentPayload bytes. An empty apdu yields a single segment with
// FIR=FIN=true and an empty payload. seq is a rolling 6-bit counter shared
// across calls by the caller (incremented once per segment emitted, here
// taken as the starting value and advanced in place).
func SegmentAPDU(apdu []byte, seq *uint8) []Segment {
	if len(apdu) == 0 {
		s := Segment{Seq: *seq & 0x3F, FIR: true, FIN: true}
		*seq = (*seq + 1) % SequenceModulus
		return []Segment{s}
	}

	var segments []Segment
	for offset := 0; offset < len(apdu); offset += MaxSegmentPayload {
		end := offset + MaxSegmentPayload
		if end > len(apdu) {
			end = len(apdu)
		}
		segments = append(segments, Segment{
			Seq:     *seq & 0x3F,
			FIR:     offset == 0,
			FIN:     end == len(apdu),
			Payload: apdu[offset:end],
		})
		*seq = (*seq + 1) % SequenceModulus
	}
	return segments
}

type state int

const (
	stateIdle state = iota
	stateReceiving
)

// Reassembler holds the transport function's reassembly state: a buffer,
// the next expected sequence, the last accepted sequence (for duplicate
// suppression), and a reassembly deadline.
type Reassembler struct {
	Timeout time.Duration
	Now     func() time.Time // defaults to time.Now

	state     state
	buffer    []byte
	expected  uint8
	lastSeq   uint8
	haveLast  bool
	startedAt time.Time
}

// NewReassembler returns a Reassembler with the given reassembly timeout.
func NewReassembler(timeout time.Duration) *Reassembler {
	return &Reassembler{Timeout: timeout, Now: time.Now}
}

func (r *Reassembler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Reset discards any partial buffer and returns to the Idle state.
func (r *Reassembler) Reset() {
	r.state = stateIdle
	r.buffer = nil
	r.haveLast = false
}

// Idle reports whether the reassembler holds no partial fragment.
func (r *Reassembler) Idle() bool { return r.state == stateIdle }

// Feed processes one received segment. It returns the reassembled
// application fragment and true when FIN completes a message; otherwise it
// returns (nil, false, nil) for a segment that was accepted but did not yet
// complete a fragment (including ignored duplicates).
func (r *Reassembler) Feed(seg Segment) ([]byte, bool, error) {
	switch r.state {
	case stateIdle:
		return r.feedIdle(seg)
	default:
		return r.feedReceiving(seg)
	}
}

func (r *Reassembler) feedIdle(seg Segment) ([]byte, bool, error) {
	switch {
	case seg.FIR && seg.FIN:
		if len(seg.Payload) > MaxMessageSize {
			return nil, false, ErrMessageTooLarge
		}
		return seg.Payload, true, nil

	case seg.FIR:
		r.buffer = append([]byte{}, seg.Payload...)
		r.expected = (seg.Seq + 1) % SequenceModulus
		r.lastSeq = seg.Seq
		r.haveLast = true
		r.startedAt = r.now()
		r.state = stateReceiving
		return nil, false, nil

	default:
		return nil, false, ErrLostFirstSegment
	}
}

func (r *Reassembler) feedReceiving(seg Segment) ([]byte, bool, error) {
	if r.Timeout > 0 && r.now().Sub(r.startedAt) > r.Timeout {
		r.Reset()
		return nil, false, ErrReassemblyTimeout
	}

	if seg.FIR {
		// A fresh FIR segment supersedes any in-progress message.
		r.Reset()
		return r.feedIdle(seg)
	}

	if r.haveLast && seg.Seq == r.lastSeq {
		// Duplicate of the last accepted segment: ignore silently.
		return nil, false, nil
	}

	if seg.Seq != r.expected {
		r.Reset()
		return nil, false, ErrOutOfSequence
	}

	if len(r.buffer)+len(seg.Payload) > MaxMessageSize {
		r.Reset()
		return nil, false, ErrMessageTooLarge
	}

	r.buffer = append(r.buffer, seg.Payload...)
	r.lastSeq = seg.Seq
	r.expected = (r.expected + 1) % SequenceModulus

	if seg.FIN {
		out := r.buffer
		r.Reset()
		return out, true, nil
	}
	return nil, false, nil
}
