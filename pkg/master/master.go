package master

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fxodell/dnp3/pkg/app"
	"github.com/fxodell/dnp3/pkg/config"
	"github.com/fxodell/dnp3/pkg/link"
	"github.com/fxodell/dnp3/pkg/objects"
	"github.com/fxodell/dnp3/pkg/transport"
)

// PollResult is the typed container every read operation returns: the
// response's IIN plus its decoded objects, bucketed by kind.
type PollResult struct {
	Success       bool
	IIN           app.IIN
	BinaryInputs  []objects.BinaryInput
	AnalogInputs  []objects.AnalogInput
	Counters      []objects.Counter
	BinaryOutputs []objects.BinaryOutput
	AnalogOutputs []objects.AnalogOutput
	Error         error
}

type pendingSelect struct {
	index    int
	crob     objects.CROB
	deadline time.Time
}

// Master coordinates one master-to-outstation DNP3 session: link layer
// framing and FCB state, transport segmentation/reassembly, and
// application layer request/response/confirm exchanges.
type Master struct {
	cfg    config.DNP3Config
	stream ByteStream
	clock  Clock
	log    *log.Entry

	mu            sync.Mutex
	opened        bool
	fcb           link.FCBState
	appSeq        uint8
	transSeq      uint8
	rxBuf         []byte
	reassembler   *transport.Reassembler
	selected      *pendingSelect
	unsolicitedCB func(PollResult)
}

// NewMaster constructs a Master bound to stream, using cfg for addressing,
// timing and retry policy. The stream is not connected until Open.
func NewMaster(cfg config.DNP3Config, stream ByteStream) *Master {
	return &Master{
		cfg:         cfg,
		stream:      stream,
		clock:       systemClock{},
		log:         log.WithField("component", "dnp3-master"),
		reassembler: transport.NewReassembler(time.Duration(cfg.ResponseTimeout * float64(time.Second))),
	}
}

// SetClock overrides the master's time source, for deterministic tests.
func (m *Master) SetClock(c Clock) {
	m.clock = c
	m.reassembler.Now = c.Now
}

// Open connects the underlying stream and issues a link reset, clearing
// FCB -- the original driver's documented open() behavior (SPEC_FULL.md
// section 6), not explicit in spec.md itself.
func (m *Master) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := m.clock.Now().Add(time.Duration(m.cfg.ConnectionTimeout * float64(time.Second)))
	if err := m.stream.Connect(ctx, deadline); err != nil {
		return &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
	}
	m.fcb.Reset()
	m.appSeq = 0
	m.transSeq = 0
	m.rxBuf = nil
	m.reassembler.Reset()
	m.opened = true

	reset, err := link.BuildResetLink(uint16(m.cfg.OutstationAddress), uint16(m.cfg.MasterAddress))
	if err != nil {
		return err
	}
	if err := m.stream.Write(reset); err != nil {
		return &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
	}
	m.log.Debugf("opened session with %s:%d, link reset sent", m.cfg.Host, m.cfg.Port)
	return nil
}

// Close tears down the stream and clears transport-layer reassembly
// state.
func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = false
	m.rxBuf = nil
	m.reassembler.Reset()
	return m.stream.Close()
}

// SetUnsolicitedCallback registers the observer invoked for unsolicited
// responses (function UNSOLICITED_RESPONSE) that arrive while an exchange
// is reading its response. The master does not read the stream between
// exchanges, so unsolicited responses sent while no request is in flight
// are only seen once the next exchange starts reading.
func (m *Master) SetUnsolicitedCallback(cb func(PollResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsolicitedCB = cb
}

func (m *Master) nextAppSeq() uint8 {
	seq := m.appSeq
	m.appSeq = (m.appSeq + 1) % app.SequenceModulus
	return seq
}

// exchange sends apdu and returns the response to this request (all its
// fragments merged, see exchangeOnce), retrying the whole exchange up to cfg.MaxRetries times
// on CommunicationError/TimeoutError. Unsolicited responses observed
// while waiting are dispatched to the registered callback and do not
// satisfy the exchange.
func (m *Master) exchange(ctx context.Context, apdu []byte) (app.Fragment, error) {
	var lastErr error
	for attempt := 0; attempt <= m.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			m.log.Warnf("retrying exchange (attempt %d/%d) after: %v", attempt, m.cfg.MaxRetries, lastErr)
			time.Sleep(time.Duration(m.cfg.RetryDelay * float64(time.Second)))
		}
		frag, err := m.exchangeOnce(ctx, apdu)
		if err == nil {
			return frag, nil
		}
		lastErr = err
		if !retryable(err) {
			return app.Fragment{}, err
		}
	}
	return app.Fragment{}, lastErr
}

func retryable(err error) bool {
	var commErr *CommunicationError
	var timeoutErr *TimeoutError
	return errors.As(err, &commErr) || errors.As(err, &timeoutErr)
}

// exchangeOnce reads application fragments until it sees one with FIN=1,
// merging their decoded objects in arrival order (spec.md section 4.6 step
// 4: "merge fragments"). IIN and sequence are carried from the last
// fragment. Each fragment is confirmed individually when CON=1, and TF
// reassembly state is reset between fragments of the same response.
func (m *Master) exchangeOnce(ctx context.Context, apdu []byte) (app.Fragment, error) {
	if err := m.send(apdu); err != nil {
		return app.Fragment{}, err
	}

	deadline := m.clock.Now().Add(time.Duration(m.cfg.ResponseTimeout * float64(time.Second)))
	var merged app.Fragment
	for {
		fragData, err := m.readFragment(ctx, deadline)
		if err != nil {
			return app.Fragment{}, err
		}

		frag, err := app.ParseFragment(fragData, true)
		if err != nil {
			return app.Fragment{}, &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
		}

		if frag.Function == app.FuncUnsolicitedResponse {
			m.handleUnsolicited(frag)
			if frag.Control.CON {
				if err := m.sendConfirm(frag.Control.Seq, true); err != nil {
					return app.Fragment{}, err
				}
			}
			continue
		}

		if frag.IIN.HasErrors() {
			return app.Fragment{}, &ApplicationError{IIN1: frag.IIN.Byte1, IIN2: frag.IIN.Byte2}
		}
		if frag.Control.CON {
			if err := m.sendConfirm(frag.Control.Seq, false); err != nil {
				return app.Fragment{}, err
			}
		}

		merged.Control = frag.Control
		merged.Function = frag.Function
		merged.IIN = frag.IIN
		merged.Objects = append(merged.Objects, frag.Objects...)

		if frag.Control.FIN {
			return merged, nil
		}
		m.reassembler.Reset()
	}
}

func (m *Master) handleUnsolicited(frag app.Fragment) {
	if m.unsolicitedCB == nil {
		return
	}
	result := bucketObjects(frag.Objects)
	result.IIN = frag.IIN
	m.unsolicitedCB(result)
}

func (m *Master) send(apdu []byte) error {
	segments := transport.SegmentAPDU(apdu, &m.transSeq)
	for _, seg := range segments {
		confirmed := m.cfg.ConfirmRequired
		fcb := m.fcb.Bit()
		frame, err := link.BuildUserDataFrame(uint16(m.cfg.OutstationAddress), uint16(m.cfg.MasterAddress), seg.Encode(), confirmed, fcb)
		if err != nil {
			return err
		}
		if confirmed {
			m.fcb.Toggle()
		}
		if err := m.stream.Write(frame); err != nil {
			return &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
		}
	}
	return nil
}

func (m *Master) sendConfirm(seq uint8, unsolicited bool) error {
	confirm := app.BuildConfirm(seq, unsolicited)
	return m.send(confirm)
}

// readFragment reads data link frames until the transport function
// reassembles a complete application fragment or deadline passes.
func (m *Master) readFragment(ctx context.Context, deadline time.Time) ([]byte, error) {
	for {
		frame, err := m.readFrame(ctx, deadline)
		if err != nil {
			return nil, err
		}

		seg, err := transport.Decode(frame.UserData)
		if err != nil {
			return nil, &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
		}
		out, complete, err := m.reassembler.Feed(seg)
		if err != nil {
			return nil, &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
		}
		if complete {
			return out, nil
		}
	}
}

// readFrame extracts the next valid data link frame from the stream,
// resynchronizing past a bad start byte or failed CRC one byte at a time.
func (m *Master) readFrame(ctx context.Context, deadline time.Time) (link.Frame, error) {
	for {
		if idx := link.FindFrameStart(m.rxBuf); idx == -1 {
			if len(m.rxBuf) > 1 {
				m.rxBuf = m.rxBuf[len(m.rxBuf)-1:]
			}
		} else if idx > 0 {
			m.rxBuf = m.rxBuf[idx:]
		}

		if len(m.rxBuf) > 0 {
			frame, n, err := link.ParseFrame(m.rxBuf)
			switch {
			case err == nil:
				m.rxBuf = m.rxBuf[n:]
				return frame, nil
			case errors.Is(err, link.ErrIncomplete):
				// fall through to read more
			default:
				m.log.Warnf("dropping bad frame start byte after error: %v", err)
				m.rxBuf = m.rxBuf[1:]
				continue
			}
		}

		if m.clock.Now().After(deadline) {
			return link.Frame{}, &TimeoutError{Op: "read frame", Timeout: m.cfg.ResponseTimeout}
		}

		chunk, err := m.stream.Read(ctx, deadline)
		if err != nil {
			return link.Frame{}, &CommunicationError{Host: m.cfg.Host, Port: m.cfg.Port, Err: err}
		}
		m.rxBuf = append(m.rxBuf, chunk...)
	}
}
