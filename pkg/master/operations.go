package master

import (
	"context"
	"time"

	"github.com/fxodell/dnp3/pkg/app"
	"github.com/fxodell/dnp3/pkg/objects"
)

func bucketObjects(objs []app.DecodedObject) PollResult {
	result := PollResult{Success: true}
	for _, o := range objs {
		switch v := o.Value.(type) {
		case objects.BinaryInput:
			result.BinaryInputs = append(result.BinaryInputs, v)
		case objects.AnalogInput:
			result.AnalogInputs = append(result.AnalogInputs, v)
		case objects.Counter:
			result.Counters = append(result.Counters, v)
		case objects.BinaryOutput:
			result.BinaryOutputs = append(result.BinaryOutputs, v)
		case objects.AnalogOutput:
			result.AnalogOutputs = append(result.AnalogOutputs, v)
		}
	}
	return result
}

func (m *Master) readExchange(ctx context.Context, apdu []byte) PollResult {
	frag, err := m.exchange(ctx, apdu)
	if err != nil {
		return PollResult{Error: err}
	}
	result := bucketObjects(frag.Objects)
	result.IIN = frag.IIN
	return result
}

// IntegrityPoll issues a READ of class 0 (static data) plus classes 1-3
// (buffered events), the scan a master runs after (re)establishing a
// session.
func (m *Master) IntegrityPoll(ctx context.Context) PollResult {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	return m.readExchange(ctx, app.BuildIntegrityPoll(seq))
}

// ReadClass issues a READ of a single event class (or class 0).
func (m *Master) ReadClass(ctx context.Context, class objects.Class) PollResult {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	return m.readExchange(ctx, app.BuildClassPoll(seq, class))
}

// ReadRange issues a READ of one (group, variation) over an inclusive
// point index range, e.g. group 30 variation 1 (analog inputs) indices
// 0-9.
func (m *Master) ReadRange(ctx context.Context, group, variation byte, start, stop int) PollResult {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	return m.readExchange(ctx, app.BuildRangeRead(seq, group, variation, start, stop))
}

// ReadBinaryInputs reads group 1 variation 2 (flagged) binary inputs over
// the given index range.
func (m *Master) ReadBinaryInputs(ctx context.Context, start, stop int) PollResult {
	return m.ReadRange(ctx, 1, 2, start, stop)
}

// ReadAnalogInputs reads group 30 variation 1 (flag + 32-bit) analog
// inputs over the given index range.
func (m *Master) ReadAnalogInputs(ctx context.Context, start, stop int) PollResult {
	return m.ReadRange(ctx, 30, 1, start, stop)
}

// ReadCounters reads group 20 variation 1 (flag + 32-bit) counters over
// the given index range.
func (m *Master) ReadCounters(ctx context.Context, start, stop int) PollResult {
	return m.ReadRange(ctx, 20, 1, start, stop)
}

// ReadBinaryOutputs reads group 10 variation 2 (flagged) binary output
// status over the given index range.
func (m *Master) ReadBinaryOutputs(ctx context.Context, start, stop int) PollResult {
	return m.ReadRange(ctx, 10, 2, start, stop)
}

// ReadAnalogOutputs reads group 40 variation 1 (flag + 32-bit) analog
// output status over the given index range.
func (m *Master) ReadAnalogOutputs(ctx context.Context, start, stop int) PollResult {
	return m.ReadRange(ctx, 40, 1, start, stop)
}

// DirectOperateBinary sends a DIRECT_OPERATE (or, if noAck, a
// DIRECT_OPERATE_NO_ACK) CROB to the given binary output index and
// validates the outstation echoed status, per spec section 4.6.
func (m *Master) DirectOperateBinary(ctx context.Context, index int, crob objects.CROB, noAck bool) error {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()

	frag, err := m.exchange(ctx, app.BuildDirectOperateCROB(seq, noAck, index, crob))
	if err != nil {
		return err
	}
	if noAck {
		return nil
	}
	return validateCROBEcho("direct_operate", index, frag.Objects)
}

// PulseBinary is a convenience wrapper for the common momentary-output
// case: DIRECT_OPERATE with op=PULSE_ON, count=1.
func (m *Master) PulseBinary(ctx context.Context, index int, onTimeMs uint32) error {
	crob := objects.CROB{Op: objects.OpPulseOn, TCC: objects.TCCNul, Count: 1, OnTime: onTimeMs}
	return m.DirectOperateBinary(ctx, index, crob, false)
}

// SelectOperateBinary carries out a select-before-operate sequence: a
// SELECT followed, within cfg.SelectTimeout, by an OPERATE echoing the
// identical CROB. Both legs are validated against the outstation's echo.
// The window is measured from just before the SELECT is sent; if it has
// elapsed once the SELECT is confirmed, OPERATE is not sent and a
// TimeoutError is returned.
func (m *Master) SelectOperateBinary(ctx context.Context, index int, crob objects.CROB) error {
	m.mu.Lock()
	selSeq := m.nextAppSeq()
	m.mu.Unlock()

	deadline := m.clock.Now().Add(time.Duration(m.cfg.SelectTimeout * float64(time.Second)))
	selFrag, err := m.exchange(ctx, app.BuildSelectCROB(selSeq, index, crob))
	if err != nil {
		return err
	}
	if err := validateCROBEcho("select", index, selFrag.Objects); err != nil {
		return err
	}

	m.mu.Lock()
	m.selected = &pendingSelect{index: index, crob: crob, deadline: deadline}
	opSeq := m.nextAppSeq()
	m.mu.Unlock()

	if !m.clock.Now().Before(deadline) {
		return &TimeoutError{Op: "select-before-operate", Timeout: m.cfg.SelectTimeout}
	}

	opFrag, err := m.exchange(ctx, app.BuildOperateCROB(opSeq, index, crob))
	if err != nil {
		return err
	}
	return validateCROBEcho("operate", index, opFrag.Objects)
}

func validateCROBEcho(op string, index int, objs []app.DecodedObject) error {
	for _, o := range objs {
		if o.Index != index {
			continue
		}
		if echoed, ok := o.Value.(objects.CROB); ok {
			if !echoed.Status.OK() {
				return &ControlError{Op: op, Status: echoed.Status}
			}
			return nil
		}
	}
	return &ControlError{Op: op, Status: objects.StatusFormatError}
}

// DirectOperateAnalog sends a DIRECT_OPERATE Analog Output Block.
func (m *Master) DirectOperateAnalog(ctx context.Context, variation byte, index int, value objects.AnalogValue, noAck bool) error {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()

	frag, err := m.exchange(ctx, app.BuildDirectOperateAOB(seq, noAck, variation, index, value))
	if err != nil {
		return err
	}
	if noAck {
		return nil
	}
	for _, o := range frag.Objects {
		if o.Index != index {
			continue
		}
		if echoed, ok := o.Value.(objects.AnalogOutput); ok {
			if !echoed.Status.OK() {
				return &ControlError{Op: "direct_operate_analog", Status: echoed.Status}
			}
			return nil
		}
	}
	return &ControlError{Op: "direct_operate_analog", Status: objects.StatusFormatError}
}

// ColdRestart issues COLD_RESTART and returns the outstation's IIN.
func (m *Master) ColdRestart(ctx context.Context) (app.IIN, error) {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	frag, err := m.exchange(ctx, app.BuildColdRestart(seq))
	return frag.IIN, err
}

// WarmRestart issues WARM_RESTART and returns the outstation's IIN.
func (m *Master) WarmRestart(ctx context.Context) (app.IIN, error) {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	frag, err := m.exchange(ctx, app.BuildWarmRestart(seq))
	return frag.IIN, err
}

// EnableUnsolicited requests unsolicited response delivery for the given
// classes.
func (m *Master) EnableUnsolicited(ctx context.Context, classes ...objects.Class) error {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	_, err := m.exchange(ctx, app.BuildEnableUnsolicited(seq, classes...))
	return err
}

// DisableUnsolicited requests unsolicited response delivery be stopped
// for the given classes.
func (m *Master) DisableUnsolicited(ctx context.Context, classes ...objects.Class) error {
	m.mu.Lock()
	seq := m.nextAppSeq()
	m.mu.Unlock()
	_, err := m.exchange(ctx, app.BuildDisableUnsolicited(seq, classes...))
	return err
}
