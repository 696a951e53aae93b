package master

import (
	"fmt"

	"github.com/fxodell/dnp3/pkg/objects"
)

// CommunicationError wraps a lower-layer (link, transport, or I/O)
// failure encountered while exchanging a request/response pair. The
// master retries on this error class, per config.DNP3Config.MaxRetries.
type CommunicationError struct {
	Host string
	Port int
	Err  error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("dnp3: communication error with %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// TimeoutError signals that no response arrived within
// config.DNP3Config.ResponseTimeout (retried, like CommunicationError), or
// that the select-before-operate window config.DNP3Config.SelectTimeout
// elapsed before OPERATE could be sent (returned without retry).
type TimeoutError struct {
	Op      string
	Timeout float64 // seconds
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("dnp3: %s timed out after %.1fs", e.Op, e.Timeout)
}

// ControlError reports that an outstation rejected or could not execute a
// control operation (CROB/AOB). Control errors are never retried: the
// spec requires a fresh SELECT before any retried OPERATE, so a bare
// retry of a rejected control would be unsafe.
type ControlError struct {
	Op     string
	Status objects.ControlStatus
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("dnp3: %s rejected: %v", e.Op, e.Status)
}

// ApplicationError reports that a response's IIN2 field signaled the
// outstation rejected the request outright (unsupported function,
// unknown object, bad parameter, or corrupt configuration).
type ApplicationError struct {
	Op   string
	IIN1 byte
	IIN2 byte
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("dnp3: %s rejected by outstation, IIN1=%#02x IIN2=%#02x", e.Op, e.IIN1, e.IIN2)
}
