// Package master implements the DNP3 master station coordinator: it drives
// the link, transport and application layers over a byte stream to carry
// out read and control operations against one outstation, and dispatches
// unsolicited responses to registered observers. See spec section 5 and
// SPEC_FULL.md section 6.
package master

import (
	"context"
	"time"
)

// ByteStream is the transport the master coordinator exchanges data link
// frames over. Connect establishes the session (or is a no-op on an
// already-open stream); Read blocks until deadline or until at least one
// byte arrives. *tcpStream (tcp.go) is the one concrete adapter this repo
// ships; tests substitute an in-memory fake.
type ByteStream interface {
	Connect(ctx context.Context, deadline time.Time) error
	Write(b []byte) error
	Read(ctx context.Context, deadline time.Time) ([]byte, error)
	Close() error
}

// Clock abstracts wall-clock access so deadline logic (response timeout,
// reassembly timeout, select-before-operate window) is testable without
// real waits; the retry delay between attempts still uses time.Sleep.
// This mirrors the teacher's pattern of
// passing elapsed time explicitly through the SDO client state machine
// rather than calling time.Now inline.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
