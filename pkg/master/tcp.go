package master

import (
	"context"
	"fmt"
	"net"
	"time"
)

// tcpStream is the default ByteStream, a thin wrapper around net.Conn.
type tcpStream struct {
	address string
	conn    net.Conn
}

// NewTCPStream returns a ByteStream that dials address ("host:port") on
// the first call to Connect.
func NewTCPStream(address string) ByteStream {
	return &tcpStream{address: address}
}

func (s *tcpStream) Connect(ctx context.Context, deadline time.Time) error {
	if s.conn != nil {
		return nil
	}
	var d net.Dialer
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	conn, err := d.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("dnp3: dial %s: %w", s.address, err)
	}
	s.conn = conn
	return nil
}

func (s *tcpStream) Write(b []byte) error {
	if s.conn == nil {
		return fmt.Errorf("dnp3: write on unconnected stream")
	}
	_, err := s.conn.Write(b)
	return err
}

func (s *tcpStream) Read(ctx context.Context, deadline time.Time) ([]byte, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("dnp3: read on unconnected stream")
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	buf := make([]byte, 4096)
	n, err := s.conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (s *tcpStream) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
