package dummy

import (
	"net"
	"strings"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is a net.Conn serving the passed input and discarding everything written into it.
type Conn struct {
	input    *strings.Reader
	deadline time.Time
	closed   bool
}

func NewConn(input string) *Conn {
	return &Conn{input: strings.NewReader(input)}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	return c.input.Read(b)
}

func (c *Conn) Write(b []byte) (n int, err error) {
	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func (c *Conn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

// SetReadDeadline records the deadline, so tests can check it was set.
func (c *Conn) SetReadDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

func (c *Conn) Deadline() time.Time {
	return c.deadline
}
