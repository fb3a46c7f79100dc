// Package transport supplies the parser with bytes. Clients hand out views into their
// own buffer, valid until the next Read.
package transport

import (
	"io"
	"net"
	"time"

	"github.com/indigo-web/utils/unreader"
)

type Client interface {
	// Read returns the next piece of the stream. Data pushed back previously is returned
	// first. Data may come together with an error, including io.EOF.
	Read() ([]byte, error)
	// Pushback makes the passed data be returned by the next Read.
	Pushback([]byte)
	Remote() net.Addr
	Close() error
}

type client struct {
	unreader *unreader.Unreader
	buff     []byte
	conn     net.Conn
	timeout  time.Duration
}

// NewClient returns a client reading the connection into buff. Every read must complete
// within the timeout, unless it's zero.
func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		unreader: new(unreader.Unreader),
		buff:     buff,
		conn:     conn,
		timeout:  timeout,
	}
}

func (c *client) Read() ([]byte, error) {
	return c.unreader.PendingOr(func() ([]byte, error) {
		if c.timeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
				return nil, err
			}
		}

		n, err := c.conn.Read(c.buff)

		return c.buff[:n], err
	})
}

func (c *client) Pushback(b []byte) {
	c.unreader.Unread(b)
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}

type reader struct {
	unreader *unreader.Unreader
	buff     []byte
	r        io.Reader
}

// NewReader returns a client over an arbitrary stream, e.g. a file or stdin. It's closed
// only if the stream implements io.Closer.
func NewReader(r io.Reader, buff []byte) Client {
	return &reader{
		unreader: new(unreader.Unreader),
		buff:     buff,
		r:        r,
	}
}

func (r *reader) Read() ([]byte, error) {
	return r.unreader.PendingOr(func() ([]byte, error) {
		n, err := r.r.Read(r.buff)

		return r.buff[:n], err
	})
}

func (r *reader) Pushback(b []byte) {
	r.unreader.Unread(b)
}

func (*reader) Remote() net.Addr {
	return nil
}

func (r *reader) Close() error {
	if closer, ok := r.r.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
