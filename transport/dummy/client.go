package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/utils/unreader"

	"github.com/indigo-web/h1parse/transport"
)

var _ transport.Client = new(Client)

// Client returns the pieces it was initialised with one by one, and io.EOF after them,
// unless set to loop.
type Client struct {
	unreader *unreader.Unreader
	data     [][]byte
	pointer  int
	closed   bool
	loop     bool
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		unreader: new(unreader.Unreader),
		data:     data,
	}
}

// LoopReads makes the client start from the first piece again instead of returning io.EOF.
// That's used mainly for benchmarking.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	return c.unreader.PendingOr(func() ([]byte, error) {
		if c.pointer >= len(c.data) {
			if !c.loop || len(c.data) == 0 {
				return nil, io.EOF
			}

			c.pointer = 0
		}

		piece := c.data[c.pointer]
		c.pointer++

		return piece, nil
	})
}

func (c *Client) Pushback(takeback []byte) {
	c.unreader.Unread(takeback)
}

func (*Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// NewNopClient returns a client which has nothing to read.
func NewNopClient() *Client {
	return NewMockClient()
}
