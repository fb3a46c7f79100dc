package session

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/indigo-web/h1parse/http/parser/http1"
	"github.com/indigo-web/h1parse/transport/dummy"
)

func splitIntoParts(req []byte, n int) (parts [][]byte) {
	for i := 0; i < len(req); i += n {
		end := i + n
		if end > len(req) {
			end = len(req)
		}

		parts = append(parts, req[i:end])
	}

	return parts
}

func run(kind http1.Kind, data string, n int) (*Session, *dummy.Client, Outcome, error) {
	client := dummy.NewMockClient(splitIntoParts([]byte(data), n)...)
	s := New(client, http1.New(kind, nil), zerolog.Nop())
	outcome, err := s.Run()

	return s, client, outcome, err
}

func TestSession(t *testing.T) {
	const pipelined = "GET / HTTP/1.1\r\n\r\n" +
		"POST /upload HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello" +
		"PUT /chunked HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n3\r\nabc\r\n0\r\n\r\n"

	t.Run("pipelined", func(t *testing.T) {
		for _, n := range []int{len(pipelined), 1, 7} {
			s, _, outcome, err := run(http1.Request, pipelined, n)
			require.NoError(t, err)
			require.Equal(t, Closed, outcome)
			require.Equal(t, Stats{Messages: 3, Consumed: int64(len(pipelined))}, s.Stats())
		}
	})

	t.Run("truncated", func(t *testing.T) {
		_, _, outcome, err := run(http1.Request, pipelined[:len(pipelined)-3], 5)
		require.Equal(t, Truncated, outcome)
		require.True(t, errors.Is(err, ErrTruncated))
	})

	t.Run("body until close", func(t *testing.T) {
		s, _, outcome, err := run(http1.Response, "HTTP/1.1 200 OK\r\n\r\nsome body", 4)
		require.NoError(t, err)
		require.Equal(t, Closed, outcome)
		require.Equal(t, 1, s.Stats().Messages)
	})

	t.Run("connection close", func(t *testing.T) {
		s, _, outcome, err := run(http1.Request, "GET / HTTP/1.0\r\n\r\n", 3)
		require.NoError(t, err)
		require.Equal(t, Closed, outcome)
		require.Equal(t, 1, s.Stats().Messages)
	})

	t.Run("upgrade", func(t *testing.T) {
		const head = "GET /chat HTTP/1.1\r\nUpgrade: websocket\r\nConnection: upgrade\r\n\r\n"
		_, client, outcome, err := run(http1.Request, head+"\x81\x05hello", len(head)+4)
		require.NoError(t, err)
		require.Equal(t, Upgraded, outcome)

		rest, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "\x81\x05he", string(rest))

		rest, err = client.Read()
		require.NoError(t, err)
		require.Equal(t, "llo", string(rest))
	})

	t.Run("parser error", func(t *testing.T) {
		_, _, outcome, err := run(http1.Request, "GET / HTTP/1.1\r\nHost : x\r\n\r\n", 4)
		require.Equal(t, Failed, outcome)
		var perr *http1.Error
		require.True(t, errors.As(err, &perr))
		require.Equal(t, http1.CodeInvalidHeaderToken, perr.Code)
	})

	t.Run("handler pause", func(t *testing.T) {
		p := http1.New(http1.Request, nil)
		p.PauseAfter(http1.OnHeadersComplete)
		s := New(dummy.NewMockClient([]byte(pipelined)), p, zerolog.Nop())
		outcome, err := s.Run()
		require.NoError(t, err)
		require.Equal(t, Closed, outcome)
		require.Equal(t, 3, s.Stats().Messages)
	})
}

func TestOutcome(t *testing.T) {
	require.Equal(t, "closed", Closed.String())
	require.Equal(t, "upgraded", Upgraded.String())
	require.Equal(t, "truncated", Truncated.String())
	require.Equal(t, "failed", Failed.String())
}
