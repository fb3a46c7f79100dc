// Package session drives a parser over a single connection: it reads from the client,
// feeds the parser and decides what to do once the parser stops.
package session

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/indigo-web/h1parse/http/parser/http1"
	"github.com/indigo-web/h1parse/transport"
)

// ErrTruncated is returned if the stream ended in the middle of a message.
var ErrTruncated = errors.New("stream ended in the middle of a message")

// Outcome tells why the session stopped.
type Outcome uint8

const (
	// Closed means the stream ended at a message boundary.
	Closed Outcome = iota
	// Upgraded means the connection switched to another protocol. The bytes following
	// the last HTTP message are pushed back into the client.
	Upgraded
	// Truncated means the stream ended in the middle of a message.
	Truncated
	// Failed means either the parser failed or the client couldn't be read.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Closed:
		return "closed"
	case Upgraded:
		return "upgraded"
	case Truncated:
		return "truncated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats summarizes the session.
type Stats struct {
	// Messages is the number of completed messages.
	Messages int
	// Consumed is the number of bytes the parser consumed.
	Consumed int64
}

type Session struct {
	client transport.Client
	parser *http1.Parser
	log    zerolog.Logger
	stats  Stats
}

func New(client transport.Client, parser *http1.Parser, log zerolog.Logger) *Session {
	return &Session{
		client: client,
		parser: parser,
		log:    log,
	}
}

// Run reads the client until the stream ends, the parser fails or asks for the protocol
// switch. Generic pauses are resumed right away. The client isn't closed.
func (s *Session) Run() (Outcome, error) {
	for {
		data, err := s.client.Read()
		if len(data) > 0 {
			if outcome, done, ferr := s.feed(data); done {
				return outcome, ferr
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return s.finish()
		default:
			s.log.Debug().Err(err).Msg("read failed")
			return Failed, errors.Wrap(err, "read")
		}
	}
}

func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) feed(data []byte) (outcome Outcome, done bool, err error) {
	for start := 0; ; {
		res := s.parser.Feed(data, start)
		s.count(res.Events)

		switch res.Status {
		case http1.NeedMoreData:
			return 0, false, nil
		case http1.Paused:
			start = res.Pos
		case http1.PausedUpgrade, http1.PausedH2Upgrade:
			s.client.Pushback(data[res.Pos:])
			s.log.Debug().
				Stringer("status", res.Status).
				Int64("offset", s.parser.Offset()).
				Int("pushback", len(data)-res.Pos).
				Msg("protocol switch")
			return Upgraded, true, nil
		case http1.Finished:
			return Closed, true, nil
		default:
			return Failed, true, errors.Wrap(res.Err, "parse")
		}
	}
}

func (s *Session) finish() (Outcome, error) {
	state := s.parser.Finish()
	s.count(s.parser.Events())
	s.log.Debug().
		Stringer("state", state).
		Int64("offset", s.parser.Offset()).
		Msg("stream ended")

	switch state {
	case http1.FinishSafe, http1.FinishSafeWithMessageComplete:
		if err := s.parser.Err(); err != nil {
			return Failed, errors.Wrap(err, "finish")
		}

		return Closed, nil
	default:
		return Truncated, errors.WithStack(ErrTruncated)
	}
}

func (s *Session) count(events []http1.Event) {
	for _, ev := range events {
		if ev.Kind == http1.OnMessageComplete {
			s.stats.Messages++
		}
	}

	s.stats.Consumed = s.parser.Offset()
}
