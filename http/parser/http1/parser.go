// Package http1 implements a resumable event-driven parser of HTTP/1.x messages.
//
// The parser is fed with arbitrary pieces of a byte stream and reports what it recognised
// as a sequence of events tagged with absolute offsets. Splitting the stream differently
// never changes the reported sequence, except that a span may arrive in more pieces.
package http1

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/indigo-web/h1parse/config"
	"github.com/indigo-web/h1parse/internal/buffer"
	"github.com/indigo-web/h1parse/kv"
)

// Result is the outcome of a single Feed call.
type Result struct {
	Status Status
	// Pos is the index in the fed buffer the parsing stopped at. It's equal to the buffer
	// length when everything was consumed.
	Pos int
	// Err is set if Status is Errored.
	Err *Error
	// Events are the events produced during the call. The slice is reused by the next
	// call, so it must be copied if needed for longer.
	Events []Event
}

// Parser is a state machine parsing a single connection. It is not safe for concurrent
// use.
type Parser struct {
	cfg     *config.Config
	lenient config.Lenient
	kind    Kind
	handler Handler
	log     zerolog.Logger

	state   parserState
	after   parserState
	msg     Message
	mode    BodyMode
	pause   pauseReason
	pauseOn uint32
	upgrade bool
	failure *Error
	err     *Error

	data   []byte
	start  int
	pos    int
	base   int64
	offset int64

	queue  []Event
	qhead  int
	events []Event

	span     EventKind
	spanFrom int
	// ws is the trailing whitespace of a header value, carried over from previous calls.
	// Whether it belongs to the value is known only when the next byte arrives.
	ws       []byte
	wsOffset int64
	wsFrom   int

	token    [16]byte
	tokenLen int
	digits   int
	num      int64

	head     buffer.Buffer
	trailers bool
	// folded is set while the last piece of a header value is non-final, as the next
	// line may continue it.
	folded   bool
	count    int
	special  specialHeader
	name     string

	remaining  int64
	chunkSize  int64
	ext        buffer.Buffer
	extName    string
	extensions *kv.Storage
}

// New returns a parser of messages of the given kind. The config is prepared and must not
// be modified afterwards. A nil config means strict defaults.
func New(kind Kind, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.Default()
	}

	cfg.Prepare()
	space := cfg.Headers.Space

	p := &Parser{
		cfg:        cfg,
		lenient:    cfg.Lenient,
		kind:       kind,
		log:        zerolog.Nop(),
		msg:        newMessage(cfg.Headers.Number.Default),
		wsFrom:     -1,
		head:       buffer.New(space.Default, space.Maximal),
		ext:        buffer.New(0, space.Maximal),
		extensions: kv.New(),
	}
	p.msg.reset(kind)

	return p
}

// OnEvent installs a handler receiving every event synchronously.
func (p *Parser) OnEvent(h Handler) {
	p.handler = h
}

// SetLogger installs a logger used for tracing pauses and failures on debug level.
func (p *Parser) SetLogger(log zerolog.Logger) {
	p.log = log
}

// PauseAfter makes the parser pause after each event of the passed kinds.
func (p *Parser) PauseAfter(kinds ...EventKind) {
	for _, kind := range kinds {
		p.pauseOn |= 1 << kind
	}
}

// Pause pauses the parser after the event currently being handled. It's meant to be called
// from a handler.
func (p *Parser) Pause() {
	if p.pause == pauseNone {
		p.pause = pauseGeneric
	}
}

// ResumeAfterUpgrade lets the parser continue after PausedUpgrade or PausedH2Upgrade.
// The parser then treats the following bytes as a new HTTP message.
func (p *Parser) ResumeAfterUpgrade() {
	if p.pause == pauseUpgrade || p.pause == pauseH2Upgrade {
		p.pause = pauseNone
	}
}

// Message returns the record of the current message.
func (p *Parser) Message() *Message {
	return &p.msg
}

// ChunkExtensions returns the extensions of the current chunk.
func (p *Parser) ChunkExtensions() *kv.Storage {
	return p.extensions
}

// Offset returns the absolute number of bytes consumed since construction.
func (p *Parser) Offset() int64 {
	return p.offset
}

// Err returns the error the parser failed with, if any.
func (p *Parser) Err() *Error {
	return p.err
}

// BodyMode returns how the body of the current message is delimited.
func (p *Parser) BodyMode() BodyMode {
	return p.mode
}

// Events returns the events produced by the last Feed or Finish call.
func (p *Parser) Events() []Event {
	return p.events
}

// Phase returns the phase of the connection, derived from the state of the parser.
func (p *Parser) Phase() Phase {
	switch {
	case p.err != nil:
		return PhaseErrored
	case p.pause != pauseNone:
		return PhasePaused
	}

	switch p.state {
	case eMessageStart:
		return PhaseAwaitingMessage
	case eAuto, eAutoH, eMethod, eURLStart, eURL, eProtocol, eVersionMajor, eVersionDot,
		eVersionMinor, eVersionEnd, eStatusCode, eReason, eStartLineDone, ePreface:
		return PhaseStartLine
	case eFieldStart, eField, eValueStart, eValue, eValueLookahead, eHeadersDone:
		if p.trailers {
			return PhaseBody
		}

		return PhaseHeaders
	case eMessageComplete, eAfterComplete:
		return PhaseMessageComplete
	case eClosed:
		return PhaseClosed
	case eLF:
		if p.after == eStartLineDone {
			return PhaseStartLine
		}
		if p.mode == BodyNone && !p.trailers {
			return PhaseHeaders
		}

		return PhaseBody
	default:
		return PhaseBody
	}
}

// Feed parses data starting from the index start. The offsets of data before start are
// considered already consumed.
func (p *Parser) Feed(data []byte, start int) Result {
	p.events = p.events[:0]

	if p.err != nil {
		return Result{Status: Errored, Pos: start, Err: p.err}
	}

	switch p.pause {
	case pauseUpgrade, pauseH2Upgrade:
		return Result{Status: p.pause.status(), Pos: start}
	case pauseGeneric:
		p.pause = pauseNone
	}

	if start < 0 || start > len(data) {
		p.err = newError(CodeInternal, "start position is out of the buffer bounds", p.offset)
		return Result{Status: Errored, Pos: start, Err: p.err}
	}

	p.data, p.start, p.pos, p.base = data, start, start, p.offset-int64(start)
	if p.span != 0 {
		p.spanFrom = start
	}

	status := p.run()
	p.offset = p.base + int64(p.pos)
	p.data = nil

	return Result{
		Status: status,
		Pos:    p.pos,
		Err:    p.err,
		Events: p.events,
	}
}

func (p *Parser) run() Status {
	for {
		p.drain()

		if p.failure != nil {
			return p.raise()
		}

		if p.pause != pauseNone {
			return p.stop()
		}

		if p.pos >= len(p.data) && !p.state.instant() {
			if p.flush() {
				continue
			}

			if p.state == eClosed {
				return Finished
			}

			return NeedMoreData
		}

		p.step()
	}
}

func (p *Parser) step() {
	switch p.state {
	case eMessageStart:
		p.messageStart()
	case eAuto:
		p.auto()
	case eAutoH:
		p.autoH()
	case eMethod:
		p.methodName()
	case eURLStart:
		p.urlStart()
	case eURL:
		p.url()
	case eProtocol:
		p.protocol()
	case eVersionMajor:
		p.versionMajor()
	case eVersionDot:
		p.versionDot()
	case eVersionMinor:
		p.versionMinor()
	case eVersionEnd:
		p.versionEnd()
	case eStatusCode:
		p.statusCode()
	case eReason:
		p.reason()
	case eStartLineDone:
		p.startLineDone()
	case ePreface:
		p.preface()
	case eFieldStart:
		p.fieldStart()
	case eField:
		p.field()
	case eValueStart:
		p.valueStart()
	case eValue:
		p.value()
	case eValueLookahead:
		p.valueLookahead()
	case eHeadersDone:
		p.headersDone()
	case eFraming:
		p.frame()
	case eBodyLength:
		p.bodyLength()
	case eBodyEOF:
		p.bodyEOF()
	case eChunkSize:
		p.chunkSizeStart()
	case eChunkSizeRest:
		p.chunkSizeRest()
	case eChunkSizeWS:
		p.chunkSizeWS()
	case eExtStart:
		p.extStart()
	case eExtName:
		p.extNameState()
	case eExtAfterName:
		p.extAfterName()
	case eExtValueStart:
		p.extValueStart()
	case eExtValue:
		p.extValue()
	case eExtQuoted:
		p.extQuoted()
	case eExtQuotedEscape:
		p.extQuotedEscape()
	case eExtAfterValue:
		p.extAfterValue()
	case eChunkHeader:
		p.chunkHeader()
	case eChunkData:
		p.chunkData()
	case eChunkDataEnd:
		p.chunkDataEnd()
	case eChunkComplete:
		p.chunkComplete()
	case eMessageComplete:
		p.messageComplete()
	case eAfterComplete:
		p.afterComplete()
	case eClosed:
		p.closed()
	case eLF:
		p.lf()
	default:
		p.fail(CodeInternal, "unreachable parser state")
	}
}

// push enqueues an event. Events are delivered one by one between the steps, so a pause
// may happen in between two events produced by the same step. Nothing is enqueued after
// a failure.
func (p *Parser) push(kind EventKind, at int) {
	p.pushEvent(Event{
		Kind:   kind,
		Offset: p.abs(at),
	})
}

func (p *Parser) pushEvent(ev Event) {
	if p.failure == nil {
		p.queue = append(p.queue, ev)
	}
}

func (p *Parser) drain() {
	for p.qhead < len(p.queue) {
		ev := p.queue[p.qhead]
		p.qhead++

		if err := p.deliver(ev); err != nil {
			p.failure = err
			break
		}

		if p.pause != pauseNone {
			return
		}
	}

	p.queue = p.queue[:0]
	p.qhead = 0
}

func (p *Parser) deliver(ev Event) *Error {
	p.events = append(p.events, ev)

	if p.handler != nil {
		switch err := p.handler(ev); {
		case err == nil:
		case errors.Is(err, ErrPause):
			p.Pause()
		case errors.Is(err, ErrSkipBody):
			if ev.Kind == OnHeadersComplete {
				p.msg.Flags |= FlagSkipBody
			}
		default:
			return callbackError(ev, err)
		}
	}

	if p.pauseOn&(1<<ev.Kind) != 0 {
		p.Pause()
	}

	return nil
}

// notify delivers a terminal event, whose handler result is ignored.
func (p *Parser) notify(ev Event) {
	p.events = append(p.events, ev)
	if p.handler != nil {
		_ = p.handler(ev)
	}
}

func (p *Parser) stop() Status {
	p.flush()
	p.log.Debug().
		Int64("offset", p.abs(p.pos)).
		Stringer("reason", p.pause).
		Msg("parser paused")
	p.notify(Event{Kind: OnPause, Offset: p.abs(p.pos)})

	return p.pause.status()
}

func (p *Parser) raise() Status {
	p.err, p.failure = p.failure, nil
	p.queue = p.queue[:0]
	p.qhead = 0

	// the consumed part of an open span is still reported, whatever comes after it
	p.flush()
	p.failure = nil
	for _, ev := range p.queue {
		p.notify(ev)
	}

	p.queue = p.queue[:0]
	p.span = 0
	p.log.Debug().
		Int64("offset", p.err.Offset).
		Stringer("code", p.err.Code).
		Str("reason", p.err.Reason).
		Msg("parser failed")
	p.notify(Event{Kind: OnError, Offset: p.err.Offset, Err: p.err})

	return Errored
}

// fail records an error at the current position. Events queued before it are still
// delivered.
func (p *Parser) fail(code Code, reason string) {
	if p.failure == nil {
		p.failure = newError(code, reason, p.abs(p.pos))
	}
}

func (p *Parser) abs(index int) int64 {
	return p.base + int64(index)
}

// Finish tells the parser no more input is coming and reports whether this is a
// legitimate point to stop. A body delimited by the connection close is completed,
// delivering OnMessageComplete.
func (p *Parser) Finish() FinishState {
	p.events = p.events[:0]

	if p.err != nil {
		return FinishUnsafe
	}

	switch p.pause {
	case pauseUpgrade, pauseH2Upgrade:
		return FinishSafe
	case pauseGeneric:
		p.pause = pauseNone
		p.settle()
		if p.pause == pauseGeneric {
			p.pause = pauseNone
		}

		if p.failure != nil {
			p.raise()
			return FinishUnsafe
		}
	}

	switch p.state {
	case eMessageStart, eClosed, eMessageComplete, eAfterComplete:
		return FinishSafe
	case eBodyEOF:
		p.base = p.offset
		if err := p.deliver(Event{Kind: OnMessageComplete, Offset: p.offset}); err != nil {
			p.failure = err
			p.raise()
		}

		p.pause = pauseNone
		p.mode = BodyNone
		p.state = eClosed

		return FinishSafeWithMessageComplete
	default:
		return FinishUnsafe
	}
}

// settle delivers the pending events and runs the states consuming no input, as there is
// none left.
func (p *Parser) settle() {
	p.data, p.start, p.pos, p.base = nil, 0, 0, p.offset
	p.spanFrom = 0

	for {
		p.drain()
		if p.failure != nil || p.pause != pauseNone || !p.state.instant() {
			return
		}

		p.step()
	}
}
