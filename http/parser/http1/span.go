package http1

import (
	"github.com/indigo-web/h1parse/internal/buffer"
	"github.com/indigo-web/h1parse/internal/lexer"
)

// replayH is the owned copy of the first byte of a message, consumed while telling a
// response from a request in a previous call.
var replayH = []byte{'H'}

// open starts a span of the kind at the index.
func (p *Parser) open(kind EventKind, at int) {
	p.span = kind
	p.spanFrom = at
	p.wsFrom = -1
}

// close ends the current span at the index, producing its final piece.
func (p *Parser) close(at int) {
	p.segment(p.span, p.spanFrom, at, true)
	p.span = 0
}

// flush produces the piece of the current span consumed so far, so the rest of it can
// continue in the next buffer. Trailing whitespace of a header value is held back, as
// it's unknown yet whether it belongs to the value. It reports whether anything was
// produced.
func (p *Parser) flush() bool {
	if p.span == 0 {
		return false
	}

	end := p.pos
	if p.wsFrom >= 0 {
		if len(p.ws) == 0 {
			p.wsOffset = p.abs(p.wsFrom)
		}

		p.ws = append(p.ws, p.data[p.wsFrom:p.pos]...)
		end = p.wsFrom
		p.wsFrom = -1
	}

	produced := end > p.spanFrom
	p.segment(p.span, p.spanFrom, end, false)
	p.spanFrom = p.pos

	return produced
}

// segment produces a piece of a span. Empty non-final pieces are omitted.
func (p *Parser) segment(kind EventKind, from, to int, final bool) {
	if from >= to && !final {
		return
	}

	data := p.data[from:to]
	if !p.keep(kind, data) {
		return
	}

	p.pushEvent(Event{
		Kind:   kind,
		Offset: p.abs(from),
		Data:   data,
		Final:  final,
	})
}

// carry produces a non-final piece of a span, whose bytes don't reside in the current
// buffer anymore.
func (p *Parser) carry(kind EventKind, offset int64, data []byte) {
	if buff := p.arena(kind); buff != nil {
		if !buff.Append(data) {
			p.fail(CodeHeaderOverflow, "header section exceeds the space limit")
			return
		}

		preview := buff.Preview()
		data = preview[len(preview)-len(data):]
	}

	p.pushEvent(Event{
		Kind:   kind,
		Offset: offset,
		Data:   data,
	})
}

// keep appends the piece to the owned copy of the value, if the kind needs one.
func (p *Parser) keep(kind EventKind, data []byte) bool {
	buff := p.arena(kind)
	if buff == nil || buff.Append(data) {
		return true
	}

	if kind == OnChunkExtensionName || kind == OnChunkExtensionValue {
		p.fail(CodeStrict, "chunk extensions exceed the space limit")
	} else {
		p.fail(CodeHeaderOverflow, "header section exceeds the space limit")
	}

	return false
}

// arena returns the memory owned copies of the kind reside in, or nil if the kind isn't
// copied.
func (p *Parser) arena(kind EventKind) *buffer.Buffer {
	switch kind {
	case OnURL, OnStatus, OnHeaderField, OnHeaderValue:
		return &p.head
	case OnChunkExtensionName, OnChunkExtensionValue:
		return &p.ext
	default:
		return nil
	}
}

// eol consumes the first byte of a line terminator at the current position and switches
// to the state after it.
func (p *Parser) eol(c byte, after parserState) {
	switch {
	case c == lexer.CR:
		p.pos++
		p.after = after
		p.state = eLF
	case p.lenient.OptionalCRBeforeLF:
		p.pos++
		p.state = after
	default:
		p.fail(CodeCRExpected, "expected CR before LF")
	}
}

func (p *Parser) lf() {
	switch {
	case p.data[p.pos] == lexer.LF:
		p.pos++
		p.state = p.after
	case p.lenient.OptionalLFAfterCR:
		p.state = p.after
	default:
		p.fail(CodeLFExpected, "expected LF after CR")
	}
}
