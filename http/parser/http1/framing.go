package http1

import (
	"github.com/indigo-web/h1parse/http/method"
	"github.com/indigo-web/h1parse/internal/lexer"
)

// headersDone validates the framing headers once they are all known and reports the
// header section. In trailers it completes the last chunk instead.
func (p *Parser) headersDone() {
	if p.trailers {
		p.push(OnChunkComplete, p.pos)
		p.state = eMessageComplete
		return
	}

	m := &p.msg

	if m.Flags.Has(FlagTransferEncoding) {
		if chunkedEncoding(m.Headers.Values("transfer-encoding")) {
			m.Flags |= FlagChunked
		}

		if m.Flags.Has(FlagContentLength) {
			if !p.lenient.ChunkedLength {
				p.fail(CodeInvalidTransferEncoding, "Transfer-Encoding can't be present with Content-Length")
				return
			}

			// Transfer-Encoding takes over the framing
			m.ContentLength = 0
		}

		if m.Kind == Request && !m.Flags.Has(FlagChunked) && !p.lenient.TransferEncoding {
			p.fail(CodeInvalidTransferEncoding, "request Transfer-Encoding must end with chunked")
			return
		}
	}

	p.pushEvent(Event{
		Kind:   OnHeadersComplete,
		Offset: p.abs(p.pos),
		Length: m.ContentLength,
		Head:   m.head(),
	})
	p.state = eFraming
}

// frame picks the body mode. It runs after OnHeadersComplete is delivered, as the
// handler may mark the message bodyless.
func (p *Parser) frame() {
	m := &p.msg
	p.upgrade = m.Upgrade()
	p.mode = BodyNone
	p.state = eMessageComplete

	hasBody := m.Flags.Has(FlagChunked) || (m.Flags.Has(FlagContentLength) && m.ContentLength > 0)
	skip := m.Flags.Has(FlagSkipBody)

	switch {
	case p.upgrade && (m.Method == method.CONNECT || skip || !hasBody):
	case skip, m.Kind == Response && m.Status.Bodyless():
	case m.Flags.Has(FlagChunked):
		p.mode = BodyChunked
		p.beginChunk()
		p.state = eChunkSize
	case m.Flags.Has(FlagTransferEncoding):
		p.mode = BodyUntilClose
		p.state = eBodyEOF
	case m.Flags.Has(FlagContentLength):
		if m.ContentLength > 0 {
			p.mode = BodyContentLength
			p.remaining = m.ContentLength
			p.state = eBodyLength
		}
	case m.Kind == Response:
		p.mode = BodyUntilClose
		p.state = eBodyEOF
	}
}

func (p *Parser) bodyLength() {
	n := int64(len(p.data) - p.pos)
	if n > p.remaining {
		n = p.remaining
	}

	p.remaining -= n
	p.segment(OnBody, p.pos, p.pos+int(n), p.remaining == 0)
	p.pos += int(n)

	if p.remaining == 0 {
		p.state = eMessageComplete
	}
}

func (p *Parser) bodyEOF() {
	p.segment(OnBody, p.pos, len(p.data), false)
	p.pos = len(p.data)
}

func (p *Parser) messageComplete() {
	p.push(OnMessageComplete, p.pos)
	p.state = eAfterComplete
}

// afterComplete either pauses for the protocol switch, or prepares for the next message
// if the connection is persistent.
func (p *Parser) afterComplete() {
	if p.upgrade {
		p.upgrade = false
		p.pause = pauseUpgrade
		return
	}

	if !p.msg.ShouldKeepAlive() && !p.lenient.KeepAlive {
		p.state = eClosed
		return
	}

	p.push(OnReset, p.pos)
	p.reset()
	p.state = eMessageStart
}

func (p *Parser) reset() {
	p.msg.reset(p.kind)
	p.head.Clear()
	p.mode = BodyNone
	p.trailers = false
	p.folded = false
	p.remaining = 0
	p.beginChunk()
}

// closed skips the line terminators after the last message. Anything else is an error,
// unless explicitly tolerated.
func (p *Parser) closed() {
	for i := p.pos; i < len(p.data); i++ {
		if lexer.IsEOL(p.data[i]) {
			continue
		}

		if p.lenient.DataAfterClose {
			break
		}

		p.pos = i
		p.fail(CodeClosedConnection, "data after Connection: close")
		return
	}

	p.pos = len(p.data)
}
