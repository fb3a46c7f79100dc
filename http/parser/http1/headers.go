package http1

import (
	"iter"
	"math"
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/indigo-web/h1parse/internal/lexer"
)

// specialHeader is a header field affecting the framing or the connection.
type specialHeader uint8

const (
	hOther specialHeader = iota
	hContentLength
	hTransferEncoding
	hConnection
	hUpgrade
	hTrailer
)

func classify(name string) specialHeader {
	switch {
	case strcomp.EqualFold(name, "content-length"):
		return hContentLength
	case strcomp.EqualFold(name, "transfer-encoding"):
		return hTransferEncoding
	case strcomp.EqualFold(name, "connection"):
		return hConnection
	case strcomp.EqualFold(name, "upgrade"):
		return hUpgrade
	case strcomp.EqualFold(name, "trailer"):
		return hTrailer
	default:
		return hOther
	}
}

func (p *Parser) fieldStart() {
	c := p.data[p.pos]

	switch {
	case lexer.IsEOL(c):
		p.eol(c, eHeadersDone)
	case lexer.IsOWS(c):
		p.fail(CodeUnexpectedSpace, "unexpected whitespace at the beginning of the header section")
	case c == ':':
		p.fail(CodeInvalidHeaderToken, "empty header field name")
	case !lexer.IsToken(c):
		p.fail(CodeInvalidHeaderToken, "invalid character in header field name")
	case p.count >= p.cfg.Headers.Number.Maximal:
		p.fail(CodeHeaderOverflow, "too many header fields")
	default:
		p.open(OnHeaderField, p.pos)
		p.state = eField
	}
}

func (p *Parser) field() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsToken(c) {
			continue
		}

		p.pos = i

		switch {
		case lexer.IsOWS(c):
			p.fail(CodeInvalidHeaderToken, "whitespace between header field name and colon")
			return
		case c != ':':
			p.fail(CodeInvalidHeaderToken, "invalid character in header field name")
			return
		}

		p.close(i)
		if p.failure != nil {
			return
		}

		p.name = uf.B2S(p.head.Finish())
		p.push(OnHeaderFieldComplete, i)
		p.count++
		p.num = 0
		p.special = hOther
		if !p.trailers {
			p.special = classify(p.name)
		}

		if p.special == hContentLength && p.msg.Flags.Has(FlagContentLength) {
			p.fail(CodeUnexpectedContentLength, "duplicate Content-Length")
			return
		}

		p.pos = i + 1
		p.state = eValueStart
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) valueStart() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsOWS(c) {
			continue
		}

		p.pos = i
		if lexer.IsEOL(c) {
			p.eol(c, eValueLookahead)
			return
		}

		p.open(OnHeaderValue, i)
		p.state = eValue
		return
	}

	p.pos = len(p.data)
}

// value scans the field value. Whitespace is held back until a non-whitespace byte
// proves it internal, so the trailing one never makes it into the value.
func (p *Parser) value() {
	valid := lexer.IsValue
	if p.lenient.Headers {
		valid = lexer.IsLenientValue
	}

	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]

		switch {
		case lexer.IsOWS(c):
			if p.wsFrom < 0 {
				p.wsFrom = i
			}
		case lexer.IsEOL(c):
			end := i
			if p.wsFrom >= 0 {
				end = p.wsFrom
			}

			p.ws = p.ws[:0]
			p.pos = i
			if p.lenient.Headers {
				p.segment(p.span, p.spanFrom, end, false)
				p.span = 0
				p.folded = true
			} else {
				p.close(end)
			}

			p.eol(c, eValueLookahead)
			return
		case !valid(c):
			p.pos = i
			p.fail(CodeInvalidHeaderToken, "invalid character in header field value")
			return
		default:
			if p.special == hContentLength && !p.contentLengthDigit(i, c) {
				return
			}

			if len(p.ws) > 0 {
				p.carry(OnHeaderValue, p.wsOffset, p.ws)
				p.ws = p.ws[:0]
				if p.failure != nil {
					p.pos = i
					return
				}
			}

			p.wsFrom = -1
		}
	}

	p.pos = len(p.data)
}

func (p *Parser) contentLengthDigit(i int, c byte) bool {
	p.pos = i

	if !lexer.IsDigit(c) || p.wsFrom >= 0 || len(p.ws) > 0 {
		p.fail(CodeInvalidContentLength, "invalid character in Content-Length")
		return false
	}

	digit := int64(c - '0')
	if p.num > (math.MaxInt64-digit)/10 {
		p.fail(CodeInvalidContentLength, "Content-Length overflow")
		return false
	}

	p.num = p.num*10 + digit
	return true
}

// valueLookahead decides whether the next line continues the value (obs-fold) or the
// value is complete.
func (p *Parser) valueLookahead() {
	if lexer.IsOWS(p.data[p.pos]) {
		if !p.lenient.Headers {
			p.fail(CodeInvalidHeaderToken, "obs-fold isn't allowed")
			return
		}

		p.open(OnHeaderValue, p.pos)
		p.state = eValue
		return
	}

	if p.folded {
		// marks the already reported pieces complete
		p.folded = false
		p.pushEvent(Event{
			Kind:   OnHeaderValue,
			Offset: p.abs(p.pos),
			Final:  true,
		})
	}

	value := uf.B2S(p.head.Finish())
	if p.trailers {
		p.msg.Trailers.Add(p.name, value)
	} else {
		p.msg.Headers.Add(p.name, value)
		if !p.apply(value) {
			return
		}
	}

	p.push(OnHeaderValueComplete, p.pos)
	p.state = eFieldStart
}

// apply takes the side effects of the framing-relevant headers.
func (p *Parser) apply(value string) bool {
	switch p.special {
	case hContentLength:
		if len(value) == 0 {
			p.fail(CodeInvalidContentLength, "empty Content-Length")
			return false
		}

		p.msg.Flags |= FlagContentLength
		p.msg.ContentLength = p.num
	case hTransferEncoding:
		if len(value) > 0 {
			p.msg.Flags |= FlagTransferEncoding
		}
	case hConnection:
		for token := range commaSeparated(value) {
			switch {
			case strcomp.EqualFold(token, "close"):
				p.msg.Flags |= FlagClose
			case strcomp.EqualFold(token, "keep-alive"):
				p.msg.Flags |= FlagKeepAlive
			case strcomp.EqualFold(token, "upgrade"):
				p.msg.Flags |= FlagConnectionUpgrade
			}
		}
	case hUpgrade:
		p.msg.Flags |= FlagUpgrade
	case hTrailer:
		p.msg.Flags |= FlagTrailing
	}

	return true
}

// chunkedEncoding reports whether the transfer codings of all the Transfer-Encoding
// fields together end with chunked, which appears nowhere else.
func chunkedEncoding(values iter.Seq[string]) bool {
	var n, first int
	last := false

	for value := range values {
		for token := range commaSeparated(value) {
			n++
			last = strcomp.EqualFold(token, "chunked")
			if last && first == 0 {
				first = n
			}
		}
	}

	return last && first == n
}

// commaSeparated iterates over non-empty comma-separated list elements, trimming the
// whitespace around them.
func commaSeparated(value string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for len(value) > 0 {
			var element string
			element, value, _ = strings.Cut(value, ",")
			element = strings.Trim(element, " \t")
			if len(element) > 0 && !yield(element) {
				return
			}
		}
	}
}
