package http1

import (
	"math"

	"github.com/indigo-web/utils/uf"

	"github.com/indigo-web/h1parse/internal/lexer"
)

func (p *Parser) beginChunk() {
	p.chunkSize = 0
	p.extName = ""
	p.ext.Clear()
	p.extensions.Clear()
}

func (p *Parser) chunkSizeStart() {
	digit := lexer.Unhex(p.data[p.pos])
	if digit == 0xFF {
		p.fail(CodeInvalidChunkSize, "invalid character in chunk size")
		return
	}

	p.chunkSize = int64(digit)
	p.pos++
	p.state = eChunkSizeRest
}

func (p *Parser) chunkSizeRest() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if digit := lexer.Unhex(c); digit != 0xFF {
			if p.chunkSize > math.MaxInt64>>4 {
				p.pos = i
				p.fail(CodeInvalidChunkSize, "chunk size overflow")
				return
			}

			p.chunkSize = p.chunkSize<<4 | int64(digit)
			continue
		}

		p.pos = i
		p.chunkSizeEnd(c)
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) chunkSizeWS() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if !lexer.IsOWS(c) {
			p.pos = i
			p.chunkSizeEnd(c)
			return
		}
	}

	p.pos = len(p.data)
}

func (p *Parser) chunkSizeEnd(c byte) {
	switch {
	case c == ';':
		p.pos++
		p.state = eExtStart
	case lexer.IsEOL(c):
		p.eol(c, eChunkHeader)
	case lexer.IsOWS(c) && p.lenient.SpacesAfterChunkSize:
		p.pos++
		p.state = eChunkSizeWS
	default:
		p.fail(CodeInvalidChunkSize, "invalid character in chunk size")
	}
}

func (p *Parser) extStart() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsOWS(c) {
			continue
		}

		p.pos = i
		if !lexer.IsToken(c) {
			p.fail(CodeStrict, "invalid character in chunk extension name")
			return
		}

		p.open(OnChunkExtensionName, i)
		p.state = eExtName
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) extNameState() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsToken(c) {
			continue
		}

		p.pos = i
		if c != '=' && c != ';' && !lexer.IsEOL(c) && !lexer.IsOWS(c) {
			p.fail(CodeStrict, "invalid character in chunk extension name")
			return
		}

		p.close(i)
		if p.failure != nil {
			return
		}

		p.extName = uf.B2S(p.ext.Finish())
		p.push(OnChunkExtensionNameComplete, i)

		if c == '=' {
			p.pos++
			p.state = eExtValueStart
			return
		}

		if lexer.IsOWS(c) {
			p.pos++
			p.state = eExtAfterName
			return
		}

		p.extensions.Add(p.extName, "")
		p.extDelimiter(c)
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) extAfterName() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]

		switch {
		case lexer.IsOWS(c):
			continue
		case c == '=':
			p.pos = i + 1
			p.state = eExtValueStart
		case c == ';' || lexer.IsEOL(c):
			p.pos = i
			p.extensions.Add(p.extName, "")
			p.extDelimiter(c)
		default:
			p.pos = i
			p.fail(CodeStrict, "expected = after chunk extension name")
		}

		return
	}

	p.pos = len(p.data)
}

func (p *Parser) extValueStart() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]

		switch {
		case lexer.IsOWS(c):
			continue
		case c == '"':
			p.open(OnChunkExtensionValue, i+1)
			p.pos = i + 1
			p.state = eExtQuoted
		case lexer.IsToken(c):
			p.open(OnChunkExtensionValue, i)
			p.pos = i
			p.state = eExtValue
		default:
			p.pos = i
			p.fail(CodeStrict, "invalid character in chunk extension value")
		}

		return
	}

	p.pos = len(p.data)
}

func (p *Parser) extValue() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsToken(c) {
			continue
		}

		p.pos = i
		if c != ';' && !lexer.IsEOL(c) && !lexer.IsOWS(c) {
			p.fail(CodeStrict, "invalid character in chunk extension value")
			return
		}

		if !p.completeExtValue(i) {
			return
		}

		if lexer.IsOWS(c) {
			p.pos++
			p.state = eExtAfterValue
			return
		}

		p.extDelimiter(c)
		return
	}

	p.pos = len(p.data)
}

// extQuoted scans a quoted-string. Escapes are kept as they are.
func (p *Parser) extQuoted() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]

		switch {
		case c == '"':
			p.pos = i
			if p.completeExtValue(i) {
				p.pos = i + 1
				p.state = eExtAfterValue
			}

			return
		case c == '\\':
			p.pos = i + 1
			p.state = eExtQuotedEscape
			return
		case !qdtext(c):
			p.pos = i
			p.fail(CodeStrict, "unterminated quoted string in chunk extension value")
			return
		}
	}

	p.pos = len(p.data)
}

func (p *Parser) extQuotedEscape() {
	c := p.data[p.pos]
	if c != lexer.HTAB && (c < lexer.SP || c == 0x7f) {
		p.fail(CodeStrict, "invalid escaped character in chunk extension value")
		return
	}

	p.pos++
	p.state = eExtQuoted
}

func (p *Parser) extAfterValue() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsOWS(c) {
			continue
		}

		p.pos = i
		if c != ';' && !lexer.IsEOL(c) {
			p.fail(CodeStrict, "unexpected character after chunk extension value")
			return
		}

		p.extDelimiter(c)
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) completeExtValue(at int) bool {
	p.close(at)
	if p.failure != nil {
		return false
	}

	p.extensions.Add(p.extName, uf.B2S(p.ext.Finish()))
	p.push(OnChunkExtensionValueComplete, at)
	return true
}

// extDelimiter handles either the next extension or the end of the chunk size line.
func (p *Parser) extDelimiter(c byte) {
	if c == ';' {
		p.pos++
		p.state = eExtStart
		return
	}

	p.eol(c, eChunkHeader)
}

// qdtext reports whether c may appear unescaped inside a quoted-string.
func qdtext(c byte) bool {
	return c == lexer.HTAB || c == lexer.SP || c == 0x21 ||
		(c >= 0x23 && c <= 0x5B) || (c >= 0x5D && c <= 0x7E) || c >= 0x80
}

func (p *Parser) chunkHeader() {
	p.pushEvent(Event{
		Kind:   OnChunkHeader,
		Offset: p.abs(p.pos),
		Length: p.chunkSize,
	})

	if p.chunkSize == 0 {
		p.trailers = true
		p.count = 0
		p.state = eFieldStart
		return
	}

	p.remaining = p.chunkSize
	p.state = eChunkData
}

func (p *Parser) chunkData() {
	n := int64(len(p.data) - p.pos)
	if n > p.remaining {
		n = p.remaining
	}

	p.remaining -= n
	p.segment(OnBody, p.pos, p.pos+int(n), p.remaining == 0)
	p.pos += int(n)

	if p.remaining == 0 {
		p.state = eChunkDataEnd
	}
}

func (p *Parser) chunkDataEnd() {
	c := p.data[p.pos]

	switch {
	case lexer.IsEOL(c):
		p.eol(c, eChunkComplete)
	case p.lenient.OptionalCRLFAfterChunk:
		p.state = eChunkComplete
	default:
		p.fail(CodeCRExpected, "expected CRLF after chunk data")
	}
}

func (p *Parser) chunkComplete() {
	p.push(OnChunkComplete, p.pos)
	p.beginChunk()
	p.state = eChunkSize
}
