package http1

import (
	"github.com/indigo-web/utils/uf"

	"github.com/indigo-web/h1parse/http/method"
	"github.com/indigo-web/h1parse/http/proto"
	"github.com/indigo-web/h1parse/http/status"
	"github.com/indigo-web/h1parse/internal/lexer"
)

// h2Preface is the rest of the HTTP/2 connection preface after the PRI request line.
const h2Preface = "\r\nSM\r\n\r\n"

func (p *Parser) messageStart() {
	for i := p.pos; i < len(p.data); i++ {
		if lexer.IsEOL(p.data[i]) {
			continue
		}

		p.pos = i
		p.tokenLen = 0
		p.push(OnMessageBegin, i)

		switch p.kind {
		case Request:
			p.msg.Kind = Request
			p.state = eMethod
		case Response:
			p.msg.Kind = Response
			p.state = eProtocol
		default:
			p.state = eAuto
		}

		return
	}

	p.pos = len(p.data)
}

// auto tells a response from a request. Only responses start with "HT", as the only
// method starting with H is HEAD.
func (p *Parser) auto() {
	if p.data[p.pos] != 'H' {
		p.msg.Kind = Request
		p.state = eMethod
		return
	}

	p.token[0] = 'H'
	p.tokenLen = 1
	p.pos++
	p.state = eAutoH
}

func (p *Parser) autoH() {
	kind, state := OnMethod, eMethod
	p.msg.Kind = Request

	if p.data[p.pos] == 'T' {
		p.msg.Kind = Response
		kind, state = OnProtocol, eProtocol
	}

	if p.pos > p.start {
		p.open(kind, p.pos-1)
	} else {
		p.carry(kind, p.abs(p.pos)-1, replayH)
		p.open(kind, p.pos)
	}

	p.state = state
}

func (p *Parser) methodName() {
	if p.span == 0 {
		p.open(OnMethod, p.pos)
	}

	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsToken(c) {
			if p.tokenLen == method.MaxLength {
				p.pos = i
				p.fail(CodeInvalidMethod, "unknown method")
				return
			}

			p.token[p.tokenLen] = c
			p.tokenLen++
			continue
		}

		p.pos = i
		if c != lexer.SP || p.tokenLen == 0 {
			p.fail(CodeInvalidMethod, "invalid character in method")
			return
		}

		p.msg.Method = method.Parse(uf.B2S(p.token[:p.tokenLen]))
		if p.msg.Method == method.Unknown {
			p.fail(CodeInvalidMethod, "unknown method")
			return
		}

		p.close(i)
		p.push(OnMethodComplete, i)
		p.pos = i + 1
		p.state = eURLStart
		return
	}

	p.pos = len(p.data)
}

func (p *Parser) urlStart() {
	if !lexer.IsURL(p.data[p.pos]) {
		p.fail(CodeInvalidURL, "expected request target after a single space")
		return
	}

	p.open(OnURL, p.pos)
	p.state = eURL
}

func (p *Parser) url() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsURL(c) {
			continue
		}

		p.pos = i

		switch {
		case c == lexer.SP:
			p.close(i)
			p.msg.URL = uf.B2S(p.head.Finish())
			p.push(OnURLComplete, i)
			p.pos = i + 1
			p.tokenLen = 0
			p.state = eProtocol
		case lexer.IsEOL(c):
			p.fail(CodeInvalidConstant, "expected protocol after request target")
		default:
			p.fail(CodeInvalidURL, "invalid character in request target")
		}

		return
	}

	p.pos = len(p.data)
}

func (p *Parser) protocol() {
	if p.span == 0 {
		p.open(OnProtocol, p.pos)
	}

	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if c >= 'A' && c <= 'Z' {
			if p.tokenLen == proto.MaxFamilyLength {
				p.pos = i
				p.fail(CodeInvalidConstant, "unknown protocol")
				return
			}

			p.token[p.tokenLen] = c
			p.tokenLen++
			continue
		}

		p.pos = i
		if c != '/' {
			p.fail(CodeInvalidConstant, "expected protocol name")
			return
		}

		family := proto.ParseFamily(uf.B2S(p.token[:p.tokenLen]))
		if family == proto.Unknown {
			p.fail(CodeInvalidConstant, "unknown protocol")
			return
		}

		if p.msg.Kind == Request && !allowed(family, p.msg.Method) {
			p.fail(CodeInvalidConstant, "method isn't allowed by the protocol")
			return
		}

		p.msg.Protocol = family
		p.close(i)
		p.push(OnProtocolComplete, i)
		p.pos = i + 1
		p.state = eVersionMajor
		return
	}

	p.pos = len(p.data)
}

func allowed(family proto.Family, m method.Method) bool {
	switch family {
	case proto.HTTP:
		return m.IsHTTP()
	case proto.RTSP:
		return m.IsRTSP()
	case proto.ICE:
		return m.IsICE()
	default:
		return false
	}
}

func (p *Parser) versionMajor() {
	c := p.data[p.pos]
	if !lexer.IsDigit(c) {
		p.fail(CodeInvalidVersion, "invalid major version")
		return
	}

	p.open(OnVersion, p.pos)
	p.msg.Version.Major = c - '0'
	p.pos++
	p.state = eVersionDot
}

func (p *Parser) versionDot() {
	if p.data[p.pos] != '.' {
		p.fail(CodeInvalidVersion, "expected dot in version")
		return
	}

	p.pos++
	p.state = eVersionMinor
}

func (p *Parser) versionMinor() {
	c := p.data[p.pos]
	if !lexer.IsDigit(c) {
		p.fail(CodeInvalidVersion, "invalid minor version")
		return
	}

	p.msg.Version.Minor = c - '0'
	p.pos++
	p.state = eVersionEnd
}

func (p *Parser) versionEnd() {
	c := p.data[p.pos]
	version := p.msg.Version

	if !version.Known() && !p.lenient.Version {
		p.fail(CodeInvalidVersion, "unsupported version")
		return
	}

	if p.msg.Kind == Response {
		if c != lexer.SP {
			p.fail(CodeInvalidVersion, "expected space after version")
			return
		}

		p.close(p.pos)
		p.push(OnVersionComplete, p.pos)
		p.pos++
		p.digits = 0
		p.state = eStatusCode
		return
	}

	if !lexer.IsEOL(c) {
		p.fail(CodeInvalidVersion, "expected CRLF after version")
		return
	}

	if p.msg.Method == method.PRI && version != proto.HTTP20 {
		p.fail(CodeInvalidVersion, "PRI request must have version 2.0")
		return
	}

	p.close(p.pos)
	p.push(OnVersionComplete, p.pos)
	p.eol(c, eStartLineDone)
}

func (p *Parser) statusCode() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsDigit(c) {
			if p.digits == 3 {
				p.pos = i
				p.fail(CodeInvalidStatus, "status code must consist of three digits")
				return
			}

			p.msg.Status = p.msg.Status*10 + status.Code(c-'0')
			p.digits++
			continue
		}

		p.pos = i
		if p.digits != 3 {
			p.fail(CodeInvalidStatus, "status code must consist of three digits")
			return
		}

		if !p.msg.Status.Valid() {
			p.fail(CodeInvalidStatus, "status code must be at least 100")
			return
		}

		switch {
		case c == lexer.SP:
			p.pos = i + 1
			p.state = eReason
		case lexer.IsEOL(c):
			p.push(OnStatusComplete, i)
			p.eol(c, eStartLineDone)
		default:
			p.fail(CodeInvalidStatus, "invalid character in status code")
		}

		return
	}

	p.pos = len(p.data)
}

func (p *Parser) reason() {
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if lexer.IsEOL(c) {
			p.pos = i
			if p.span != 0 {
				p.close(i)
				p.msg.Reason = uf.B2S(p.head.Finish())
			}

			p.push(OnStatusComplete, i)
			p.eol(c, eStartLineDone)
			return
		}

		if !lexer.IsReason(c) {
			p.pos = i
			p.fail(CodeInvalidStatus, "invalid character in reason phrase")
			return
		}

		if p.span == 0 {
			p.open(OnStatus, i)
		}
	}

	p.pos = len(p.data)
}

func (p *Parser) startLineDone() {
	if p.msg.Kind == Request && p.msg.Method == method.PRI {
		p.digits = 0
		p.state = ePreface
		return
	}

	p.trailers = false
	p.count = 0
	p.state = eFieldStart
}

func (p *Parser) preface() {
	for i := p.pos; i < len(p.data); i++ {
		if p.data[i] != h2Preface[p.digits] {
			p.pos = i
			p.fail(CodeInvalidConstant, "invalid HTTP/2 connection preface")
			return
		}

		p.digits++
		if p.digits == len(h2Preface) {
			p.pos = i + 1
			p.pause = pauseH2Upgrade
			p.state = eMessageComplete
			return
		}
	}

	p.pos = len(p.data)
}
