package http1

import (
	"strconv"

	"github.com/indigo-web/h1parse/http/method"
	"github.com/indigo-web/h1parse/http/proto"
	"github.com/indigo-web/h1parse/http/status"
	"github.com/indigo-web/h1parse/kv"
)

// Kind selects which messages the parser expects.
type Kind uint8

const (
	Request Kind = iota + 1
	Response
	// Auto detects the kind by the first bytes of every message.
	Auto
)

func (k Kind) String() string {
	switch k {
	case Request:
		return "request"
	case Response:
		return "response"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Flags is a bitset of message properties discovered while parsing. Values match llhttp.
type Flags uint16

const (
	FlagKeepAlive         Flags = 0x1
	FlagClose             Flags = 0x2
	FlagConnectionUpgrade Flags = 0x4
	FlagChunked           Flags = 0x8
	FlagUpgrade           Flags = 0x10
	FlagContentLength     Flags = 0x20
	FlagSkipBody          Flags = 0x40
	FlagTrailing          Flags = 0x80
	FlagTransferEncoding  Flags = 0x200
)

func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	return strconv.FormatUint(uint64(f), 16)
}

// Message is the record of the message being parsed. It's cleared on reset, so anything
// needed afterwards must be copied out.
type Message struct {
	Kind   Kind
	Method method.Method
	// URL is a view into the parser's memory, valid until the message is reset. It must
	// be cloned to outlive OnReset.
	URL    string
	Status status.Code
	// Reason is valid until the message is reset, the same as URL.
	Reason   string
	Protocol proto.Family
	Version  proto.Version
	Flags    Flags
	// ContentLength is meaningful only if FlagContentLength is set.
	ContentLength int64
	// Headers and Trailers are reused by the next message, and their keys and values are
	// views valid until the message is reset. Use Clone to keep them longer.
	Headers  *kv.Storage
	Trailers *kv.Storage
}

func newMessage(headersPrealloc int) Message {
	return Message{
		Headers:  kv.NewPrealloc(headersPrealloc),
		Trailers: kv.New(),
	}
}

func (m *Message) reset(kind Kind) {
	headers, trailers := m.Headers.Clear(), m.Trailers.Clear()
	*m = Message{
		Kind:     kind,
		Headers:  headers,
		Trailers: trailers,
	}
}

func (m *Message) head() Head {
	return Head{
		Method:   m.Method,
		Status:   m.Status,
		Protocol: m.Protocol,
		Version:  m.Version,
		Flags:    m.Flags,
	}
}

// Upgrade reports whether the connection switches to another protocol after the message.
// That's either a CONNECT request, or a message with both Upgrade header and the upgrade
// token in Connection, which for responses must also have 101 status.
func (m *Message) Upgrade() bool {
	if m.Flags.Has(FlagUpgrade | FlagConnectionUpgrade) {
		return m.Kind == Request || m.Status == status.SwitchingProtocols
	}

	return m.Kind == Request && m.Method == method.CONNECT
}

// MessageNeedsEOF reports whether the body of the message is delimited by the connection
// close.
func (m *Message) MessageNeedsEOF() bool {
	if m.Kind == Request {
		return false
	}

	if m.Status.Bodyless() || m.Flags.Has(FlagSkipBody) {
		return false
	}

	if m.Flags.Has(FlagTransferEncoding) && !m.Flags.Has(FlagChunked) {
		return true
	}

	return m.Flags&(FlagChunked|FlagContentLength) == 0
}

// ShouldKeepAlive reports whether the connection may carry further messages.
func (m *Message) ShouldKeepAlive() bool {
	if m.Version.PersistentByDefault() {
		if m.Flags.Has(FlagClose) {
			return false
		}
	} else if !m.Flags.Has(FlagKeepAlive) {
		return false
	}

	return !m.MessageNeedsEOF()
}
