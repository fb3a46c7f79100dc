package http1

import (
	"github.com/indigo-web/h1parse/http/method"
	"github.com/indigo-web/h1parse/http/proto"
	"github.com/indigo-web/h1parse/http/status"
)

type EventKind uint8

const (
	OnMessageBegin EventKind = iota + 1
	OnMethod
	OnMethodComplete
	OnURL
	OnURLComplete
	OnProtocol
	OnProtocolComplete
	OnVersion
	OnVersionComplete
	// OnStatus carries the reason phrase of a response. The numeric code is reported
	// on OnHeadersComplete.
	OnStatus
	OnStatusComplete
	OnHeaderField
	OnHeaderFieldComplete
	OnHeaderValue
	OnHeaderValueComplete
	OnHeadersComplete
	OnChunkHeader
	OnChunkExtensionName
	OnChunkExtensionNameComplete
	OnChunkExtensionValue
	OnChunkExtensionValueComplete
	OnBody
	OnChunkComplete
	OnMessageComplete
	OnReset
	OnPause
	OnError

	eventsCount = iota
)

var eventNames = [eventsCount + 1]string{
	OnMessageBegin:                "message begin",
	OnMethod:                      "method",
	OnMethodComplete:              "method complete",
	OnURL:                         "url",
	OnURLComplete:                 "url complete",
	OnProtocol:                    "protocol",
	OnProtocolComplete:            "protocol complete",
	OnVersion:                     "version",
	OnVersionComplete:             "version complete",
	OnStatus:                      "status",
	OnStatusComplete:              "status complete",
	OnHeaderField:                 "header_field",
	OnHeaderFieldComplete:         "header_field complete",
	OnHeaderValue:                 "header_value",
	OnHeaderValueComplete:         "header_value complete",
	OnHeadersComplete:             "headers complete",
	OnChunkHeader:                 "chunk header",
	OnChunkExtensionName:          "chunk_extension_name",
	OnChunkExtensionNameComplete:  "chunk_extension_name complete",
	OnChunkExtensionValue:         "chunk_extension_value",
	OnChunkExtensionValueComplete: "chunk_extension_value complete",
	OnBody:                        "body",
	OnChunkComplete:               "chunk complete",
	OnMessageComplete:             "message complete",
	OnReset:                       "reset",
	OnPause:                       "pause",
	OnError:                       "error",
}

func (e EventKind) String() string {
	if int(e) >= len(eventNames) || eventNames[e] == "" {
		return "unknown"
	}

	return eventNames[e]
}

// IsSpan reports whether events of this kind carry a piece of the input.
func (e EventKind) IsSpan() bool {
	switch e {
	case OnMethod, OnURL, OnProtocol, OnVersion, OnStatus, OnHeaderField, OnHeaderValue,
		OnChunkExtensionName, OnChunkExtensionValue, OnBody:
		return true
	default:
		return false
	}
}

// Head is the summary of a message known at the moment its header section is complete.
type Head struct {
	Method   method.Method
	Status   status.Code
	Protocol proto.Family
	Version  proto.Version
	Flags    Flags
}

// Event is a single parsing result, tagged with the absolute offset it fired at.
type Event struct {
	Kind   EventKind
	Offset int64
	// Data is set for span events only. It's a view into the fed buffer, except for the
	// bytes carried over from previous calls, which are views into the parser's own memory
	// and stay valid until the message is reset.
	Data []byte
	// Final marks the last piece of a span. A value split by the input boundaries
	// arrives as several consecutive events of the same kind, only the last of which
	// is final. Body pieces are final at the end of the chunk or of the Content-Length.
	// With lenient headers the last piece of a header value may be empty, as the value
	// is known to be complete only after the next line doesn't continue it.
	Final bool
	// Length is the chunk size on OnChunkHeader and the content length on
	// OnHeadersComplete.
	Length int64
	// Head is filled on OnHeadersComplete only.
	Head Head
	// Err is set on OnError only.
	Err *Error
}

// Handler receives events synchronously as they are produced. Returning ErrPause pauses
// the parser, ErrSkipBody on OnHeadersComplete marks the message as bodyless, and any
// other error fails the parser with one of the callback codes.
type Handler func(ev Event) error
