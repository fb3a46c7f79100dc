package http1

import (
	"strconv"

	"github.com/pkg/errors"
)

// Code is a stable numeric identifier of a parsing failure. The numbering is shared with
// llhttp, so codes may be compared across implementations.
type Code uint8

const (
	CodeOK                      Code = 0
	CodeInternal                Code = 1
	CodeStrict                  Code = 2
	CodeLFExpected              Code = 3
	CodeUnexpectedContentLength Code = 4
	CodeClosedConnection        Code = 5
	CodeInvalidMethod           Code = 6
	CodeInvalidURL              Code = 7
	CodeInvalidConstant         Code = 8
	CodeInvalidVersion          Code = 9
	CodeInvalidHeaderToken      Code = 10
	CodeInvalidContentLength    Code = 11
	CodeInvalidChunkSize        Code = 12
	CodeInvalidStatus           Code = 13
	CodeInvalidEOFState         Code = 14
	CodeInvalidTransferEncoding Code = 15

	CodeCBMessageBegin    Code = 16
	CodeCBHeadersComplete Code = 17
	CodeCBMessageComplete Code = 18
	CodeCBChunkHeader     Code = 19
	CodeCBChunkComplete   Code = 20

	CodePaused          Code = 21
	CodePausedUpgrade   Code = 22
	CodePausedH2Upgrade Code = 23
	CodeUser            Code = 24
	CodeCRExpected      Code = 25

	CodeCBURLComplete         Code = 26
	CodeCBStatusComplete      Code = 27
	CodeCBHeaderFieldComplete Code = 28
	CodeCBHeaderValueComplete Code = 29

	CodeUnexpectedSpace Code = 30

	CodeCBReset                       Code = 31
	CodeCBMethodComplete              Code = 32
	CodeCBVersionComplete             Code = 33
	CodeCBChunkExtensionNameComplete  Code = 34
	CodeCBChunkExtensionValueComplete Code = 35
	CodeCBProtocolComplete            Code = 38

	// CodeHeaderOverflow is raised when the header section exceeds the configured limits.
	CodeHeaderOverflow Code = 40
)

var codeNames = map[Code]string{
	CodeOK:                            "OK",
	CodeInternal:                      "INTERNAL",
	CodeStrict:                        "STRICT",
	CodeLFExpected:                    "LF_EXPECTED",
	CodeUnexpectedContentLength:       "UNEXPECTED_CONTENT_LENGTH",
	CodeClosedConnection:              "CLOSED_CONNECTION",
	CodeInvalidMethod:                 "INVALID_METHOD",
	CodeInvalidURL:                    "INVALID_URL",
	CodeInvalidConstant:               "INVALID_CONSTANT",
	CodeInvalidVersion:                "INVALID_VERSION",
	CodeInvalidHeaderToken:            "INVALID_HEADER_TOKEN",
	CodeInvalidContentLength:          "INVALID_CONTENT_LENGTH",
	CodeInvalidChunkSize:              "INVALID_CHUNK_SIZE",
	CodeInvalidStatus:                 "INVALID_STATUS",
	CodeInvalidEOFState:               "INVALID_EOF_STATE",
	CodeInvalidTransferEncoding:       "INVALID_TRANSFER_ENCODING",
	CodeCBMessageBegin:                "CB_MESSAGE_BEGIN",
	CodeCBHeadersComplete:             "CB_HEADERS_COMPLETE",
	CodeCBMessageComplete:             "CB_MESSAGE_COMPLETE",
	CodeCBChunkHeader:                 "CB_CHUNK_HEADER",
	CodeCBChunkComplete:               "CB_CHUNK_COMPLETE",
	CodePaused:                        "PAUSED",
	CodePausedUpgrade:                 "PAUSED_UPGRADE",
	CodePausedH2Upgrade:               "PAUSED_H2_UPGRADE",
	CodeUser:                          "USER",
	CodeCRExpected:                    "CR_EXPECTED",
	CodeCBURLComplete:                 "CB_URL_COMPLETE",
	CodeCBStatusComplete:              "CB_STATUS_COMPLETE",
	CodeCBHeaderFieldComplete:         "CB_HEADER_FIELD_COMPLETE",
	CodeCBHeaderValueComplete:         "CB_HEADER_VALUE_COMPLETE",
	CodeUnexpectedSpace:               "UNEXPECTED_SPACE",
	CodeCBReset:                       "CB_RESET",
	CodeCBMethodComplete:              "CB_METHOD_COMPLETE",
	CodeCBVersionComplete:             "CB_VERSION_COMPLETE",
	CodeCBChunkExtensionNameComplete:  "CB_CHUNK_EXTENSION_NAME_COMPLETE",
	CodeCBChunkExtensionValueComplete: "CB_CHUNK_EXTENSION_VALUE_COMPLETE",
	CodeCBProtocolComplete:            "CB_PROTOCOL_COMPLETE",
	CodeHeaderOverflow:                "HEADER_OVERFLOW",
}

func (c Code) String() string {
	if name, found := codeNames[c]; found {
		return name
	}

	return "CODE_" + strconv.Itoa(int(c))
}

// Error is a fatal parsing failure. Once returned, the parser keeps returning it on every
// subsequent call.
type Error struct {
	Code   Code
	Reason string
	// Offset is the absolute position of the byte the error was detected at.
	Offset int64
	cause  error
}

func newError(code Code, reason string, offset int64) *Error {
	return &Error{
		Code:   code,
		Reason: reason,
		Offset: offset,
	}
}

func (e *Error) Error() string {
	return "HPE_" + e.Code.String() + " at " + strconv.FormatInt(e.Offset, 10) + ": " + e.Reason
}

// Unwrap returns the error a handler failed with, if that's what caused the failure.
func (e *Error) Unwrap() error {
	return e.cause
}

var (
	// ErrPause may be returned by a Handler in order to pause the parser right after the
	// event was delivered. The next Feed resumes it.
	ErrPause = errors.New("pause requested")
	// ErrSkipBody may be returned by a Handler on OnHeadersComplete in order to mark the
	// message as having no body, e.g. a response to a HEAD request.
	ErrSkipBody = errors.New("skip body")
)

// callbackCodes maps completion events to the codes reported when their handler fails.
// Span events are reported as CodeUser.
var callbackCodes = map[EventKind]Code{
	OnMessageBegin:                CodeCBMessageBegin,
	OnHeadersComplete:             CodeCBHeadersComplete,
	OnMessageComplete:             CodeCBMessageComplete,
	OnChunkHeader:                 CodeCBChunkHeader,
	OnChunkComplete:               CodeCBChunkComplete,
	OnURLComplete:                 CodeCBURLComplete,
	OnStatusComplete:              CodeCBStatusComplete,
	OnHeaderFieldComplete:         CodeCBHeaderFieldComplete,
	OnHeaderValueComplete:         CodeCBHeaderValueComplete,
	OnReset:                       CodeCBReset,
	OnMethodComplete:              CodeCBMethodComplete,
	OnVersionComplete:             CodeCBVersionComplete,
	OnChunkExtensionNameComplete:  CodeCBChunkExtensionNameComplete,
	OnChunkExtensionValueComplete: CodeCBChunkExtensionValueComplete,
	OnProtocolComplete:            CodeCBProtocolComplete,
}

func callbackError(ev Event, err error) *Error {
	code, found := callbackCodes[ev.Kind]
	if !found {
		code = CodeUser
	}

	return &Error{
		Code:   code,
		Reason: errors.Wrapf(err, "%s handler", ev.Kind).Error(),
		Offset: ev.Offset,
		cause:  err,
	}
}
