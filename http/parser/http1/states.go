package http1

type parserState uint8

const (
	eMessageStart parserState = iota
	eAuto
	eAutoH
	eMethod
	eURLStart
	eURL
	eProtocol
	eVersionMajor
	eVersionDot
	eVersionMinor
	eVersionEnd
	eStatusCode
	eReason
	eStartLineDone
	ePreface
	eFieldStart
	eField
	eValueStart
	eValue
	eValueLookahead
	eHeadersDone
	eFraming
	eBodyLength
	eBodyEOF
	eChunkSize
	eChunkSizeRest
	eChunkSizeWS
	eExtStart
	eExtName
	eExtAfterName
	eExtValueStart
	eExtValue
	eExtQuoted
	eExtQuotedEscape
	eExtAfterValue
	eChunkHeader
	eChunkData
	eChunkDataEnd
	eChunkComplete
	eMessageComplete
	eAfterComplete
	eClosed
	eLF
)

// instant reports whether the state consumes no input, so it may run even when the
// buffer is exhausted.
func (s parserState) instant() bool {
	switch s {
	case eStartLineDone, eHeadersDone, eFraming, eChunkHeader, eChunkComplete,
		eMessageComplete, eAfterComplete:
		return true
	default:
		return false
	}
}

// Phase is the coarse position of the parser within a message.
type Phase uint8

const (
	PhaseAwaitingMessage Phase = iota
	PhaseStartLine
	PhaseHeaders
	PhaseBody
	PhaseMessageComplete
	PhaseClosed
	PhasePaused
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingMessage:
		return "awaiting message"
	case PhaseStartLine:
		return "start line"
	case PhaseHeaders:
		return "headers"
	case PhaseBody:
		return "body"
	case PhaseMessageComplete:
		return "message complete"
	case PhaseClosed:
		return "closed"
	case PhasePaused:
		return "paused"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// BodyMode is the way the body of the current message is delimited.
type BodyMode uint8

const (
	BodyNone BodyMode = iota
	BodyContentLength
	BodyChunked
	BodyUntilClose
)

func (b BodyMode) String() string {
	switch b {
	case BodyNone:
		return "none"
	case BodyContentLength:
		return "content-length"
	case BodyChunked:
		return "chunked"
	case BodyUntilClose:
		return "until close"
	default:
		return "unknown"
	}
}

// Status is the outcome of a Feed call.
type Status uint8

const (
	// NeedMoreData means the whole buffer was consumed.
	NeedMoreData Status = iota
	// Paused means the parser stopped on request. The next Feed resumes it.
	Paused
	// PausedUpgrade means the message switched the connection to another protocol. The
	// bytes starting from Result.Pos don't belong to HTTP anymore.
	PausedUpgrade
	// PausedH2Upgrade means the HTTP/2 connection preface was recognised.
	PausedH2Upgrade
	Errored
	// Finished means the connection is closed from the HTTP point of view and no more
	// messages are expected.
	Finished
)

func (s Status) String() string {
	switch s {
	case NeedMoreData:
		return "need more data"
	case Paused:
		return "paused"
	case PausedUpgrade:
		return "paused upgrade"
	case PausedH2Upgrade:
		return "paused h2 upgrade"
	case Errored:
		return "errored"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// FinishState tells whether the end of input came at a legitimate point.
type FinishState uint8

const (
	// FinishSafe means no message was in progress.
	FinishSafe FinishState = iota
	// FinishSafeWithMessageComplete means the body was delimited by the connection close,
	// so the end of input completed the message.
	FinishSafeWithMessageComplete
	// FinishUnsafe means the input was truncated in the middle of a message.
	FinishUnsafe
)

func (f FinishState) String() string {
	switch f {
	case FinishSafe:
		return "safe"
	case FinishSafeWithMessageComplete:
		return "safe with message complete"
	default:
		return "unsafe"
	}
}

type pauseReason uint8

const (
	pauseNone pauseReason = iota
	pauseGeneric
	pauseUpgrade
	pauseH2Upgrade
)

func (p pauseReason) status() Status {
	switch p {
	case pauseUpgrade:
		return PausedUpgrade
	case pauseH2Upgrade:
		return PausedH2Upgrade
	default:
		return Paused
	}
}

func (p pauseReason) String() string {
	switch p {
	case pauseUpgrade:
		return "upgrade"
	case pauseH2Upgrade:
		return "h2 upgrade"
	default:
		return "generic"
	}
}
