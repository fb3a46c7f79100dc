// Package dump renders parser events for humans and for machines. The text format follows
// the one of llhttp test dumps, so traces of both parsers may be diffed directly.
package dump

import (
	"io"
	"strconv"

	json "github.com/json-iterator/go"

	"github.com/indigo-web/h1parse/http/parser/http1"
)

type Format uint8

const (
	Text Format = iota
	JSON
)

// ParseFormat returns the format by its name. Unknown names fall back to Text.
func ParseFormat(name string) Format {
	if name == "json" {
		return JSON
	}

	return Text
}

// AppendText appends a single line (without the trailing newline) describing the event.
func AppendText(buff []byte, kind http1.Kind, ev http1.Event) []byte {
	buff = append(buff, "off="...)
	buff = strconv.AppendInt(buff, ev.Offset, 10)
	buff = append(buff, ' ')

	switch {
	case ev.Kind.IsSpan():
		buff = append(buff, "len="...)
		buff = strconv.AppendInt(buff, int64(len(ev.Data)), 10)
		buff = append(buff, " span["...)
		buff = append(buff, ev.Kind.String()...)
		buff = append(buff, "]="...)
		buff = strconv.AppendQuote(buff, string(ev.Data))
	case ev.Kind == http1.OnHeadersComplete:
		buff = append(buff, "headers complete "...)
		if ev.Head.Status != 0 || kind == http1.Response {
			buff = append(buff, "status="...)
			buff = strconv.AppendUint(buff, uint64(ev.Head.Status), 10)
		} else {
			buff = append(buff, "method="...)
			buff = append(buff, ev.Head.Method.String()...)
		}

		buff = append(buff, " v="...)
		buff = strconv.AppendUint(buff, uint64(ev.Head.Version.Major), 10)
		buff = append(buff, '/')
		buff = strconv.AppendUint(buff, uint64(ev.Head.Version.Minor), 10)
		buff = append(buff, " flags="...)
		buff = append(buff, ev.Head.Flags.String()...)
		buff = append(buff, " content_length="...)
		buff = strconv.AppendInt(buff, ev.Length, 10)
	case ev.Kind == http1.OnChunkHeader:
		buff = append(buff, "chunk header len="...)
		buff = strconv.AppendInt(buff, ev.Length, 10)
	case ev.Kind == http1.OnError && ev.Err != nil:
		buff = append(buff, "error code="...)
		buff = strconv.AppendUint(buff, uint64(ev.Err.Code), 10)
		buff = append(buff, " reason="...)
		buff = strconv.AppendQuote(buff, ev.Err.Reason)
	default:
		buff = append(buff, ev.Kind.String()...)
	}

	return buff
}

// Record is the JSON representation of an event.
type Record struct {
	Offset  int64  `json:"off"`
	Event   string `json:"event"`
	Data    string `json:"data,omitempty"`
	Final   bool   `json:"final,omitempty"`
	Length  *int64 `json:"len,omitempty"`
	Method  string `json:"method,omitempty"`
	Status  uint16 `json:"status,omitempty"`
	Version string `json:"version,omitempty"`
	Flags   string `json:"flags,omitempty"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func NewRecord(ev http1.Event) Record {
	rec := Record{
		Offset: ev.Offset,
		Event:  ev.Kind.String(),
	}

	switch {
	case ev.Kind.IsSpan():
		rec.Data = string(ev.Data)
		rec.Final = ev.Final
	case ev.Kind == http1.OnHeadersComplete:
		length := ev.Length
		rec.Length = &length
		rec.Method = ev.Head.Method.String()
		rec.Status = uint16(ev.Head.Status)
		rec.Version = ev.Head.Version.String()
		rec.Flags = ev.Head.Flags.String()
	case ev.Kind == http1.OnChunkHeader:
		length := ev.Length
		rec.Length = &length
	case ev.Kind == http1.OnError && ev.Err != nil:
		rec.Code = ev.Err.Code.String()
		rec.Reason = ev.Err.Reason
	}

	return rec
}

// Writer writes every event it's given as a separate line.
type Writer struct {
	w      io.Writer
	format Format
	kind   http1.Kind
	buff   []byte
}

// NewWriter returns a writer of events produced by a parser of the passed kind.
func NewWriter(w io.Writer, format Format, kind http1.Kind) *Writer {
	return &Writer{
		w:      w,
		format: format,
		kind:   kind,
	}
}

// Event writes the event. It may be used directly as http1.Handler.
func (w *Writer) Event(ev http1.Event) error {
	if w.format == JSON {
		return w.json(ev)
	}

	w.buff = AppendText(w.buff[:0], w.kind, ev)
	w.buff = append(w.buff, '\n')
	_, err := w.w.Write(w.buff)

	return err
}

func (w *Writer) json(ev http1.Event) error {
	stream := json.ConfigDefault.BorrowStream(w.w)
	stream.WriteVal(NewRecord(ev))
	stream.WriteRaw("\n")
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return err
}
