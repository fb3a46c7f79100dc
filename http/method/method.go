package method

type Method uint8

const (
	Unknown Method = iota
	DELETE
	GET
	HEAD
	POST
	PUT
	CONNECT
	OPTIONS
	TRACE
	// WebDAV
	COPY
	LOCK
	MKCOL
	MOVE
	PROPFIND
	PROPPATCH
	SEARCH
	UNLOCK
	BIND
	REBIND
	UNBIND
	ACL
	// subversion
	REPORT
	MKACTIVITY
	CHECKOUT
	MERGE
	// upnp
	MSEARCH
	NOTIFY
	SUBSCRIBE
	UNSUBSCRIBE
	// RFC-5789
	PATCH
	PURGE
	// CalDAV
	MKCALENDAR
	// RFC-2068, section 19.6.1.2
	LINK
	UNLINK
	// icecast
	SOURCE
	// RFC-7540, section 11.6
	PRI
	// RFC-2326 RTSP
	DESCRIBE
	ANNOUNCE
	SETUP
	PLAY
	PAUSE
	TEARDOWN
	GET_PARAMETER
	SET_PARAMETER
	REDIRECT
	RECORD
	FLUSH
	// RFC-9110, section 9.3.9 draft
	QUERY

	// Count is the greatest integer value of all the methods, which is also the number
	// of known methods, as Unknown isn't counted.
	Count = iota - 1
)

var names = [...]string{
	Unknown:       "",
	DELETE:        "DELETE",
	GET:           "GET",
	HEAD:          "HEAD",
	POST:          "POST",
	PUT:           "PUT",
	CONNECT:       "CONNECT",
	OPTIONS:       "OPTIONS",
	TRACE:         "TRACE",
	COPY:          "COPY",
	LOCK:          "LOCK",
	MKCOL:         "MKCOL",
	MOVE:          "MOVE",
	PROPFIND:      "PROPFIND",
	PROPPATCH:     "PROPPATCH",
	SEARCH:        "SEARCH",
	UNLOCK:        "UNLOCK",
	BIND:          "BIND",
	REBIND:        "REBIND",
	UNBIND:        "UNBIND",
	ACL:           "ACL",
	REPORT:        "REPORT",
	MKACTIVITY:    "MKACTIVITY",
	CHECKOUT:      "CHECKOUT",
	MERGE:         "MERGE",
	MSEARCH:       "M-SEARCH",
	NOTIFY:        "NOTIFY",
	SUBSCRIBE:     "SUBSCRIBE",
	UNSUBSCRIBE:   "UNSUBSCRIBE",
	PATCH:         "PATCH",
	PURGE:         "PURGE",
	MKCALENDAR:    "MKCALENDAR",
	LINK:          "LINK",
	UNLINK:        "UNLINK",
	SOURCE:        "SOURCE",
	PRI:           "PRI",
	DESCRIBE:      "DESCRIBE",
	ANNOUNCE:      "ANNOUNCE",
	SETUP:         "SETUP",
	PLAY:          "PLAY",
	PAUSE:         "PAUSE",
	TEARDOWN:      "TEARDOWN",
	GET_PARAMETER: "GET_PARAMETER",
	SET_PARAMETER: "SET_PARAMETER",
	REDIRECT:      "REDIRECT",
	RECORD:        "RECORD",
	FLUSH:         "FLUSH",
	QUERY:         "QUERY",
}

// MaxLength is the length of the longest known method name.
const MaxLength = len("GET_PARAMETER")

// List contains all the known methods, sorted by their integer value. Unknown is not included.
var List = func() []Method {
	list := make([]Method, 0, Count)
	for m := Method(1); m <= Count; m++ {
		list = append(list, m)
	}

	return list
}()

func (m Method) String() string {
	if int(m) >= len(names) {
		return ""
	}

	return names[m]
}

var lookup = func() map[string]Method {
	m := make(map[string]Method, Count)
	for _, method := range List {
		m[method.String()] = method
	}

	return m
}()

// Parse returns the method by its name. Method names are case-sensitive, so "get" is
// Unknown.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		if str == "POST" {
			return POST
		} else if str == "HEAD" {
			return HEAD
		}
	}

	return lookup[str]
}

// IsHTTP reports whether the method may be used with the HTTP protocol.
func (m Method) IsHTTP() bool {
	return (m >= DELETE && m <= PRI) || m == QUERY
}

// IsRTSP reports whether the method may be used with the RTSP protocol.
func (m Method) IsRTSP() bool {
	switch m {
	case OPTIONS, GET, POST, DESCRIBE, ANNOUNCE, SETUP, PLAY, PAUSE, TEARDOWN,
		GET_PARAMETER, SET_PARAMETER, REDIRECT, RECORD, FLUSH:
		return true
	default:
		return false
	}
}

// IsICE reports whether the method may be used with the ICE (icecast) protocol.
func (m Method) IsICE() bool {
	return m == SOURCE
}
