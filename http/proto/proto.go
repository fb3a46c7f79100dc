package proto

// Family is the protocol name preceding the version in a start line.
type Family uint8

const (
	Unknown Family = iota
	HTTP
	RTSP
	// ICE is the protocol spoken by icecast sources.
	ICE
)

func (f Family) String() string {
	lut := [...]string{Unknown: "", HTTP: "HTTP", RTSP: "RTSP", ICE: "ICE"}
	if int(f) >= len(lut) {
		return ""
	}

	return lut[f]
}

// MaxFamilyLength is the length of the longest known protocol name.
const MaxFamilyLength = len("HTTP")

// ParseFamily returns the protocol by its name. Names are case-sensitive.
func ParseFamily(name string) Family {
	switch name {
	case "HTTP":
		return HTTP
	case "RTSP":
		return RTSP
	case "ICE":
		return ICE
	default:
		return Unknown
	}
}

// Version is a protocol version. Both numbers are single decimal digits on the wire.
type Version struct {
	Major, Minor uint8
}

var (
	HTTP09 = Version{0, 9}
	HTTP10 = Version{1, 0}
	HTTP11 = Version{1, 1}
	HTTP20 = Version{2, 0}
)

// Known reports whether the version is one of 0.9, 1.0, 1.1 or 2.0.
func (v Version) Known() bool {
	switch v {
	case HTTP09, HTTP10, HTTP11, HTTP20:
		return true
	default:
		return false
	}
}

// PersistentByDefault reports whether connections of this version are kept alive
// unless explicitly asked otherwise, which is true for every version starting from 1.1.
func (v Version) PersistentByDefault() bool {
	return v.Major > 0 && v.Minor > 0 || v.Major > 1
}

func (v Version) String() string {
	if v.Major > 9 || v.Minor > 9 {
		return ""
	}

	return string([]byte{'0' + v.Major, '.', '0' + v.Minor})
}
