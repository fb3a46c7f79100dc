// Package lexer classifies bytes of the HTTP/1.x grammar. It knows nothing about the
// messages themselves, only about which byte may appear where.
package lexer

const (
	CR   = '\r'
	LF   = '\n'
	SP   = ' '
	HTAB = '\t'
)

type class uint8

const (
	cToken class = 1 << iota
	cURL
	cValue
	cDigit
	cReason
)

var classes = func() (table [256]class) {
	for c := 0; c < 256; c++ {
		switch {
		case c >= '0' && c <= '9':
			table[c] |= cDigit | cToken
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			table[c] |= cToken
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			table[c] |= cToken
		}

		// field-value = *( VCHAR / SP / HTAB / obs-text )
		if c == HTAB || (c >= SP && c != 0x7f) {
			table[c] |= cValue | cReason
		}

		// any visible char, including obs-text. The URL is not validated semantically.
		if c > SP && c != 0x7f {
			table[c] |= cURL
		}
	}

	return table
}()

var halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xFF
	}

	for c := '0'; c <= '9'; c++ {
		table[c] = byte(c - '0')
	}

	for c := 'a'; c <= 'f'; c++ {
		table[c] = byte(c-'a') + 10
		table[c-'a'+'A'] = byte(c-'a') + 10
	}

	return table
}()

// IsToken reports whether c is a tchar as defined by RFC 9110.
func IsToken(c byte) bool {
	return classes[c]&cToken != 0
}

// IsURL reports whether c may appear inside a request-target.
func IsURL(c byte) bool {
	return classes[c]&cURL != 0
}

// IsValue reports whether c may appear inside a field value in strict mode.
func IsValue(c byte) bool {
	return classes[c]&cValue != 0
}

// IsLenientValue reports whether c may appear inside a field value in lenient mode. Only
// line terminators and NUL are prohibited there.
func IsLenientValue(c byte) bool {
	return c != CR && c != LF && c != 0
}

// IsReason reports whether c may appear inside a status reason phrase.
func IsReason(c byte) bool {
	return classes[c]&cReason != 0
}

func IsDigit(c byte) bool {
	return classes[c]&cDigit != 0
}

// IsOWS reports whether c is an optional whitespace char.
func IsOWS(c byte) bool {
	return c == SP || c == HTAB
}

// IsEOL reports whether c begins or ends a line terminator.
func IsEOL(c byte) bool {
	return c == CR || c == LF
}

// Unhex returns the value of the hex digit c, or 0xFF if c isn't one.
func Unhex(c byte) byte {
	return halfbyte[c]
}
