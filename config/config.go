package config

type (
	HeadersNumber struct {
		Default int `toml:"default" env:"DEFAULT"`
		Maximal int `toml:"maximal" env:"MAXIMAL"`
	}

	HeadersSpace struct {
		Default int `toml:"default" env:"DEFAULT"`
		Maximal int `toml:"maximal" env:"MAXIMAL"`
	}
)

type (
	// Lenient holds independent relaxations of the strict HTTP/1.1 grammar. Every flag is
	// inspected at exactly one kind of decision point in the parser, so strict and lenient
	// modes share the same state machine and the same set of error codes. The zero value
	// is the strict mode.
	Lenient struct {
		// Headers accepts obs-fold continuation lines and control characters inside
		// header values.
		Headers bool `toml:"headers" env:"HEADERS" usage:"accept obs-fold and relaxed header value chars"`
		// ChunkedLength accepts Content-Length together with Transfer-Encoding. The
		// Transfer-Encoding wins and Content-Length is ignored for framing.
		ChunkedLength bool `toml:"chunked_length" env:"CHUNKED_LENGTH" usage:"accept Content-Length alongside Transfer-Encoding"`
		// KeepAlive keeps reading the connection even if the message asked to close it.
		KeepAlive bool `toml:"keep_alive" env:"KEEP_ALIVE" usage:"ignore Connection: close when deciding to read further"`
		// TransferEncoding accepts requests whose Transfer-Encoding doesn't end with
		// chunked, reading their body until the connection is closed.
		TransferEncoding bool `toml:"transfer_encoding" env:"TRANSFER_ENCODING" usage:"accept non-chunked final transfer coding in requests"`
		// Version accepts any single-digit major and minor version.
		Version bool `toml:"version" env:"VERSION" usage:"accept out-of-range protocol versions"`
		// DataAfterClose silently discards bytes received after Connection: close.
		DataAfterClose bool `toml:"data_after_close" env:"DATA_AFTER_CLOSE" usage:"discard data received after Connection: close"`
		// OptionalLFAfterCR accepts a CR which isn't followed by LF as a line terminator.
		OptionalLFAfterCR bool `toml:"optional_lf_after_cr" env:"OPTIONAL_LF_AFTER_CR" usage:"accept bare CR as line terminator"`
		// OptionalCRLFAfterChunk accepts chunk data immediately followed by the next
		// chunk size line.
		OptionalCRLFAfterChunk bool `toml:"optional_crlf_after_chunk" env:"OPTIONAL_CRLF_AFTER_CHUNK" usage:"accept missing CRLF after chunk data"`
		// OptionalCRBeforeLF accepts a bare LF as a line terminator.
		OptionalCRBeforeLF bool `toml:"optional_cr_before_lf" env:"OPTIONAL_CR_BEFORE_LF" usage:"accept bare LF as line terminator"`
		// SpacesAfterChunkSize accepts whitespace between the chunk size and its terminator.
		SpacesAfterChunkSize bool `toml:"spaces_after_chunk_size" env:"SPACES_AFTER_CHUNK_SIZE" usage:"accept spaces after chunk size"`
	}

	Headers struct {
		// Number limits how many header (and trailer) fields a single message may carry.
		// Default is the initial capacity of the headers storage.
		Number HeadersNumber `toml:"number" env:"NUMBER"`
		// Space limits the memory occupied by owned copies of header names and values,
		// as well as the status reason. Default is the initial size of the arena.
		Space HeadersSpace `toml:"space" env:"SPACE"`
	}
)

// Config holds parser settings: lenient toggles and limits of the per-message record.
//
// Start from Default() and modify the fields you need. Zero limits are replaced by their
// defaults on Prepare, which the parser calls on construction.
type Config struct {
	Lenient Lenient `toml:"lenient" env:"LENIENT"`
	Headers Headers `toml:"headers" env:"HEADERS"`
}

// Default returns the strict configuration with well-balanced limits.
func Default() *Config {
	return &Config{
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 100,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb is enough for most of the header sections.
				Maximal: 64 * 1024, // but there still may be some extremely long cookies.
			},
		},
	}
}

// Strict is an alias to Default, used where the intention must be explicit.
func Strict() *Config {
	return Default()
}

// Permissive returns a config with every lenient toggle enabled. It's intended for
// debugging and interoperability with known-broken peers only, as it disables most of
// the request smuggling defenses.
func Permissive() *Config {
	cfg := Default()
	cfg.Lenient = Lenient{
		Headers:                true,
		ChunkedLength:          true,
		KeepAlive:              true,
		TransferEncoding:       true,
		Version:                true,
		DataAfterClose:         true,
		OptionalLFAfterCR:      true,
		OptionalCRLFAfterChunk: true,
		OptionalCRBeforeLF:     true,
		SpacesAfterChunkSize:   true,
	}

	return cfg
}

// Any reports whether at least one relaxation is enabled.
func (l Lenient) Any() bool {
	return l != Lenient{}
}

// Prepare fills zero or negative limits with their defaults and returns the config.
func (c *Config) Prepare() *Config {
	def := Default().Headers

	if c.Headers.Number.Maximal < 1 {
		c.Headers.Number.Maximal = def.Number.Maximal
	}
	if c.Headers.Number.Default < 1 {
		c.Headers.Number.Default = min(def.Number.Default, c.Headers.Number.Maximal)
	}
	if c.Headers.Space.Maximal < 1 {
		c.Headers.Space.Maximal = def.Space.Maximal
	}
	if c.Headers.Space.Default < 1 {
		c.Headers.Space.Default = min(def.Space.Default, c.Headers.Space.Maximal)
	}

	return c
}
