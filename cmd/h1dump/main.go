// Command h1dump parses an HTTP/1.x stream and prints every event the parser produces.
// The input is fed in pieces of a configurable size, so fragmentation issues may be
// reproduced as well.
package main

import (
	"bufio"
	"io"
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/indigo-web/h1parse/config"
	"github.com/indigo-web/h1parse/http/parser/http1"
	"github.com/indigo-web/h1parse/internal/dump"
	"github.com/indigo-web/h1parse/session"
	"github.com/indigo-web/h1parse/transport"
)

var conf = struct {
	Kind       string `default:"request" usage:"kind of messages: request, response or auto"`
	Input      string `usage:"file to parse, stdin if empty"`
	Config     string `usage:"TOML file with parser settings"`
	Chunk      int    `default:"4096" usage:"size of the pieces the input is fed by"`
	Format     string `default:"text" usage:"output format: text or json"`
	Permissive bool   `usage:"enable every lenient toggle"`
	Debug      bool   `usage:"log parser pauses and failures"`
}{}

func main() {
	loader := aconfig.LoaderFor(&conf, aconfig.Config{
		SkipFiles: true,
		EnvPrefix: "H1DUMP",
	})
	if err := loader.Load(); err != nil {
		log.Fatal().Err(err).Msg("load flags")
	}

	setupLogger(conf.Debug)

	if err := run(); err != nil {
		log.Error().Stack().Err(err).Msg("dump")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := parserConfig()
	if err != nil {
		return err
	}

	if cfg.Lenient.Any() {
		log.Warn().Interface("lenient", cfg.Lenient).Msg("lenient parsing enabled, the stream may be accepted unsafely")
	}

	kind, err := parseKind(conf.Kind)
	if err != nil {
		return err
	}

	if conf.Chunk < 1 {
		return errors.Errorf("chunk size must be positive, got %d", conf.Chunk)
	}

	input, err := openInput(conf.Input)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	parser := http1.New(kind, cfg)
	parser.SetLogger(log.Logger)
	parser.OnEvent(dump.NewWriter(out, dump.ParseFormat(conf.Format), kind).Event)

	client := transport.NewReader(input, make([]byte, conf.Chunk))
	defer client.Close()

	s := session.New(client, parser, log.Logger)
	outcome, err := s.Run()
	stats := s.Stats()
	log.Info().
		Stringer("outcome", outcome).
		Int("messages", stats.Messages).
		Int64("consumed", stats.Consumed).
		Msg("done")

	if outcome == session.Upgraded {
		rest, rerr := io.Copy(io.Discard, readerOf(client))
		log.Info().Int64("bytes", rest).Err(rerr).Msg("skipped data after protocol switch")
	}

	return err
}

func parserConfig() (*config.Config, error) {
	var files []string
	if conf.Config != "" {
		files = append(files, conf.Config)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if conf.Permissive {
		cfg.Lenient = config.Permissive().Lenient
	}

	return cfg, nil
}

func parseKind(name string) (http1.Kind, error) {
	switch name {
	case "request":
		return http1.Request, nil
	case "response":
		return http1.Response, nil
	case "auto":
		return http1.Auto, nil
	default:
		return 0, errors.Errorf("unknown kind: %s", name)
	}
}

func openInput(path string) (io.Reader, error) {
	if path == "" {
		return os.Stdin, nil
	}

	f, err := os.Open(path)
	return f, errors.Wrapf(err, "open %s", path)
}

// readerOf adapts the client back to io.Reader.
func readerOf(client transport.Client) io.Reader {
	return clientReader{client}
}

type clientReader struct {
	client transport.Client
}

func (c clientReader) Read(b []byte) (int, error) {
	data, err := c.client.Read()
	n := copy(b, data)
	if n < len(data) {
		c.client.Pushback(data[n:])
		return n, nil
	}

	return n, err
}
