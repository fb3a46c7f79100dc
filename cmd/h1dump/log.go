package main

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// stdout is taken by the dump itself, so logs go to stderr.
var structLogger = zerolog.New(os.Stderr).
	With().Caller().Timestamp().Logger()

var consoleLogger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.StampMilli,
	FormatCaller: func(i interface{}) string {
		caller, _ := i.(string)
		if idx := strings.Index(caller, "/pkg/mod/"); idx > 0 {
			return caller[idx+9:]
		}
		if idx := strings.LastIndexByte(caller, '/'); idx > 0 {
			return caller[idx+1:]
		}
		return caller
	},
}).With().Timestamp().Caller().Logger()

func setupLogger(debug bool) {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		return pkgerrors.MarshalStack(err)
	}

	if fi, _ := os.Stderr.Stat(); fi != nil && (fi.Mode()&os.ModeCharDevice) == 0 {
		log.Logger = structLogger
	} else {
		log.Logger = consoleLogger
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = log.Logger.Level(level)
}
