package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// logger is replaced by setupLogging at startup; it discards everything until then.
var logger = zerolog.Nop()

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogging points the package logger at out in console format.
func setupLogging(out io.Writer, level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).Level(parseLogLevel(level)).With().Timestamp().Logger()
}
