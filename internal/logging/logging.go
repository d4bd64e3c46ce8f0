// Package logging builds the structured loggers used across docscan.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger writing to out with the given level and
// format. Format "console" renders human-readable lines; anything else
// emits JSON. Every event carries a service field so multi-process logs
// stay attributable.
func New(level, format string, out io.Writer, service string) zerolog.Logger {
	var logger zerolog.Logger
	if format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	} else {
		logger = zerolog.New(out)
	}

	return logger.Level(parseLevel(level)).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// parseLevel converts a string level to zerolog.Level. Unknown levels fall
// back to info rather than failing: a typo in a config file should not make
// the process mute or unbootable.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
