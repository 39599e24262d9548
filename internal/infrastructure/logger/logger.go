package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a new logger writing human readable output to stdout
func New(level string) zerolog.Logger {
	return NewWithWriter(level, zerolog.ConsoleWriter{Out: os.Stdout})
}

// NewWithWriter creates a logger on top of w
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))

	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()
}

// ParseLevel maps a level name onto zerolog.Level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
	default:
		return zerolog.InfoLevel
	}
}
