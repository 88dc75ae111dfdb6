package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log line
const ServiceName = "cityguide-blog-api"

// Options selects level and output style
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "pretty"
	Env    string // "development" forces pretty output
}

// New creates a zerolog logger writing to stdout
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	base := zerolog.New(w)
	if opts.Env == "development" || opts.Format == "pretty" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	builder := base.Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Env == "development" {
		builder = builder.Caller()
	}
	return builder.Str("service", ServiceName).Logger()
}

// ParseLevel maps a level name to zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
