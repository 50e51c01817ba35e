package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"jobly/internal/config"

	"github.com/rs/zerolog"
)

// New returns the process logger configured by LOG_LEVEL and LOG_FORMAT.
// LOG_FORMAT=console writes human-readable lines instead of JSON.
func New(cfg config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.Config, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if strings.EqualFold(cfg.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		With().
		Timestamp().
		Str("service", "jobly").
		Logger().
		Level(ParseLevel(cfg.LogLevel))
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
