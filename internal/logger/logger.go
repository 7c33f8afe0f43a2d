package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/akave-ai/logrelay/internal/config"
)

// New builds the process logger. Console output is used for the console
// format, JSON otherwise.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.ObservabilityConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := out
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(w).
		Level(cfg.Level()).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)
	if cfg.Environment != "" {
		l = l.Str("env", cfg.Environment)
	}
	return l.Logger()
}
