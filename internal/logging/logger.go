package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

// New builds the process logger. Unknown levels fall back to info,
// LOG_FORMAT=console switches to the human readable writer.
func New(cfg *config.Config, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if strings.EqualFold(strings.TrimSpace(cfg.LogFormat), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "salon-scheduler").
		Str("env", cfg.AppEnv).
		Logger()

	return &logger
}

// Nop is handy for tests and CLI commands that must stay quiet.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
