// Package applog wraps zerolog with the service-context pattern used by
// the cadent example's internal/logger package: a small struct around a
// configured zerolog.Logger, environment-driven console-vs-JSON output,
// and chained field helpers. CSV statistics never go through this
// package — they are written straight to stdout by the driver; applog
// is for diagnostics on stderr only.
package applog

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the logger's verbosity and output format.
type Config struct {
	Level       string
	Environment string
}

// Logger wraps a configured zerolog.Logger with a fixed component name.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger for the given component, writing to stderr.
func New(component string, cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var z zerolog.Logger
	if strings.EqualFold(cfg.Environment, "development") || strings.EqualFold(cfg.Environment, "dev") {
		z = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Logger()
	} else {
		z = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	z = z.With().Str("component", component).Logger()
	return &Logger{z: z}
}

// With returns a Logger with an additional string field attached.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{z: l.z.With().Str(key, value).Logger()}
}

func (l *Logger) Info(msg string)  { l.z.Info().Msg(msg) }
func (l *Logger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.z.Warn().Msg(msg) }

// Error logs msg with err attached, if non-nil.
func (l *Logger) Error(msg string, err error) {
	ev := l.z.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
