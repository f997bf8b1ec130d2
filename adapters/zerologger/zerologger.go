// Package zerologger adapts zerolog to the console.Logger surface.
package zerologger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

// NewWithLevel builds a stderr logger at the named level; unknown levels
// fall back to info.
func NewWithLevel(level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
	return New(log)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
