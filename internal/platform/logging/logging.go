package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options for constructing the process logger.
type Config struct {
	// debug, info, warn, error. Defaults to info.
	Level string `json:"level"`
	// "console" for human-readable output, anything else for JSON.
	Format string `json:"format"`
}

// New builds the root logger. Components derive child loggers from it via
// With().Str("component", ...).
func New(cfg Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
