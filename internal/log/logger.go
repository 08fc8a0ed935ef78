// Package log wraps zerolog with process-wide configuration and request-scoped helpers.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // optional service name attached to every log entry
	Console bool      // human readable output instead of JSON lines
}

var (
	once sync.Once
	base zerolog.Logger
)

// New builds a logger from cfg without touching global state.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	service := cfg.Service
	if service == "" {
		service = "yt-webui"
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// ParseLevel maps a level name onto zerolog, falling back to info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		level = os.Getenv("YTWEBUI_LOG_LEVEL")
	}
	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Configure initialises the global zerolog logger exactly once. The level is set
// process-wide so SetLevel can change it later.
func Configure(cfg Config) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		base = New(cfg).Level(zerolog.TraceLevel)
		zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	})
}

// SetLevel changes the process-wide log level and returns the level applied.
func SetLevel(level string) zerolog.Level {
	parsed := ParseLevel(level)
	zerolog.SetGlobalLevel(parsed)
	return parsed
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}
