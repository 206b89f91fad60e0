// Package logging provides the zerolog setup shared by the gridsearch CLI.
// The library itself never touches a global logger; commands initialize this
// package from flags and hand L() to the search Config.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info.
	Level string

	// Format is the output format: json or console.
	// Default: console (searches are run interactively).
	Format string

	// Output is the writer for log output.
	// Default: os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

var (
	logger = zerolog.Nop()
	mu     sync.RWMutex
)

// Init configures the package logger. Safe to call multiple times;
// subsequent calls reconfigure it.
func Init(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}

	if cfg.Format == "" {
		cfg.Format = "console"
	}

	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	l := zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the configured logger. Before Init it is a no-op logger.
func L() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return logger
}

// Debug starts a debug-level message on the package logger.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()

	return logger.Debug()
}

// Info starts an info-level message on the package logger.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()

	return logger.Info()
}

// Warn starts a warn-level message on the package logger.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()

	return logger.Warn()
}

// Error starts an error-level message on the package logger.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()

	return logger.Error()
}

// NewTestLogger returns a logger writing JSON lines to w, for capturing log
// output in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// parseLevel converts a string level to zerolog.Level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
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
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// init keeps timestamps consistent across formats.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
