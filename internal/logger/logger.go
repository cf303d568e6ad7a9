// Package logger is the process-wide structured logger. Command output goes
// to stdout; log lines go to stderr so they never mix with machine-readable
// results.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds logger configuration
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	format  = "text"
	slogger *slog.Logger

	output   io.Writer = os.Stderr
	useColor bool      = term.IsTerminal(int(os.Stderr.Fd()))
)

func init() {
	level.Set(slog.LevelWarn)
	reconfigure()
}

// reconfigure rebuilds the handler from the current settings.
func reconfigure() {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = NewColorTextHandler(output, opts, useColor)
	}
	slogger = slog.New(handler)
}

// Init configures the logger. Empty fields keep their current value.
func Init(cfg Config) error {
	if cfg.Output != "" {
		var (
			w     io.Writer
			color bool
		)
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			w, color = os.Stdout, term.IsTerminal(int(os.Stdout.Fd()))
		case "stderr":
			w, color = os.Stderr, term.IsTerminal(int(os.Stderr.Fd()))
		default:
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
			}
			w, color = f, false
		}

		mu.Lock()
		output, useColor = w, color
		mu.Unlock()
	}

	if cfg.Level != "" {
		if err := SetLevel(cfg.Level); err != nil {
			return err
		}
	}
	if cfg.Format != "" {
		if err := SetFormat(cfg.Format); err != nil {
			return err
		}
	}

	reconfigure()
	return nil
}

// InitWithWriter points the logger at w. Used by tests.
func InitWithWriter(w io.Writer, logLevel, logFormat string, enableColor bool) {
	mu.Lock()
	output = w
	useColor = enableColor
	mu.Unlock()

	_ = SetLevel(logLevel)
	_ = SetFormat(logFormat)
	reconfigure()
}

// DisableColor turns off level colouring, as --no-color asks.
func DisableColor() {
	mu.Lock()
	useColor = false
	mu.Unlock()
	reconfigure()
}

// ParseLevel maps DEBUG, INFO, WARN or ERROR (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel sets the minimum level. An empty string is ignored.
func SetLevel(s string) error {
	if s == "" {
		return nil
	}
	l, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

// SetFormat switches between text and json output. An empty string is ignored.
func SetFormat(f string) error {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "":
		return nil
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", f)
	}

	mu.Lock()
	format = f
	mu.Unlock()
	reconfigure()
	return nil
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level.
// Usage: Debug("message", "key1", value1, "key2", value2)
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a logger with pre-bound attributes.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}
