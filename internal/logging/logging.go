// ABOUTME: Structured logging setup for ifgram.
// ABOUTME: slog front end over zerolog writing to a file, optionally fanned out to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Options controls where and how much is logged.
type Options struct {
	Level   string
	File    string
	Verbose bool // also log to stderr
}

// Logger wraps the slog logger with the file it writes to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New opens (or creates) the log file and returns a logger writing to it.
// The TUI owns the terminal, so stderr only receives records when Verbose is set.
func New(opts Options) (*Logger, error) {
	level := ParseLevel(opts.Level)

	var out io.Writer = io.Discard
	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		file = f
	}

	handlers := []slog.Handler{newHandler(out, level)}
	if opts.Verbose {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		handlers = append(handlers, newHandler(console, level))
	}

	return &Logger{
		Logger: slog.New(slogmulti.Fanout(handlers...)),
		file:   file,
	}, nil
}

// NewWriter returns a logger that writes JSON lines to w. Used by tests.
func NewWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(newHandler(w, ParseLevel(level)))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(newHandler(io.Discard, slog.LevelError))
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
