// Package logging builds the CLI's structured logger: JSON lines in a
// rotating file, plus human-readable stderr output with --verbose.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/apimgr/hostscout/src/paths"
)

// Config holds logging configuration
type Config struct {
	Level    string // debug, info, warn, error (default: warn)
	File     string // log file path (empty = {log_dir}/cli.log)
	MaxSize  int    // max log file size in MB (default: 10)
	MaxFiles int    // max log files to keep (default: 5)

	// Verbose mirrors info and above to Stderr as text
	Verbose bool
	Stderr  io.Writer
}

// ParseLevel maps a level name to a slog level; unknown names mean warn
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns the logger for one CLI invocation and a closer for its file
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	logPath := cfg.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	logPath = paths.Expand(logPath)

	if err := paths.EnsureParent(logPath); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = 10
	}
	maxFiles := cfg.MaxFiles
	if maxFiles == 0 {
		maxFiles = 5
	}

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize, // MB
		MaxBackups: maxFiles,
		MaxAge:     30, // days
		Compress:   true,
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}),
	}
	if cfg.Verbose && cfg.Stderr != nil {
		handlers = append(handlers, slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return slog.New(Fanout(handlers...)), rotating, nil
}

// fanout sends each record to every handler that accepts its level
type fanout struct {
	handlers []slog.Handler
}

// Fanout combines handlers into one
func Fanout(handlers ...slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return &fanout{handlers: handlers}
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: next}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanout{handlers: next}
}
