// Package logging is the structured logger shared by the tagtree packages.
// It is a small layer over log/slog in which every call takes the context
// first and warnings and errors take the error as a separate argument.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger interface for structured logging
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, err error, msg string, args ...any)
	Error(ctx context.Context, err error, msg string, args ...any)

	With(args ...any) Logger
	WithComponent(component string) Logger
}

// Config describes where records go and which ones are kept.
type Config struct {
	Level  slog.Level
	Format string    // "text" (default) or "json"
	Output io.Writer // os.Stderr when nil

	// Dir, when set, makes Open append every record to a dated file in
	// this directory as well.
	Dir string
}

// ParseLevel converts a configuration string into a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (supported: debug, info, warn, error)", s)
	}
}

type logger struct {
	base      *slog.Logger
	component string
}

// NewLogger returns a logger writing to cfg.Output. cfg.Dir is ignored;
// use Open for file output.
func NewLogger(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return &logger{base: slog.New(newHandler(out, cfg))}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return &logger{base: slog.New(slog.DiscardHandler)}
}

// Open builds the logger described by cfg. When cfg.Dir is set records
// are written to cfg.Output and to the day's file in cfg.Dir, and the
// returned close function closes that file. It must always be called.
func Open(cfg Config) (Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.Dir == "" {
		return NewLogger(cfg), noop, nil
	}

	if strings.Contains(filepath.Clean(cfg.Dir), "..") {
		return nil, noop, fmt.Errorf("log directory contains path traversal: %s", cfg.Dir)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, noop, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(cfg.Dir, logFileName(time.Now()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file: %w", err)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	handler := fanout{newHandler(out, cfg), newHandler(file, cfg)}

	return &logger{base: slog.New(handler)}, file.Close, nil
}

func logFileName(day time.Time) string {
	return "tagtree-" + day.Format("2006-01-02") + ".log"
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func (l *logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, nil, msg, args)
}

func (l *logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, nil, msg, args)
}

func (l *logger) Warn(ctx context.Context, err error, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, err, msg, args)
}

func (l *logger) Error(ctx context.Context, err error, msg string, args ...any) {
	l.log(ctx, slog.LevelError, err, msg, args)
}

func (l *logger) With(args ...any) Logger {
	return &logger{base: l.base.With(args...), component: l.component}
}

// WithComponent replaces the component rather than adding a second one.
func (l *logger) WithComponent(component string) Logger {
	return &logger{base: l.base, component: component}
}

func (l *logger) log(ctx context.Context, level slog.Level, err error, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.base.Enabled(ctx, level) {
		return
	}

	all := make([]any, 0, len(args)+4)
	if l.component != "" {
		all = append(all, "component", l.component)
	}
	if err != nil {
		all = append(all, "error", err.Error())
	}
	all = append(all, args...)

	l.base.Log(ctx, level, msg, all...)
}

// fanout hands every record to each of its handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Operation times one unit of work, such as a render.
type Operation struct {
	logger Logger
	name   string
	start  time.Time
}

// StartOperation starts the clock for the named operation
func StartOperation(l Logger, name string) *Operation {
	return &Operation{logger: l, name: name, start: time.Now()}
}

// End logs the operation's duration at debug level
func (o *Operation) End(ctx context.Context, args ...any) {
	elapsed := time.Since(o.start)
	all := append([]any{"operation", o.name, "elapsed_ms", elapsed.Milliseconds()}, args...)
	o.logger.Debug(ctx, o.name+" finished", all...)
}

// EndWithError logs a failed operation with its duration
func (o *Operation) EndWithError(ctx context.Context, err error) {
	elapsed := time.Since(o.start)
	o.logger.Error(ctx, err, o.name+" failed", "operation", o.name, "elapsed_ms", elapsed.Milliseconds())
}
