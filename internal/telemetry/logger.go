// Package telemetry sets up structured logging and the side server that
// exposes Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// LoggerOptions controls InitLogger.
type LoggerOptions struct {
	Debug   bool
	LogFile string
	// Output defaults to stderr so command output on stdout stays clean.
	Output io.Writer
	Attrs  []slog.Attr
}

// InitLogger installs a JSON slog logger as the default. When a log file is
// given every record is written to it as well. The returned closer releases
// the file.
func InitLogger(opts LoggerOptions) (io.Closer, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewJSONHandler(out, hopts)}

	var closer io.Closer = nopCloser{}
	var fileErr error
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fileErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(f, hopts))
			closer = f
		}
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = &multiHandler{handlers: handlers}
	}
	if len(opts.Attrs) > 0 {
		handler = handler.WithAttrs(opts.Attrs)
	}
	slog.SetDefault(slog.New(handler))

	if fileErr != nil {
		slog.Error("Failed to open log file", "path", opts.LogFile, "error", fileErr)
	}
	return closer, fileErr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans records out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: out}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: out}
}

// LogDebug logs a debug message.
func LogDebug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// LogInfo logs an info message.
func LogInfo(msg string, args ...any) {
	slog.Info(msg, args...)
}

// LogError logs an error message.
func LogError(msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
}
