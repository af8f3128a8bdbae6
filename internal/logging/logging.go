// Package logging configures the process-wide structured logger. The UI
// owns the terminal, so records never go to stdout or stderr; they go to a
// log file when one is configured and are dropped otherwise. When a Sentry
// DSN is set, warnings and errors are forwarded there as well.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config controls logger initialization.
type Config struct {
	Level     string
	File      string
	SentryDSN string
	Release   string
}

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init builds the process logger. Safe to skip entirely; the default logger
// discards everything.
func Init(cfg Config) error {
	var w io.Writer = io.Discard
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: cfg.Release,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		handler = sentryHandler{next: handler}
	}
	logger = slog.New(handler)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Flush drains buffered Sentry events. Call before exit.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }

// sentryHandler forwards warning and error records to Sentry after the
// wrapped handler writes them.
type sentryHandler struct {
	next slog.Handler
}

func (h sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h sentryHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelWarn {
		var sb strings.Builder
		sb.WriteString(rec.Message)
		rec.Attrs(func(a slog.Attr) bool {
			fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
			return true
		})
		event := sentry.NewEvent()
		event.Level = sentryLevel(rec.Level)
		event.Message = sb.String()
		sentry.CaptureEvent(event)
	}
	return h.next.Handle(ctx, rec)
}

func (h sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sentryHandler{next: h.next.WithAttrs(attrs)}
}

func (h sentryHandler) WithGroup(name string) slog.Handler {
	return sentryHandler{next: h.next.WithGroup(name)}
}

func sentryLevel(level slog.Level) sentry.Level {
	if level >= slog.LevelError {
		return sentry.LevelError
	}
	return sentry.LevelWarning
}
