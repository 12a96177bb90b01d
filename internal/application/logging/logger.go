package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a discarding logger if not found
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}

// New builds a slog logger. format is "json" or "text"; unknown levels fall back to info.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a configured level name onto a slog level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Attribute helpers

// Error returns an empty attribute for nil errors so callers can skip nil checks
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestType(name string) slog.Attr {
	return slog.String("request_type", name)
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func MovieID(id int) slog.Attr {
	return slog.Int("movie_id", id)
}

func EpisodeID(id int) slog.Attr {
	return slog.Int("episode_id", id)
}
