package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type contextKey struct{}

// Setup installs the default logger. Output goes to w so that commands
// can keep stdout for results.
func Setup(w io.Writer, level string, format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// WithParserID tags every log line made through FromContext with the id
// of the parser serving the request.
func WithParserID(ctx context.Context, parserID string) context.Context {
	return context.WithValue(ctx, contextKey{}, parserID)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if parserID, ok := ctx.Value(contextKey{}).(string); ok {
		logger = logger.With("parser_id", parserID)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
