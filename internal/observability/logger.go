package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger. Log lines pick up trace ids
// through the TraceHandler wrapper when a span is active.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
