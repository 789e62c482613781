package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide slog.Logger. JSON output targets log
// aggregation in deployed environments; the pretty text handler keeps source
// locations for local work. Every record carries the service name so worker
// and API logs stay distinguishable in a shared stream.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	}
	return slog.New(handler).With(slog.String("service", "vendora"))
}
