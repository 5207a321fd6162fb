package app

import (
	"log/slog"
	"os"

	"medtrack/internal/logx"
)

// NewLogger builds the process-wide JSON logger at info level.
func NewLogger() logx.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return logx.NewSlogAdapter(slog.New(h))
}
