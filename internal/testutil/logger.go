package testutil

import (
	"io"
	"log/slog"
)

// QuietLogger returns a logger that only surfaces warnings and above,
// keeping integration test output readable.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
