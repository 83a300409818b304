// Package cmd implements the taskhive command-line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskhive",
	Short: "TaskHive - task management service with vector knowledge search",
	Long: `TaskHive is a task-management HTTP service backed by PostgreSQL.

It exposes a JSON API for per-user task CRUD with drag-reorder support,
pgvector-based similarity search over a knowledge base, and a WebSocket
change feed for live task updates.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called from main().
func Execute() error {
	slog.SetDefault(initLogger())
	return rootCmd.Execute()
}

// initLogger builds the process-wide logger.
// DEBUG env var (any value) enables debug level.
func initLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
