package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Applies all pending schema migrations to the configured PostgreSQL
database. Migrations are embedded in the binary and tracked in the
schema_migrations table; already-applied migrations are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return db.Migrate(cfg.PostgresURL())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
