package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/campus-booking/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		return persistence.RunMigrations(cfg.Postgres.DSN, logger)
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
		return persistence.RollbackMigrations(cfg.Postgres.DSN, migrateDownSteps, logger)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to revert")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
