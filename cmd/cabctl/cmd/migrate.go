package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cabbie/internal/config"
	"cabbie/internal/infra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Sync()

		db, err := infra.OpenDatabase(cfg.Database, log)
		if err != nil {
			return err
		}
		defer infra.CloseDatabase(db, log)

		if err := infra.Migrate(db.WithContext(cmd.Context())); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.Database.Driver)
		return nil
	},
}
