package cmd

import (
	"fmt"

	"github.com/eehealth/api/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, false)
		},
	})
	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, true)
		},
	})

	return migrate
}

func runMigrate(cmd *cobra.Command, down bool) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	if down {
		err = db.MigrateDown(ctx, database.DB, cfg.DBDriver)
	} else {
		err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	}
	if err != nil {
		return err
	}

	version, err := db.SchemaVersion(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return fmt.Errorf("migrations applied but version unknown: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), map[string]int64{"version": version})
}
