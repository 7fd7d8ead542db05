// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mm-cyberlabs/open-team-sub000/internal/config"
	"github.com/mm-cyberlabs/open-team-sub000/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			cmd.Println("Running migrations...")
			if err := runMigrations(cfg.Database.URL); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			migrator, err := store.NewMigrator(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer migrator.Close() //nolint:errcheck // close error is not actionable here
			if err := migrator.Down(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
			}
			cmd.Println("Rollback completed successfully")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			migrator, err := store.NewMigrator(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer migrator.Close() //nolint:errcheck // close error is not actionable here
			version, dirty, err := migrator.Version()
			if err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "read migration version").Wrap(err)
			}
			if version == 0 {
				cmd.Println("No migrations applied")
				return nil
			}
			cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}

// loadDatabaseConfig loads configuration and checks the database URL only,
// for subcommands that never start listeners.
func loadDatabaseConfig() (config.Config, error) {
	cfg, err := config.Load(resolveConfigFile(), nil)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Database.URL == "" {
		return config.Config{}, oops.Code("CONFIG_INVALID").Errorf("database.url is required (or set DATABASE_URL)")
	}
	return cfg, nil
}

func runMigrations(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close error is not actionable here
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return nil
}
