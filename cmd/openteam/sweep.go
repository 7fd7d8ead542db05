// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	authpg "github.com/mm-cyberlabs/open-team-sub000/internal/auth/postgres"
	"github.com/mm-cyberlabs/open-team-sub000/internal/store"
)

// NewSweepCmd creates the sweep subcommand, a one-shot expired-session sweep
// for operators who run cleanup out of band instead of in the server.
func NewSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Invalidate all expired sessions once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := store.Open(ctx, cfg.Database.URL)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
			}
			defer pool.Close()

			authService, err := auth.NewService(
				authpg.NewUserRepository(pool),
				authpg.NewSessionRepository(pool),
				auth.NewBcryptHasher(),
			)
			if err != nil {
				return err
			}

			count, err := authService.SweepExpiredSessions(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("Invalidated %d expired session(s)\n", count)
			return nil
		},
	}
}
