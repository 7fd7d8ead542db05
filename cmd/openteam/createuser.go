// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	authpg "github.com/mm-cyberlabs/open-team-sub000/internal/auth/postgres"
	"github.com/mm-cyberlabs/open-team-sub000/internal/store"
	teampg "github.com/mm-cyberlabs/open-team-sub000/internal/team/postgres"
)

// createUserConfig holds flags for the create-user command.
type createUserConfig struct {
	username    string
	displayName string
	email       string
	password    string
	role        string
	workspace   string
}

// NewCreateUserCmd creates the create-user subcommand, used to bootstrap the
// first super admin before the API has any account that could mint one.
func NewCreateUserCmd() *cobra.Command {
	cfg := &createUserConfig{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account directly in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateUser(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.username, "username", "", "login username (required)")
	cmd.Flags().StringVar(&cfg.displayName, "display-name", "", "display name")
	cmd.Flags().StringVar(&cfg.email, "email", "", "email address")
	cmd.Flags().StringVar(&cfg.password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&cfg.role, "role", string(auth.RoleUser), "role: USER, ADMIN, or SUPER_ADMIN")
	cmd.Flags().StringVar(&cfg.workspace, "workspace", "", "workspace slug; empty for unscoped accounts")
	_ = cmd.MarkFlagRequired("username") //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is registered above

	return cmd
}

func runCreateUser(cmd *cobra.Command, _ []string, cfg *createUserConfig) error {
	appCfg, err := loadDatabaseConfig()
	if err != nil {
		return err
	}

	role := auth.Role(cfg.role)
	if !role.Valid() {
		return oops.Code("CONFIG_INVALID").With("role", cfg.role).Errorf("unknown role")
	}

	ctx := cmd.Context()
	pool, err := store.Open(ctx, appCfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	var workspaceID *ulid.ULID
	if cfg.workspace != "" {
		ws, err := teampg.NewWorkspaceRepository(pool).GetBySlug(ctx, cfg.workspace)
		if err != nil {
			return oops.Code("CREATE_USER_FAILED").
				With("operation", "resolve workspace").
				With("workspace", cfg.workspace).
				Wrap(err)
		}
		workspaceID = &ws.ID
	}

	authService, err := auth.NewService(
		authpg.NewUserRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewBcryptHasher(),
	)
	if err != nil {
		return err
	}

	user, err := authService.CreateUser(ctx, cfg.username, cfg.displayName, cfg.email, cfg.password, role, workspaceID)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return oops.Code("CREATE_USER_FAILED").With("username", cfg.username).Errorf("username already taken")
		}
		return err
	}

	cmd.Printf("Created user %s (%s)\n", user.Username, user.ID)
	return nil
}
