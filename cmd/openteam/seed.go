// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	authpg "github.com/mm-cyberlabs/open-team-sub000/internal/auth/postgres"
	"github.com/mm-cyberlabs/open-team-sub000/internal/store"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
	teampg "github.com/mm-cyberlabs/open-team-sub000/internal/team/postgres"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedFile is the YAML layout of a seed definition.
type seedFile struct {
	Workspaces []seedWorkspace `yaml:"workspaces"`
	Users      []seedUser      `yaml:"users"`
}

type seedWorkspace struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type seedUser struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	Role        string `yaml:"role"`
	Workspace   string `yaml:"workspace"` // slug; empty for unscoped accounts
}

type seedConfig struct {
	file    string
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed workspaces and accounts from a YAML file",
		Long: `Creates the workspaces and user accounts described in a seed file.
This command is idempotent - existing workspaces and usernames are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "seed.yaml", "path to the seed file")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := loadDatabaseConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(cfg.file)
	if err != nil {
		return oops.Code("SEED_FAILED").With("file", cfg.file).Wrap(err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return oops.Code("SEED_FAILED").With("operation", "parse seed file").Wrap(err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Open(ctx, appCfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	workspaceRepo := teampg.NewWorkspaceRepository(pool)
	userRepo := authpg.NewUserRepository(pool)
	authService, err := auth.NewService(userRepo, authpg.NewSessionRepository(pool), auth.NewBcryptHasher())
	if err != nil {
		return err
	}

	slugs := make(map[string]*team.Workspace, len(seed.Workspaces))
	for _, sw := range seed.Workspaces {
		existing, err := workspaceRepo.GetBySlug(ctx, sw.Slug)
		if err == nil {
			cmd.Printf("Workspace %q already exists, skipping\n", sw.Slug)
			slugs[sw.Slug] = existing
			continue
		}
		if !errors.Is(err, team.ErrNotFound) {
			return oops.Code("SEED_FAILED").With("operation", "look up workspace").With("slug", sw.Slug).Wrap(err)
		}

		ws, err := team.NewWorkspace(sw.Name, sw.Slug)
		if err != nil {
			return oops.Code("SEED_FAILED").With("slug", sw.Slug).Wrap(err)
		}
		if err := workspaceRepo.Create(ctx, ws); err != nil {
			return oops.Code("SEED_FAILED").With("operation", "create workspace").With("slug", sw.Slug).Wrap(err)
		}
		cmd.Printf("Created workspace %q\n", sw.Slug)
		slugs[sw.Slug] = ws
	}

	for _, su := range seed.Users {
		if _, err := userRepo.GetByUsername(ctx, su.Username); err == nil {
			cmd.Printf("User %q already exists, skipping\n", su.Username)
			continue
		} else if !errors.Is(err, auth.ErrNotFound) {
			return oops.Code("SEED_FAILED").With("operation", "look up user").With("username", su.Username).Wrap(err)
		}

		role := auth.Role(su.Role)
		if su.Role == "" {
			role = auth.RoleUser
		}

		var workspaceID *ulid.ULID
		if su.Workspace != "" {
			ws, ok := slugs[su.Workspace]
			if !ok {
				found, err := workspaceRepo.GetBySlug(ctx, su.Workspace)
				if err != nil {
					return oops.Code("SEED_FAILED").
						With("operation", "resolve user workspace").
						With("workspace", su.Workspace).
						Wrap(err)
				}
				ws = found
			}
			workspaceID = &ws.ID
		}

		if _, err := authService.CreateUser(ctx, su.Username, su.DisplayName, su.Email, su.Password, role, workspaceID); err != nil {
			if errors.Is(err, auth.ErrUsernameTaken) {
				cmd.Printf("User %q already exists, skipping\n", su.Username)
				continue
			}
			return oops.Code("SEED_FAILED").With("operation", "create user").With("username", su.Username).Wrap(err)
		}
		cmd.Printf("Created user %q\n", su.Username)
	}

	cmd.Println("Seed completed successfully")
	return nil
}
