// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	authpg "github.com/mm-cyberlabs/open-team-sub000/internal/auth/postgres"
	"github.com/mm-cyberlabs/open-team-sub000/internal/config"
	"github.com/mm-cyberlabs/open-team-sub000/internal/httpapi"
	"github.com/mm-cyberlabs/open-team-sub000/internal/logging"
	"github.com/mm-cyberlabs/open-team-sub000/internal/observability"
	"github.com/mm-cyberlabs/open-team-sub000/internal/store"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
	teampg "github.com/mm-cyberlabs/open-team-sub000/internal/team/postgres"
	"github.com/mm-cyberlabs/open-team-sub000/pkg/errutil"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OpenTeam API server",
		Long: `Start the REST API server together with the observability endpoints
and the periodic expired-session sweeper.`,
		RunE: runServe,
	}

	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("metrics.addr", "", "metrics listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("log.format", "", "log format (json or text)")
	cmd.Flags().String("sweep.schedule", "", "session sweep schedule (cron spec or @every duration)")
	cmd.Flags().Bool("auto-migrate", false, "run pending migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("openteam", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if autoMigrate, _ := cmd.Flags().GetBool("auto-migrate"); autoMigrate {
		if err := runMigrations(cfg.Database.URL); err != nil {
			return err
		}
	}

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

	teamService := team.NewService(team.ServiceConfig{
		WorkspaceRepo:    teampg.NewWorkspaceRepository(pool),
		AnnouncementRepo: teampg.NewAnnouncementRepository(pool),
		ActivityRepo:     teampg.NewActivityRepository(pool),
		TargetDateRepo:   teampg.NewTargetDateRepository(pool),
		DeploymentRepo:   teampg.NewDeploymentRepository(pool),
	})

	obsServer := observability.NewServer(cfg.Metrics.Addr, func() bool {
		return pool.Ping(ctx) == nil
	})
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
	}

	apiServer, err := httpapi.NewServer(httpapi.ServerConfig{
		Addr:        cfg.Server.Addr,
		AuthService: authService,
		TeamService: teamService,
		Metrics:     obsServer.Metrics(),
	})
	if err != nil {
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return oops.Code("API_START_FAILED").Wrap(err)
	}

	sweeper, err := startSweeper(ctx, cfg.Sweep.Schedule, authService, obsServer.Metrics(), logger)
	if err != nil {
		return err
	}

	logger.Info("openteam server running",
		"api_addr", apiServer.Addr(),
		"metrics_addr", obsServer.Addr(),
		"sweep_schedule", cfg.Sweep.Schedule)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-apiErrCh:
		if err != nil {
			errutil.LogError(logger, "api server failed", err)
		}
	case err := <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sweepCtx := sweeper.Stop()
	select {
	case <-sweepCtx.Done():
	case <-shutdownCtx.Done():
	}

	if err := apiServer.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "api server shutdown failed", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "observability server shutdown failed", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// startSweeper schedules the periodic expired-session sweep.
func startSweeper(ctx context.Context, schedule string, authService *auth.Service, metrics *observability.Metrics, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		count, err := authService.SweepExpiredSessions(ctx)
		if err != nil {
			errutil.LogError(logger, "session sweep failed", err)
			return
		}
		if metrics != nil {
			metrics.SessionsSwept.Add(float64(count))
		}
		if count > 0 {
			logger.Info("swept expired sessions", "count", count)
		}
	})
	if err != nil {
		return nil, oops.Code("SWEEP_SCHEDULE_INVALID").
			With("schedule", schedule).
			Wrap(err)
	}
	c.Start()
	return c, nil
}
