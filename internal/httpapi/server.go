// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	"github.com/mm-cyberlabs/open-team-sub000/internal/observability"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
)

// Server serves the JSON API for authentication and team operations.
type Server struct {
	addr        string
	authService *auth.Service
	teamService *team.Service
	metrics     *observability.Metrics
	listener    net.Listener
	httpServer  *http.Server
	running     atomic.Bool
}

// ServerConfig bundles the dependencies for NewServer.
type ServerConfig struct {
	Addr        string
	AuthService *auth.Service
	TeamService *team.Service
	Metrics     *observability.Metrics
}

// NewServer creates a new API server. Metrics may be nil.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.AuthService == nil {
		return nil, oops.Code("API_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if cfg.TeamService == nil {
		return nil, oops.Code("API_NIL_DEPENDENCY").Errorf("team service is required")
	}

	return &Server{
		addr:        cfg.Addr,
		authService: cfg.AuthService,
		teamService: cfg.TeamService,
		metrics:     cfg.Metrics,
	}, nil
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/logout", s.requireSession(s.handleLogout))
	mux.HandleFunc("POST /api/v1/logout-all", s.requireSession(s.handleLogoutAll))
	mux.HandleFunc("POST /api/v1/password", s.requireSession(s.handleChangePassword))
	mux.HandleFunc("GET /api/v1/me", s.requireSession(s.handleMe))

	mux.HandleFunc("POST /api/v1/users", s.requireSession(s.handleCreateUser))
	mux.HandleFunc("GET /api/v1/users", s.requireSession(s.handleListUsers))
	mux.HandleFunc("DELETE /api/v1/users/{id}", s.requireSession(s.handleDeactivateUser))
	mux.HandleFunc("POST /api/v1/users/{id}/password-reset", s.requireSession(s.handleResetPassword))

	mux.HandleFunc("POST /api/v1/workspaces", s.requireSession(s.handleCreateWorkspace))
	mux.HandleFunc("GET /api/v1/workspaces", s.requireSession(s.handleListWorkspaces))
	mux.HandleFunc("DELETE /api/v1/workspaces/{id}", s.requireSession(s.handleDeactivateWorkspace))

	mux.HandleFunc("POST /api/v1/announcements", s.requireSession(s.handleCreateAnnouncement))
	mux.HandleFunc("GET /api/v1/announcements", s.requireSession(s.handleListAnnouncements))
	mux.HandleFunc("GET /api/v1/announcements/{id}", s.requireSession(s.handleGetAnnouncement))
	mux.HandleFunc("PUT /api/v1/announcements/{id}", s.requireSession(s.handleUpdateAnnouncement))
	mux.HandleFunc("DELETE /api/v1/announcements/{id}", s.requireSession(s.handleDeleteAnnouncement))

	mux.HandleFunc("POST /api/v1/activities", s.requireSession(s.handleCreateActivity))
	mux.HandleFunc("GET /api/v1/activities", s.requireSession(s.handleListActivities))
	mux.HandleFunc("GET /api/v1/activities/{id}", s.requireSession(s.handleGetActivity))
	mux.HandleFunc("PUT /api/v1/activities/{id}/status", s.requireSession(s.handleUpdateActivityStatus))
	mux.HandleFunc("DELETE /api/v1/activities/{id}", s.requireSession(s.handleDeleteActivity))

	mux.HandleFunc("POST /api/v1/target-dates", s.requireSession(s.handleCreateTargetDate))
	mux.HandleFunc("GET /api/v1/target-dates", s.requireSession(s.handleListTargetDates))
	mux.HandleFunc("PUT /api/v1/target-dates/{id}/status", s.requireSession(s.handleUpdateTargetStatus))
	mux.HandleFunc("DELETE /api/v1/target-dates/{id}", s.requireSession(s.handleDeleteTargetDate))

	mux.HandleFunc("POST /api/v1/deployments", s.requireSession(s.handleCreateDeployment))
	mux.HandleFunc("GET /api/v1/deployments", s.requireSession(s.handleListDeployments))
	mux.HandleFunc("GET /api/v1/deployments/{id}", s.requireSession(s.handleGetDeployment))
	mux.HandleFunc("PUT /api/v1/deployments/{id}/status", s.requireSession(s.handleUpdateDeploymentStatus))
	mux.HandleFunc("DELETE /api/v1/deployments/{id}", s.requireSession(s.handleDeleteDeployment))

	return countRequests(s.metrics, mux)
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after startup; the channel is closed on
// graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown api server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
