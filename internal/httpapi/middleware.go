// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	"github.com/mm-cyberlabs/open-team-sub000/internal/observability"
)

type contextKey string

const actorKey contextKey = "openteam.actor"

// actorFrom returns the authenticated user stored by requireSession, or nil
// when the request never passed through the middleware.
func actorFrom(ctx context.Context) *auth.User {
	user, _ := ctx.Value(actorKey).(*auth.User)
	return user
}

// requireSession validates the Bearer token on the request and attaches the
// authenticated user to the request context. Requests without a valid
// session are rejected with 401.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := s.authService.ValidateSession(r.Context(), token)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, user)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// countRequests records per-request metrics when a metrics sink is wired.
func countRequests(metrics *observability.Metrics, next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}
