// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
	"github.com/mm-cyberlabs/open-team-sub000/pkg/errutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps domain errors onto HTTP status codes. Unknown
// errors are logged and reported as a generic 500 so internals never leak
// to clients.
func respondDomainError(w http.ResponseWriter, err error) {
	var vErr *team.ValidationError

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, auth.ErrSessionInvalid):
		respondError(w, http.StatusUnauthorized, "session is not valid")
	case errors.Is(err, team.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, team.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "username already taken")
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, team.ErrInvalidTransition):
		respondError(w, http.StatusBadRequest, "invalid status transition")
	default:
		errutil.LogError(slog.Default(), "request failed", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
