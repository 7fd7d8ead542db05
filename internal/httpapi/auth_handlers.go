// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
)

type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	WorkspaceID *string    `json:"workspace_id,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	resp := userResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
	if u.WorkspaceID != nil {
		ws := u.WorkspaceID.String()
		resp.WorkspaceID = &ws
	}
	return resp
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		respondDomainError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.SessionLifetime),
		User:      toUserResponse(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.Logout(r.Context(), bearerToken(r)); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if err := s.authService.LogoutAll(r.Context(), actor.ID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := actorFrom(r.Context())
	changed, err := s.authService.ChangePassword(r.Context(), actor.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !changed {
		respondError(w, http.StatusForbidden, "current password is incorrect")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toUserResponse(actorFrom(r.Context())))
}

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.IsAdmin() {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := auth.Role(strings.ToUpper(req.Role))
	if req.Role == "" {
		role = auth.RoleUser
	}
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}
	// Only super admins may mint other admins.
	if role != auth.RoleUser && !actor.IsSuperAdmin() {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	workspaceID := actor.WorkspaceID
	if req.WorkspaceID != "" {
		id, err := ulid.Parse(req.WorkspaceID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid workspace_id")
			return
		}
		workspaceID = &id
	}
	// Workspace admins create users in their own workspace only.
	if !actor.IsSuperAdmin() && (workspaceID == nil || !actor.InWorkspace(*workspaceID)) {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	user, err := s.authService.CreateUser(r.Context(), req.Username, req.DisplayName, req.Email, req.Password, role, workspaceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !actor.InWorkspace(workspaceID) {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	users, err := s.authService.ListWorkspaceUsers(r.Context(), workspaceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.IsAdmin() {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	userID, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	target, err := s.authService.GetUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !actor.IsSuperAdmin() && (target.WorkspaceID == nil || !actor.InWorkspace(*target.WorkspaceID)) {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	if err := s.authService.DeactivateUser(r.Context(), userID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if !actor.IsAdmin() {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	userID, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := s.authService.GetUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !actor.IsSuperAdmin() && (target.WorkspaceID == nil || !actor.InWorkspace(*target.WorkspaceID)) {
		respondError(w, http.StatusForbidden, "permission denied")
		return
	}

	if err := s.authService.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
