// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
)

// workspaceIDForRequest resolves the workspace a list request targets: the
// workspace_id query parameter when present, the actor's own workspace
// otherwise.
func workspaceIDForRequest(actor *auth.User, r *http.Request) (ulid.ULID, error) {
	if raw := r.URL.Query().Get("workspace_id"); raw != "" {
		id, err := ulid.Parse(raw)
		if err != nil {
			return ulid.ULID{}, errors.New("invalid workspace_id")
		}
		return id, nil
	}
	if actor.WorkspaceID == nil {
		return ulid.ULID{}, errors.New("workspace_id is required")
	}
	return *actor.WorkspaceID, nil
}

func pathID(r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(r.PathValue("id"))
	return id, err == nil
}

// --- Workspaces ---

type workspaceRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type workspaceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toWorkspaceResponse(ws *team.Workspace) workspaceResponse {
	return workspaceResponse{
		ID:        ws.ID.String(),
		Name:      ws.Name,
		Slug:      ws.Slug,
		Active:    ws.Active,
		CreatedAt: ws.CreatedAt,
	}
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req workspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := s.teamService.CreateWorkspace(r.Context(), actorFrom(r.Context()), req.Name, req.Slug)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toWorkspaceResponse(ws))
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.teamService.ListWorkspaces(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	resp := make([]workspaceResponse, 0, len(list))
	for _, ws := range list {
		resp = append(resp, toWorkspaceResponse(ws))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid workspace id")
		return
	}
	if err := s.teamService.DeactivateWorkspace(r.Context(), actorFrom(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// --- Announcements ---

type announcementRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Priority  string     `json:"priority,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type announcementResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	AuthorID    string     `json:"author_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Priority    string     `json:"priority"`
	PublishedAt time.Time  `json:"published_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toAnnouncementResponse(a *team.Announcement) announcementResponse {
	return announcementResponse{
		ID:          a.ID.String(),
		WorkspaceID: a.WorkspaceID.String(),
		AuthorID:    a.AuthorID.String(),
		Title:       a.Title,
		Body:        a.Body,
		Priority:    string(a.Priority),
		PublishedAt: a.PublishedAt,
		ExpiresAt:   a.ExpiresAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.teamService.CreateAnnouncement(r.Context(), actor, workspaceID, req.Title, req.Body, team.Priority(strings.ToUpper(req.Priority)))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt
		if err := s.teamService.UpdateAnnouncement(r.Context(), actor, a); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusCreated, toAnnouncementResponse(a))
}

func (s *Server) handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}
	a, err := s.teamService.GetAnnouncement(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAnnouncementResponse(a))
}

func (s *Server) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}

	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := actorFrom(r.Context())
	a, err := s.teamService.GetAnnouncement(r.Context(), actor, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	a.Title = req.Title
	a.Body = req.Body
	if req.Priority != "" {
		a.Priority = team.Priority(strings.ToUpper(req.Priority))
	}
	a.ExpiresAt = req.ExpiresAt
	a.UpdatedAt = time.Now()

	if err := s.teamService.UpdateAnnouncement(r.Context(), actor, a); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAnnouncementResponse(a))
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid announcement id")
		return
	}
	if err := s.teamService.DeleteAnnouncement(r.Context(), actorFrom(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.teamService.ListAnnouncements(r.Context(), actor, workspaceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	resp := make([]announcementResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toAnnouncementResponse(a))
	}
	respondJSON(w, http.StatusOK, resp)
}

// --- Activities ---

type activityRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

type activityResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toActivityResponse(a *team.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID.String(),
		WorkspaceID: a.WorkspaceID.String(),
		OwnerID:     a.OwnerID.String(),
		Title:       a.Title,
		Description: a.Description,
		Status:      string(a.Status),
		DueAt:       a.DueAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := s.teamService.CreateActivity(r.Context(), actor, workspaceID, req.Title, req.Description, req.DueAt)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toActivityResponse(a))
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	a, err := s.teamService.GetActivity(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toActivityResponse(a))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateActivityStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next := team.ActivityStatus(strings.ToUpper(req.Status))
	if err := s.teamService.UpdateActivityStatus(r.Context(), actorFrom(r.Context()), id, next); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	if err := s.teamService.DeleteActivity(r.Context(), actorFrom(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.teamService.ListActivities(r.Context(), actor, workspaceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	resp := make([]activityResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toActivityResponse(a))
	}
	respondJSON(w, http.StatusOK, resp)
}

// --- Target dates ---

type targetDateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetOn    string `json:"target_on"` // YYYY-MM-DD
}

type targetDateResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetOn    string    `json:"target_on"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTargetDateResponse(td *team.TargetDate) targetDateResponse {
	return targetDateResponse{
		ID:          td.ID.String(),
		WorkspaceID: td.WorkspaceID.String(),
		Title:       td.Title,
		Description: td.Description,
		TargetOn:    td.TargetOn.Format(time.DateOnly),
		Status:      string(td.Status),
		CreatedAt:   td.CreatedAt,
		UpdatedAt:   td.UpdatedAt,
	}
}

func (s *Server) handleCreateTargetDate(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req targetDateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	targetOn, err := time.Parse(time.DateOnly, req.TargetOn)
	if err != nil {
		respondError(w, http.StatusBadRequest, "target_on must be YYYY-MM-DD")
		return
	}

	td, err := s.teamService.CreateTargetDate(r.Context(), actor, workspaceID, req.Title, req.Description, targetOn)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTargetDateResponse(td))
}

func (s *Server) handleUpdateTargetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid target date id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next := team.TargetStatus(strings.ToUpper(req.Status))
	if err := s.teamService.UpdateTargetStatus(r.Context(), actorFrom(r.Context()), id, next); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteTargetDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid target date id")
		return
	}
	if err := s.teamService.DeleteTargetDate(r.Context(), actorFrom(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListTargetDates(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.teamService.ListTargetDates(r.Context(), actor, workspaceID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	resp := make([]targetDateResponse, 0, len(list))
	for _, td := range list {
		resp = append(resp, toTargetDateResponse(td))
	}
	respondJSON(w, http.StatusOK, resp)
}

// --- Deployments ---

type deploymentRequest struct {
	Component   string    `json:"component"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes,omitempty"`
}

type deploymentResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	DeployedBy  string     `json:"deployed_by"`
	Component   string     `json:"component"`
	Version     string     `json:"version"`
	Environment string     `json:"environment"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toDeploymentResponse(d *team.Deployment) deploymentResponse {
	return deploymentResponse{
		ID:          d.ID.String(),
		WorkspaceID: d.WorkspaceID.String(),
		DeployedBy:  d.DeployedBy.String(),
		Component:   d.Component,
		Version:     d.Version,
		Environment: string(d.Environment),
		Status:      string(d.Status),
		ScheduledAt: d.ScheduledAt,
		CompletedAt: d.CompletedAt,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Server) handleCreateDeployment(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req deploymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	env := team.Environment(strings.ToUpper(req.Environment))
	d, err := s.teamService.CreateDeployment(r.Context(), actor, workspaceID, req.Component, req.Version, env, req.ScheduledAt, req.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDeploymentResponse(d))
}

func (s *Server) handleGetDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}
	d, err := s.teamService.GetDeployment(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeploymentResponse(d))
}

func (s *Server) handleUpdateDeploymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next := team.DeploymentStatus(strings.ToUpper(req.Status))
	if err := s.teamService.UpdateDeploymentStatus(r.Context(), actorFrom(r.Context()), id, next); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteDeployment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}
	if err := s.teamService.DeleteDeployment(r.Context(), actorFrom(r.Context()), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListDeployments(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	workspaceID, err := workspaceIDForRequest(actor, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var list []*team.Deployment
	if component := r.URL.Query().Get("component"); component != "" {
		list, err = s.teamService.ListComponentDeployments(r.Context(), actor, workspaceID, component)
	} else {
		list, err = s.teamService.ListDeployments(r.Context(), actor, workspaceID)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]deploymentResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, toDeploymentResponse(d))
	}
	respondJSON(w, http.StatusOK, resp)
}
