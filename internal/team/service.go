// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	WorkspaceRepo    WorkspaceRepository
	AnnouncementRepo AnnouncementRepository
	ActivityRepo     ActivityRepository
	TargetDateRepo   TargetDateRepository
	DeploymentRepo   DeploymentRepository
}

// Service provides authorized access to team records. Every operation takes
// the acting user explicitly and checks workspace membership before
// delegating to repositories.
type Service struct {
	workspaces    WorkspaceRepository
	announcements AnnouncementRepository
	activities    ActivityRepository
	targetDates   TargetDateRepository
	deployments   DeploymentRepository
}

// NewService creates a new Service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		workspaces:    cfg.WorkspaceRepo,
		announcements: cfg.AnnouncementRepo,
		activities:    cfg.ActivityRepo,
		targetDates:   cfg.TargetDateRepo,
		deployments:   cfg.DeploymentRepo,
	}
}

// requireMember checks that the actor may touch records in the workspace.
func requireMember(actor *auth.User, workspaceID ulid.ULID) error {
	if actor == nil || !actor.InWorkspace(workspaceID) {
		return ErrPermissionDenied
	}
	return nil
}

// requireAdmin checks that the actor is an admin of the workspace.
func requireAdmin(actor *auth.User, workspaceID ulid.ULID) error {
	if actor == nil || !actor.IsAdmin() || !actor.InWorkspace(workspaceID) {
		return ErrPermissionDenied
	}
	return nil
}

// --- Workspaces ---

// CreateWorkspace creates a workspace. Super admin only.
func (s *Service) CreateWorkspace(ctx context.Context, actor *auth.User, name, slug string) (*Workspace, error) {
	if actor == nil || !actor.IsSuperAdmin() {
		return nil, ErrPermissionDenied
	}
	ws, err := NewWorkspace(name, slug)
	if err != nil {
		return nil, err
	}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, oops.Wrapf(err, "create workspace %s", ws.Slug)
	}
	return ws, nil
}

// GetWorkspace retrieves a workspace the actor belongs to.
func (s *Service) GetWorkspace(ctx context.Context, actor *auth.User, id ulid.ULID) (*Workspace, error) {
	if err := requireMember(actor, id); err != nil {
		return nil, err
	}
	ws, err := s.workspaces.Get(ctx, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get workspace %s", id)
	}
	return ws, nil
}

// ListWorkspaces returns every active workspace for super admins, and only
// the actor's own workspace for everyone else.
func (s *Service) ListWorkspaces(ctx context.Context, actor *auth.User) ([]*Workspace, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}
	if actor.IsSuperAdmin() {
		all, err := s.workspaces.List(ctx)
		if err != nil {
			return nil, oops.Wrapf(err, "list workspaces")
		}
		return all, nil
	}
	if actor.WorkspaceID == nil {
		return nil, nil
	}
	ws, err := s.workspaces.Get(ctx, *actor.WorkspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "get workspace %s", *actor.WorkspaceID)
	}
	return []*Workspace{ws}, nil
}

// DeactivateWorkspace soft-deletes a workspace. Super admin only.
func (s *Service) DeactivateWorkspace(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	if actor == nil || !actor.IsSuperAdmin() {
		return ErrPermissionDenied
	}
	if err := s.workspaces.Deactivate(ctx, id); err != nil {
		return oops.Wrapf(err, "deactivate workspace %s", id)
	}
	return nil
}

// --- Announcements ---

// CreateAnnouncement publishes an announcement in the actor's workspace.
func (s *Service) CreateAnnouncement(ctx context.Context, actor *auth.User, workspaceID ulid.ULID, title, body string, priority Priority) (*Announcement, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	a, err := NewAnnouncement(workspaceID, actor.ID, title, body, priority)
	if err != nil {
		return nil, err
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, oops.Wrapf(err, "create announcement %s", a.ID)
	}
	return a, nil
}

// GetAnnouncement retrieves an announcement in a workspace the actor can see.
func (s *Service) GetAnnouncement(ctx context.Context, actor *auth.User, id ulid.ULID) (*Announcement, error) {
	a, err := s.announcements.Get(ctx, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get announcement %s", id)
	}
	if err := requireMember(actor, a.WorkspaceID); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAnnouncement modifies title, body, priority, or expiry. The author
// or a workspace admin may update.
func (s *Service) UpdateAnnouncement(ctx context.Context, actor *auth.User, a *Announcement) error {
	existing, err := s.announcements.Get(ctx, a.ID)
	if err != nil {
		return oops.Wrapf(err, "get announcement %s", a.ID)
	}
	if err := requireMember(actor, existing.WorkspaceID); err != nil {
		return err
	}
	if existing.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := ValidateTitle(a.Title); err != nil {
		return err
	}
	if err := ValidateBody(a.Body); err != nil {
		return err
	}
	if err := s.announcements.Update(ctx, a); err != nil {
		return oops.Wrapf(err, "update announcement %s", a.ID)
	}
	return nil
}

// DeleteAnnouncement soft-deletes an announcement. The author or a
// workspace admin may delete.
func (s *Service) DeleteAnnouncement(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	existing, err := s.announcements.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get announcement %s", id)
	}
	if err := requireMember(actor, existing.WorkspaceID); err != nil {
		return err
	}
	if existing.AuthorID != actor.ID && !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.announcements.Deactivate(ctx, id); err != nil {
		return oops.Wrapf(err, "deactivate announcement %s", id)
	}
	return nil
}

// ListAnnouncements returns active announcements in the workspace.
func (s *Service) ListAnnouncements(ctx context.Context, actor *auth.User, workspaceID ulid.ULID) ([]*Announcement, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.announcements.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "list announcements in workspace %s", workspaceID)
	}
	return list, nil
}

// --- Activities ---

// CreateActivity creates an activity owned by the actor.
func (s *Service) CreateActivity(ctx context.Context, actor *auth.User, workspaceID ulid.ULID, title, description string, dueAt *time.Time) (*Activity, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	a, err := NewActivity(workspaceID, actor.ID, title, description, dueAt)
	if err != nil {
		return nil, err
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, oops.Wrapf(err, "create activity %s", a.ID)
	}
	return a, nil
}

// GetActivity retrieves an activity in a workspace the actor can see.
func (s *Service) GetActivity(ctx context.Context, actor *auth.User, id ulid.ULID) (*Activity, error) {
	a, err := s.activities.Get(ctx, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get activity %s", id)
	}
	if err := requireMember(actor, a.WorkspaceID); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateActivityStatus moves an activity through its lifecycle, validating
// the transition.
func (s *Service) UpdateActivityStatus(ctx context.Context, actor *auth.User, id ulid.ULID, next ActivityStatus) error {
	a, err := s.activities.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get activity %s", id)
	}
	if err := requireMember(actor, a.WorkspaceID); err != nil {
		return err
	}
	if !a.Status.CanTransitionTo(next) {
		return oops.Code("TEAM_INVALID_TRANSITION").
			With("from", string(a.Status)).
			With("to", string(next)).
			Wrap(ErrInvalidTransition)
	}
	a.Status = next
	a.UpdatedAt = time.Now()
	if err := s.activities.Update(ctx, a); err != nil {
		return oops.Wrapf(err, "update activity %s", id)
	}
	return nil
}

// DeleteActivity soft-deletes an activity. The owner or an admin may delete.
func (s *Service) DeleteActivity(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	a, err := s.activities.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get activity %s", id)
	}
	if err := requireMember(actor, a.WorkspaceID); err != nil {
		return err
	}
	if a.OwnerID != actor.ID && !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	if err := s.activities.Deactivate(ctx, id); err != nil {
		return oops.Wrapf(err, "deactivate activity %s", id)
	}
	return nil
}

// ListActivities returns active activities in the workspace.
func (s *Service) ListActivities(ctx context.Context, actor *auth.User, workspaceID ulid.ULID) ([]*Activity, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.activities.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "list activities in workspace %s", workspaceID)
	}
	return list, nil
}

// --- Target dates ---

// CreateTargetDate creates a milestone in the workspace.
func (s *Service) CreateTargetDate(ctx context.Context, actor *auth.User, workspaceID ulid.ULID, title, description string, targetOn time.Time) (*TargetDate, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	td, err := NewTargetDate(workspaceID, title, description, targetOn)
	if err != nil {
		return nil, err
	}
	if err := s.targetDates.Create(ctx, td); err != nil {
		return nil, oops.Wrapf(err, "create target date %s", td.ID)
	}
	return td, nil
}

// GetTargetDate retrieves a target date in a workspace the actor can see.
func (s *Service) GetTargetDate(ctx context.Context, actor *auth.User, id ulid.ULID) (*TargetDate, error) {
	td, err := s.targetDates.Get(ctx, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get target date %s", id)
	}
	if err := requireMember(actor, td.WorkspaceID); err != nil {
		return nil, err
	}
	return td, nil
}

// UpdateTargetStatus changes how a target date is trending. Terminal states
// cannot be left.
func (s *Service) UpdateTargetStatus(ctx context.Context, actor *auth.User, id ulid.ULID, next TargetStatus) error {
	td, err := s.targetDates.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get target date %s", id)
	}
	if err := requireMember(actor, td.WorkspaceID); err != nil {
		return err
	}
	if !next.Valid() || td.Status.Terminal() {
		return oops.Code("TEAM_INVALID_TRANSITION").
			With("from", string(td.Status)).
			With("to", string(next)).
			Wrap(ErrInvalidTransition)
	}
	td.Status = next
	td.UpdatedAt = time.Now()
	if err := s.targetDates.Update(ctx, td); err != nil {
		return oops.Wrapf(err, "update target date %s", id)
	}
	return nil
}

// DeleteTargetDate soft-deletes a target date. Admin only.
func (s *Service) DeleteTargetDate(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	td, err := s.targetDates.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get target date %s", id)
	}
	if err := requireAdmin(actor, td.WorkspaceID); err != nil {
		return err
	}
	if err := s.targetDates.Deactivate(ctx, id); err != nil {
		return oops.Wrapf(err, "deactivate target date %s", id)
	}
	return nil
}

// ListTargetDates returns active target dates in the workspace.
func (s *Service) ListTargetDates(ctx context.Context, actor *auth.User, workspaceID ulid.ULID) ([]*TargetDate, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.targetDates.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "list target dates in workspace %s", workspaceID)
	}
	return list, nil
}

// --- Deployments ---

// CreateDeployment schedules a deployment recorded against the actor.
func (s *Service) CreateDeployment(ctx context.Context, actor *auth.User, workspaceID ulid.ULID, component, version string, env Environment, scheduledAt time.Time, notes string) (*Deployment, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	d, err := NewDeployment(workspaceID, actor.ID, component, version, env, scheduledAt, notes)
	if err != nil {
		return nil, err
	}
	if err := s.deployments.Create(ctx, d); err != nil {
		return nil, oops.Wrapf(err, "create deployment %s", d.ID)
	}
	return d, nil
}

// GetDeployment retrieves a deployment in a workspace the actor can see.
func (s *Service) GetDeployment(ctx context.Context, actor *auth.User, id ulid.ULID) (*Deployment, error) {
	d, err := s.deployments.Get(ctx, id)
	if err != nil {
		return nil, oops.Wrapf(err, "get deployment %s", id)
	}
	if err := requireMember(actor, d.WorkspaceID); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDeploymentStatus moves a deployment through its lifecycle. Reaching
// COMPLETED stamps the completion time.
func (s *Service) UpdateDeploymentStatus(ctx context.Context, actor *auth.User, id ulid.ULID, next DeploymentStatus) error {
	d, err := s.deployments.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get deployment %s", id)
	}
	if err := requireMember(actor, d.WorkspaceID); err != nil {
		return err
	}
	if !d.Status.CanTransitionTo(next) {
		return oops.Code("TEAM_INVALID_TRANSITION").
			With("from", string(d.Status)).
			With("to", string(next)).
			Wrap(ErrInvalidTransition)
	}
	d.Status = next
	now := time.Now()
	if next == DeployCompleted {
		d.CompletedAt = &now
	}
	d.UpdatedAt = now
	if err := s.deployments.Update(ctx, d); err != nil {
		return oops.Wrapf(err, "update deployment %s", id)
	}
	return nil
}

// DeleteDeployment soft-deletes a deployment record. Admin only.
func (s *Service) DeleteDeployment(ctx context.Context, actor *auth.User, id ulid.ULID) error {
	d, err := s.deployments.Get(ctx, id)
	if err != nil {
		return oops.Wrapf(err, "get deployment %s", id)
	}
	if err := requireAdmin(actor, d.WorkspaceID); err != nil {
		return err
	}
	if err := s.deployments.Deactivate(ctx, id); err != nil {
		return oops.Wrapf(err, "deactivate deployment %s", id)
	}
	return nil
}

// ListDeployments returns active deployments in the workspace.
func (s *Service) ListDeployments(ctx context.Context, actor *auth.User, workspaceID ulid.ULID) ([]*Deployment, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.deployments.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "list deployments in workspace %s", workspaceID)
	}
	return list, nil
}

// ListComponentDeployments returns the deployment history of one component.
func (s *Service) ListComponentDeployments(ctx context.Context, actor *auth.User, workspaceID ulid.ULID, component string) ([]*Deployment, error) {
	if err := requireMember(actor, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.deployments.ListByComponent(ctx, workspaceID, component)
	if err != nil {
		return nil, oops.Wrapf(err, "list deployments of %s in workspace %s", component, workspaceID)
	}
	return list, nil
}
