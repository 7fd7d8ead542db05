// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// WorkspaceRepository manages workspace persistence.
type WorkspaceRepository interface {
	// Get retrieves a workspace by ID.
	Get(ctx context.Context, id ulid.ULID) (*Workspace, error)

	// GetBySlug retrieves a workspace by its slug.
	GetBySlug(ctx context.Context, slug string) (*Workspace, error)

	// Create persists a new workspace.
	Create(ctx context.Context, ws *Workspace) error

	// Update modifies an existing workspace.
	Update(ctx context.Context, ws *Workspace) error

	// Deactivate clears the active flag (soft delete).
	Deactivate(ctx context.Context, id ulid.ULID) error

	// List returns all active workspaces, name order.
	List(ctx context.Context) ([]*Workspace, error)
}

// AnnouncementRepository manages announcement persistence.
type AnnouncementRepository interface {
	// Get retrieves an announcement by ID.
	Get(ctx context.Context, id ulid.ULID) (*Announcement, error)

	// Create persists a new announcement.
	Create(ctx context.Context, a *Announcement) error

	// Update modifies an existing announcement.
	Update(ctx context.Context, a *Announcement) error

	// Deactivate clears the active flag (soft delete).
	Deactivate(ctx context.Context, id ulid.ULID) error

	// ListByWorkspace returns active announcements in a workspace, newest
	// publish time first.
	ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Announcement, error)
}

// ActivityRepository manages activity persistence.
type ActivityRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*Activity, error)
	Create(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	Deactivate(ctx context.Context, id ulid.ULID) error

	// ListByWorkspace returns active activities in a workspace, most
	// recently updated first.
	ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Activity, error)
}

// TargetDateRepository manages target date persistence.
type TargetDateRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*TargetDate, error)
	Create(ctx context.Context, td *TargetDate) error
	Update(ctx context.Context, td *TargetDate) error
	Deactivate(ctx context.Context, id ulid.ULID) error

	// ListByWorkspace returns active target dates in a workspace, soonest
	// target day first.
	ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*TargetDate, error)
}

// DeploymentRepository manages deployment persistence.
type DeploymentRepository interface {
	Get(ctx context.Context, id ulid.ULID) (*Deployment, error)
	Create(ctx context.Context, d *Deployment) error
	Update(ctx context.Context, d *Deployment) error
	Deactivate(ctx context.Context, id ulid.ULID) error

	// ListByWorkspace returns active deployments in a workspace, newest
	// schedule first.
	ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Deployment, error)

	// ListByComponent returns active deployments of one component in a
	// workspace, newest schedule first.
	ListByComponent(ctx context.Context, workspaceID ulid.ULID, component string) ([]*Deployment, error)
}
