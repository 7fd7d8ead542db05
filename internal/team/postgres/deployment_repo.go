// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
)

const deploymentColumns = `id, workspace_id, deployed_by, component, version, environment, status, scheduled_at, completed_at, notes, active, created_at, updated_at`

// DeploymentRepository implements team.DeploymentRepository using PostgreSQL.
type DeploymentRepository struct {
	pool pgxPool
}

// NewDeploymentRepository creates a new DeploymentRepository.
func NewDeploymentRepository(pool pgxPool) *DeploymentRepository {
	return &DeploymentRepository{pool: pool}
}

// Get retrieves a deployment by ID.
func (r *DeploymentRepository) Get(ctx context.Context, id ulid.ULID) (*team.Deployment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+deploymentColumns+`
		FROM deployments
		WHERE id = $1
	`, id.String())

	d, err := scanDeployment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("DEPLOYMENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("DEPLOYMENT_GET_FAILED").
			With("operation", "get deployment").
			With("id", id.String()).
			Wrap(err)
	}
	return d, nil
}

// Create persists a new deployment.
func (r *DeploymentRepository) Create(ctx context.Context, d *team.Deployment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deployments (id, workspace_id, deployed_by, component, version, environment, status, scheduled_at, completed_at, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		d.ID.String(),
		d.WorkspaceID.String(),
		d.DeployedBy.String(),
		d.Component,
		d.Version,
		string(d.Environment),
		string(d.Status),
		d.ScheduledAt,
		d.CompletedAt,
		d.Notes,
		d.Active,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return oops.Code("DEPLOYMENT_CREATE_FAILED").
			With("operation", "insert deployment").
			With("workspace_id", d.WorkspaceID.String()).
			With("component", d.Component).
			Wrap(err)
	}
	return nil
}

// Update modifies an existing deployment.
func (r *DeploymentRepository) Update(ctx context.Context, d *team.Deployment) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE deployments
		SET component = $2, version = $3, environment = $4, status = $5, scheduled_at = $6, completed_at = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`,
		d.ID.String(),
		d.Component,
		d.Version,
		string(d.Environment),
		string(d.Status),
		d.ScheduledAt,
		d.CompletedAt,
		d.Notes,
		time.Now(),
	)
	if err != nil {
		return oops.Code("DEPLOYMENT_UPDATE_FAILED").
			With("operation", "update deployment").
			With("id", d.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DEPLOYMENT_NOT_FOUND").
			With("id", d.ID.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Deactivate clears the active flag (soft delete).
func (r *DeploymentRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE deployments SET active = FALSE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now())
	if err != nil {
		return oops.Code("DEPLOYMENT_DEACTIVATE_FAILED").
			With("operation", "deactivate deployment").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DEPLOYMENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// ListByWorkspace returns active deployments, newest schedule first.
func (r *DeploymentRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*team.Deployment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deploymentColumns+`
		FROM deployments
		WHERE workspace_id = $1 AND active
		ORDER BY scheduled_at DESC
	`, workspaceID.String())
	if err != nil {
		return nil, oops.Code("DEPLOYMENT_LIST_FAILED").
			With("operation", "list deployments").
			With("workspace_id", workspaceID.String()).
			Wrap(err)
	}
	return collectDeployments(rows)
}

// ListByComponent returns one component's active deployments, newest first.
func (r *DeploymentRepository) ListByComponent(ctx context.Context, workspaceID ulid.ULID, component string) ([]*team.Deployment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deploymentColumns+`
		FROM deployments
		WHERE workspace_id = $1 AND component = $2 AND active
		ORDER BY scheduled_at DESC
	`, workspaceID.String(), component)
	if err != nil {
		return nil, oops.Code("DEPLOYMENT_LIST_FAILED").
			With("operation", "list deployments by component").
			With("workspace_id", workspaceID.String()).
			With("component", component).
			Wrap(err)
	}
	return collectDeployments(rows)
}

func collectDeployments(rows pgx.Rows) ([]*team.Deployment, error) {
	defer rows.Close()

	var deployments []*team.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, oops.Code("DEPLOYMENT_SCAN_FAILED").
				With("operation", "scan deployment row").
				Wrap(err)
		}
		deployments = append(deployments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("DEPLOYMENT_ROWS_ERROR").
			With("operation", "iterate deployment rows").
			Wrap(err)
	}

	return deployments, nil
}

func scanDeployment(row pgx.Row) (*team.Deployment, error) {
	var (
		idStr       string
		wsIDStr     string
		deployedBy  string
		component   string
		version     string
		environment string
		status      string
		scheduledAt time.Time
		completedAt *time.Time
		notes       string
		active      bool
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &wsIDStr, &deployedBy, &component, &version, &environment, &status, &scheduledAt, &completedAt, &notes, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("DEPLOYMENT_SCAN_FAILED").
			With("operation", "scan deployment").
			Wrap(err)
	}

	id, err := parseULID(idStr, "deployment_id")
	if err != nil {
		return nil, err
	}
	wsID, err := parseULID(wsIDStr, "workspace_id")
	if err != nil {
		return nil, err
	}
	deployedByID, err := parseULID(deployedBy, "deployed_by")
	if err != nil {
		return nil, err
	}

	return &team.Deployment{
		ID:          id,
		WorkspaceID: wsID,
		DeployedBy:  deployedByID,
		Component:   component,
		Version:     version,
		Environment: team.Environment(environment),
		Status:      team.DeploymentStatus(status),
		ScheduledAt: scheduledAt,
		CompletedAt: completedAt,
		Notes:       notes,
		Active:      active,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ team.DeploymentRepository = (*DeploymentRepository)(nil)
