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

const activityColumns = `id, workspace_id, owner_id, title, description, status, due_at, active, created_at, updated_at`

// ActivityRepository implements team.ActivityRepository using PostgreSQL.
type ActivityRepository struct {
	pool pgxPool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool pgxPool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Get retrieves an activity by ID.
func (r *ActivityRepository) Get(ctx context.Context, id ulid.ULID) (*team.Activity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1
	`, id.String())

	a, err := scanActivity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACTIVITY_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACTIVITY_GET_FAILED").
			With("operation", "get activity").
			With("id", id.String()).
			Wrap(err)
	}
	return a, nil
}

// Create persists a new activity.
func (r *ActivityRepository) Create(ctx context.Context, a *team.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activities (id, workspace_id, owner_id, title, description, status, due_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		a.ID.String(),
		a.WorkspaceID.String(),
		a.OwnerID.String(),
		a.Title,
		a.Description,
		string(a.Status),
		a.DueAt,
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ACTIVITY_CREATE_FAILED").
			With("operation", "insert activity").
			With("workspace_id", a.WorkspaceID.String()).
			Wrap(err)
	}
	return nil
}

// Update modifies an existing activity.
func (r *ActivityRepository) Update(ctx context.Context, a *team.Activity) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE activities
		SET title = $2, description = $3, status = $4, due_at = $5, updated_at = $6
		WHERE id = $1
	`, a.ID.String(), a.Title, a.Description, string(a.Status), a.DueAt, time.Now())
	if err != nil {
		return oops.Code("ACTIVITY_UPDATE_FAILED").
			With("operation", "update activity").
			With("id", a.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACTIVITY_NOT_FOUND").
			With("id", a.ID.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Deactivate clears the active flag (soft delete).
func (r *ActivityRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE activities SET active = FALSE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now())
	if err != nil {
		return oops.Code("ACTIVITY_DEACTIVATE_FAILED").
			With("operation", "deactivate activity").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACTIVITY_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// ListByWorkspace returns active activities, most recently updated first.
func (r *ActivityRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*team.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE workspace_id = $1 AND active
		ORDER BY updated_at DESC
	`, workspaceID.String())
	if err != nil {
		return nil, oops.Code("ACTIVITY_LIST_FAILED").
			With("operation", "list activities").
			With("workspace_id", workspaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var activities []*team.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, oops.Code("ACTIVITY_SCAN_FAILED").
				With("operation", "scan activity row").
				Wrap(err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("ACTIVITY_ROWS_ERROR").
			With("operation", "iterate activity rows").
			Wrap(err)
	}

	return activities, nil
}

func scanActivity(row pgx.Row) (*team.Activity, error) {
	var (
		idStr       string
		wsIDStr     string
		ownerIDStr  string
		title       string
		description string
		status      string
		dueAt       *time.Time
		active      bool
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &wsIDStr, &ownerIDStr, &title, &description, &status, &dueAt, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ACTIVITY_SCAN_FAILED").
			With("operation", "scan activity").
			Wrap(err)
	}

	id, err := parseULID(idStr, "activity_id")
	if err != nil {
		return nil, err
	}
	wsID, err := parseULID(wsIDStr, "workspace_id")
	if err != nil {
		return nil, err
	}
	ownerID, err := parseULID(ownerIDStr, "owner_id")
	if err != nil {
		return nil, err
	}

	return &team.Activity{
		ID:          id,
		WorkspaceID: wsID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      team.ActivityStatus(status),
		DueAt:       dueAt,
		Active:      active,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ team.ActivityRepository = (*ActivityRepository)(nil)
