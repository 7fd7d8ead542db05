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

const targetDateColumns = `id, workspace_id, title, description, target_on, status, active, created_at, updated_at`

// TargetDateRepository implements team.TargetDateRepository using PostgreSQL.
type TargetDateRepository struct {
	pool pgxPool
}

// NewTargetDateRepository creates a new TargetDateRepository.
func NewTargetDateRepository(pool pgxPool) *TargetDateRepository {
	return &TargetDateRepository{pool: pool}
}

// Get retrieves a target date by ID.
func (r *TargetDateRepository) Get(ctx context.Context, id ulid.ULID) (*team.TargetDate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+targetDateColumns+`
		FROM target_dates
		WHERE id = $1
	`, id.String())

	td, err := scanTargetDate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TARGET_DATE_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TARGET_DATE_GET_FAILED").
			With("operation", "get target date").
			With("id", id.String()).
			Wrap(err)
	}
	return td, nil
}

// Create persists a new target date.
func (r *TargetDateRepository) Create(ctx context.Context, td *team.TargetDate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO target_dates (id, workspace_id, title, description, target_on, status, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		td.ID.String(),
		td.WorkspaceID.String(),
		td.Title,
		td.Description,
		td.TargetOn,
		string(td.Status),
		td.Active,
		td.CreatedAt,
		td.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TARGET_DATE_CREATE_FAILED").
			With("operation", "insert target date").
			With("workspace_id", td.WorkspaceID.String()).
			Wrap(err)
	}
	return nil
}

// Update modifies an existing target date.
func (r *TargetDateRepository) Update(ctx context.Context, td *team.TargetDate) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE target_dates
		SET title = $2, description = $3, target_on = $4, status = $5, updated_at = $6
		WHERE id = $1
	`, td.ID.String(), td.Title, td.Description, td.TargetOn, string(td.Status), time.Now())
	if err != nil {
		return oops.Code("TARGET_DATE_UPDATE_FAILED").
			With("operation", "update target date").
			With("id", td.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TARGET_DATE_NOT_FOUND").
			With("id", td.ID.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Deactivate clears the active flag (soft delete).
func (r *TargetDateRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE target_dates SET active = FALSE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now())
	if err != nil {
		return oops.Code("TARGET_DATE_DEACTIVATE_FAILED").
			With("operation", "deactivate target date").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TARGET_DATE_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// ListByWorkspace returns active target dates, soonest target day first.
func (r *TargetDateRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*team.TargetDate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+targetDateColumns+`
		FROM target_dates
		WHERE workspace_id = $1 AND active
		ORDER BY target_on
	`, workspaceID.String())
	if err != nil {
		return nil, oops.Code("TARGET_DATE_LIST_FAILED").
			With("operation", "list target dates").
			With("workspace_id", workspaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var targetDates []*team.TargetDate
	for rows.Next() {
		td, err := scanTargetDate(rows)
		if err != nil {
			return nil, oops.Code("TARGET_DATE_SCAN_FAILED").
				With("operation", "scan target date row").
				Wrap(err)
		}
		targetDates = append(targetDates, td)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("TARGET_DATE_ROWS_ERROR").
			With("operation", "iterate target date rows").
			Wrap(err)
	}

	return targetDates, nil
}

func scanTargetDate(row pgx.Row) (*team.TargetDate, error) {
	var (
		idStr       string
		wsIDStr     string
		title       string
		description string
		targetOn    time.Time
		status      string
		active      bool
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &wsIDStr, &title, &description, &targetOn, &status, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("TARGET_DATE_SCAN_FAILED").
			With("operation", "scan target date").
			Wrap(err)
	}

	id, err := parseULID(idStr, "target_date_id")
	if err != nil {
		return nil, err
	}
	wsID, err := parseULID(wsIDStr, "workspace_id")
	if err != nil {
		return nil, err
	}

	return &team.TargetDate{
		ID:          id,
		WorkspaceID: wsID,
		Title:       title,
		Description: description,
		TargetOn:    targetOn,
		Status:      team.TargetStatus(status),
		Active:      active,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ team.TargetDateRepository = (*TargetDateRepository)(nil)
