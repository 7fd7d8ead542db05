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

// WorkspaceRepository implements team.WorkspaceRepository using PostgreSQL.
type WorkspaceRepository struct {
	pool pgxPool
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(pool pgxPool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// Get retrieves a workspace by ID.
func (r *WorkspaceRepository) Get(ctx context.Context, id ulid.ULID) (*team.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, active, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`, id.String())

	ws, err := scanWorkspace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORKSPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORKSPACE_GET_FAILED").
			With("operation", "get workspace").
			With("id", id.String()).
			Wrap(err)
	}
	return ws, nil
}

// GetBySlug retrieves a workspace by its slug.
func (r *WorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*team.Workspace, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, active, created_at, updated_at
		FROM workspaces
		WHERE slug = $1
	`, slug)

	ws, err := scanWorkspace(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORKSPACE_NOT_FOUND").
			With("slug", slug).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORKSPACE_GET_BY_SLUG_FAILED").
			With("operation", "get workspace by slug").
			With("slug", slug).
			Wrap(err)
	}
	return ws, nil
}

// Create persists a new workspace.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *team.Workspace) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workspaces (id, name, slug, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		ws.ID.String(),
		ws.Name,
		ws.Slug,
		ws.Active,
		ws.CreatedAt,
		ws.UpdatedAt,
	)
	if err != nil {
		return oops.Code("WORKSPACE_CREATE_FAILED").
			With("operation", "insert workspace").
			With("slug", ws.Slug).
			Wrap(err)
	}
	return nil
}

// Update modifies an existing workspace.
func (r *WorkspaceRepository) Update(ctx context.Context, ws *team.Workspace) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE workspaces SET name = $2, slug = $3, active = $4, updated_at = $5
		WHERE id = $1
	`, ws.ID.String(), ws.Name, ws.Slug, ws.Active, time.Now())
	if err != nil {
		return oops.Code("WORKSPACE_UPDATE_FAILED").
			With("operation", "update workspace").
			With("id", ws.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WORKSPACE_NOT_FOUND").
			With("id", ws.ID.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Deactivate clears the active flag (soft delete).
func (r *WorkspaceRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE workspaces SET active = FALSE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now())
	if err != nil {
		return oops.Code("WORKSPACE_DEACTIVATE_FAILED").
			With("operation", "deactivate workspace").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WORKSPACE_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// List returns all active workspaces, name order.
func (r *WorkspaceRepository) List(ctx context.Context) ([]*team.Workspace, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, active, created_at, updated_at
		FROM workspaces
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("WORKSPACE_LIST_FAILED").
			With("operation", "list workspaces").
			Wrap(err)
	}
	defer rows.Close()

	var workspaces []*team.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, oops.Code("WORKSPACE_SCAN_FAILED").
				With("operation", "scan workspace row").
				Wrap(err)
		}
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("WORKSPACE_ROWS_ERROR").
			With("operation", "iterate workspace rows").
			Wrap(err)
	}

	return workspaces, nil
}

func scanWorkspace(row pgx.Row) (*team.Workspace, error) {
	var (
		idStr     string
		name      string
		slug      string
		active    bool
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&idStr, &name, &slug, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("WORKSPACE_SCAN_FAILED").
			With("operation", "scan workspace").
			Wrap(err)
	}

	id, err := parseULID(idStr, "workspace_id")
	if err != nil {
		return nil, err
	}

	return &team.Workspace{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Active:    active,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Compile-time interface check.
var _ team.WorkspaceRepository = (*WorkspaceRepository)(nil)
