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

const announcementColumns = `id, workspace_id, author_id, title, body, priority, published_at, expires_at, active, created_at, updated_at`

// AnnouncementRepository implements team.AnnouncementRepository using PostgreSQL.
type AnnouncementRepository struct {
	pool pgxPool
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(pool pgxPool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

// Get retrieves an announcement by ID.
func (r *AnnouncementRepository) Get(ctx context.Context, id ulid.ULID) (*team.Announcement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE id = $1
	`, id.String())

	a, err := scanAnnouncement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ANNOUNCEMENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ANNOUNCEMENT_GET_FAILED").
			With("operation", "get announcement").
			With("id", id.String()).
			Wrap(err)
	}
	return a, nil
}

// Create persists a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, a *team.Announcement) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO announcements (id, workspace_id, author_id, title, body, priority, published_at, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		a.ID.String(),
		a.WorkspaceID.String(),
		a.AuthorID.String(),
		a.Title,
		a.Body,
		string(a.Priority),
		a.PublishedAt,
		a.ExpiresAt,
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ANNOUNCEMENT_CREATE_FAILED").
			With("operation", "insert announcement").
			With("workspace_id", a.WorkspaceID.String()).
			Wrap(err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, a *team.Announcement) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE announcements
		SET title = $2, body = $3, priority = $4, expires_at = $5, updated_at = $6
		WHERE id = $1
	`, a.ID.String(), a.Title, a.Body, string(a.Priority), a.ExpiresAt, time.Now())
	if err != nil {
		return oops.Code("ANNOUNCEMENT_UPDATE_FAILED").
			With("operation", "update announcement").
			With("id", a.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ANNOUNCEMENT_NOT_FOUND").
			With("id", a.ID.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// Deactivate clears the active flag (soft delete).
func (r *AnnouncementRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE announcements SET active = FALSE, updated_at = $2
		WHERE id = $1
	`, id.String(), time.Now())
	if err != nil {
		return oops.Code("ANNOUNCEMENT_DEACTIVATE_FAILED").
			With("operation", "deactivate announcement").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ANNOUNCEMENT_NOT_FOUND").
			With("id", id.String()).
			Wrap(team.ErrNotFound)
	}
	return nil
}

// ListByWorkspace returns active announcements, newest publish time first.
func (r *AnnouncementRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*team.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE workspace_id = $1 AND active
		ORDER BY published_at DESC
	`, workspaceID.String())
	if err != nil {
		return nil, oops.Code("ANNOUNCEMENT_LIST_FAILED").
			With("operation", "list announcements").
			With("workspace_id", workspaceID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var announcements []*team.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, oops.Code("ANNOUNCEMENT_SCAN_FAILED").
				With("operation", "scan announcement row").
				Wrap(err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("ANNOUNCEMENT_ROWS_ERROR").
			With("operation", "iterate announcement rows").
			Wrap(err)
	}

	return announcements, nil
}

func scanAnnouncement(row pgx.Row) (*team.Announcement, error) {
	var (
		idStr       string
		wsIDStr     string
		authorIDStr string
		title       string
		body        string
		priority    string
		publishedAt time.Time
		expiresAt   *time.Time
		active      bool
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &wsIDStr, &authorIDStr, &title, &body, &priority, &publishedAt, &expiresAt, &active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("ANNOUNCEMENT_SCAN_FAILED").
			With("operation", "scan announcement").
			Wrap(err)
	}

	id, err := parseULID(idStr, "announcement_id")
	if err != nil {
		return nil, err
	}
	wsID, err := parseULID(wsIDStr, "workspace_id")
	if err != nil {
		return nil, err
	}
	authorID, err := parseULID(authorIDStr, "author_id")
	if err != nil {
		return nil, err
	}

	return &team.Announcement{
		ID:          id,
		WorkspaceID: wsID,
		AuthorID:    authorID,
		Title:       title,
		Body:        body,
		Priority:    team.Priority(priority),
		PublishedAt: publishedAt,
		ExpiresAt:   expiresAt,
		Active:      active,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ team.AnnouncementRepository = (*AnnouncementRepository)(nil)
