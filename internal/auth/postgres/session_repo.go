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

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
)

// SessionRepository implements auth.SessionRepository using PostgreSQL.
// Sessions are never deleted; invalidation clears the active flag in place.
type SessionRepository struct {
	pool pgxPool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool pgxPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		session.ID.String(),
		session.UserID.String(),
		session.Token,
		session.ExpiresAt,
		session.CreatedAt,
		session.Active,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByToken retrieves a session by exact token match.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*auth.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at, active
		FROM sessions
		WHERE token = $1
	`, token)

	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_BY_TOKEN_FAILED").
			With("operation", "get session by token").
			Wrap(err)
	}
	return session, nil
}

// Invalidate clears the active flag for the matching token. Matching zero
// rows is a valid state, not an error, which makes logout idempotent.
func (r *SessionRepository) Invalidate(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions SET active = FALSE
		WHERE token = $1
	`, token)
	if err != nil {
		return oops.Code("SESSION_INVALIDATE_FAILED").
			With("operation", "invalidate session").
			Wrap(err)
	}
	return nil
}

// InvalidateAllForUser clears the active flag on every session for a user.
func (r *SessionRepository) InvalidateAllForUser(ctx context.Context, userID ulid.ULID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions SET active = FALSE
		WHERE user_id = $1
	`, userID.String())
	if err != nil {
		return oops.Code("SESSION_INVALIDATE_ALL_FAILED").
			With("operation", "invalidate sessions by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// SweepExpired bulk-invalidates active sessions whose expiry has passed and
// returns the affected count.
func (r *SessionRepository) SweepExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE sessions SET active = FALSE
		WHERE active AND expires_at < $1
	`, time.Now())
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").
			With("operation", "sweep expired sessions").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// scanSession scans a row into a Session. Callers handle pgx.ErrNoRows.
func scanSession(row pgx.Row) (*auth.Session, error) {
	var (
		idStr     string
		userIDStr string
		token     string
		expiresAt time.Time
		createdAt time.Time
		active    bool
	)

	err := row.Scan(&idStr, &userIDStr, &token, &expiresAt, &createdAt, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("SESSION_SCAN_FAILED").
			With("operation", "scan session").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_ID").
			With("operation", "parse session id").
			With("id", idStr).
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &auth.Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
		Active:    active,
	}, nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
