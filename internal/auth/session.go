// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes = 32            // 256 bits of entropy, 43 base64 chars
	SessionLifetime   = 8 * time.Hour // fixed; not configurable per call
)

// Session represents an authenticated session. A session is valid only when
// Active is set AND the expiry is in the future; validation must check both.
// Invalidation is terminal: the active flag is cleared in place and the row
// kept, matching the soft-delete convention of the rest of the schema.
type Session struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Active    bool
}

// NewSession creates a validated Session instance.
func NewSession(userID ulid.ULID, token string, expiresAt time.Time) (*Session, error) {
	if userID.IsZero() {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if token == "" {
		return nil, oops.Code("SESSION_INVALID_TOKEN").Errorf("token cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}

	return &Session{
		ID:        ulid.Make(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		Active:    true,
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// GenerateSessionToken creates a cryptographically random session token:
// SessionTokenBytes of entropy, URL-safe base64, no padding. The token is
// stored as-is and looked up by exact match.
func GenerateSessionToken() (string, error) {
	raw := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// SessionRepository manages session persistence. Implementations must be
// safe for concurrent use.
type SessionRepository interface {
	// Create stores a new session. The token column is unique; collisions
	// surface as storage errors (with 256-bit tokens they do not occur in
	// practice).
	Create(ctx context.Context, session *Session) error

	// GetByToken retrieves a session by exact token match. Returns
	// ErrNotFound (wrapped) when no row matches.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// Invalidate clears the active flag for the matching token. Unknown or
	// already-inactive tokens are a no-op, not an error.
	Invalidate(ctx context.Context, token string) error

	// InvalidateAllForUser clears the active flag on every session owned by
	// the user.
	InvalidateAllForUser(ctx context.Context, userID ulid.ULID) error

	// SweepExpired clears the active flag on all sessions that are still
	// active but whose expiry has passed, and returns the affected count.
	SweepExpired(ctx context.Context) (int64, error)
}
