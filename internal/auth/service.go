// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides authentication operations.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
}

// NewService creates a new Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}, nil
}

// dummyPasswordHash is verified when the username does not exist, so the miss
// path costs the same as a real verification and response timing does not
// reveal which usernames are registered. It is NOT a credential: the result
// of the comparison is discarded for unknown users.
//
//nolint:gosec // G101: intentionally fake hash for timing consistency, not a credential.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Authenticate verifies a username/password pair and mints a session.
// Returns the user and the plaintext session token.
//
// Failures for unknown username, inactive account, and wrong password are all
// reported as ErrInvalidCredentials; callers must not distinguish them.
// On success the session insert and the last-login update are two independent
// writes, matching the source system. A concurrent logout can therefore land
// between them; see DESIGN.md before changing this.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always run the verification, real hash or dummy.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid || !user.Active {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user.ID, token, time.Now().Add(SessionLifetime))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	// Best effort: a failed last-login update must not fail the login.
	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLoginAt = &now
	}

	return user, token, nil
}

// ValidateSession resolves a token to its user. Returns ErrSessionInvalid
// (wrapped) when the token is unknown, the session inactive or expired, or
// the owning account gone or deactivated. Expired sessions are marked
// inactive on the way out (lazy cleanup).
func (s *Service) ValidateSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token").
			Wrap(err)
	}

	// Expiry is checked regardless of the stored active flag, and both
	// checks always run; a session is live only when active AND unexpired.
	if session.IsExpired() {
		_ = s.sessions.Invalidate(ctx, token) //nolint:errcheck // lazy cleanup is best effort
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}
	if !session.Active {
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session user").
			Wrap(err)
	}
	if !user.Active {
		return nil, oops.Code("SESSION_INVALID").Wrap(ErrSessionInvalid)
	}

	return user, nil
}

// Logout invalidates the session matching the token. Logging out an unknown
// or already-invalid token is a no-op, not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "invalidate session").
			Wrap(err)
	}
	return nil
}

// LogoutAll invalidates every session for the user, forcing
// re-authentication on all devices.
func (s *Service) LogoutAll(ctx context.Context, userID ulid.ULID) error {
	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		return oops.Code("AUTH_LOGOUT_ALL_FAILED").
			With("operation", "invalidate user sessions").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// ChangePassword re-verifies the current password before storing the new
// hash, then invalidates all of the user's sessions.
//
// Returns (false, nil) on a wrong current password or a missing user: a soft
// failure the caller must check, not an error. Storage faults are errors. If
// the session invalidation fails after the hash was rotated, the returned
// bool is still true so the caller knows the password did change.
func (s *Service) ChangePassword(ctx context.Context, userID ulid.ULID, currentPassword, newPassword string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get user").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return false, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify current password").
			Wrap(err)
	}
	if !valid {
		return false, nil
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return false, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		return true, oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "invalidate user sessions").
			Wrap(err)
	}

	return true, nil
}

// SweepExpiredSessions bulk-invalidates all sessions whose expiry has passed
// and that are still marked active. Returns the number affected. Intended to
// run periodically; safe to run concurrently with validation.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	count, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		return 0, oops.Code("AUTH_SWEEP_FAILED").
			With("operation", "sweep expired sessions").
			Wrap(err)
	}
	return count, nil
}

// CreateUser creates an account with a hashed password. Authorization is the
// caller's concern; handlers require an admin actor before reaching here.
func (s *Service) CreateUser(ctx context.Context, username, displayName, email, password string, role Role, workspaceID *ulid.ULID) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_USER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, displayName, email, hash, role, workspaceID)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(ErrUsernameTaken)
		}
		return nil, oops.Code("AUTH_CREATE_USER_FAILED").
			With("operation", "persist user").
			Wrap(err)
	}

	return user, nil
}

// ResetPassword sets a new password without knowing the current one, then
// forces re-authentication everywhere. Admin-only surfaces call this.
func (s *Service) ResetPassword(ctx context.Context, userID ulid.ULID, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return oops.Code("AUTH_RESET_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}
	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		return oops.Code("AUTH_RESET_PASSWORD_FAILED").
			With("operation", "invalidate user sessions").
			Wrap(err)
	}
	return nil
}

// DeactivateUser soft-deletes the account and invalidates its sessions.
func (s *Service) DeactivateUser(ctx context.Context, userID ulid.ULID) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return oops.Code("AUTH_DEACTIVATE_FAILED").
			With("operation", "deactivate user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		return oops.Code("AUTH_DEACTIVATE_FAILED").
			With("operation", "invalidate user sessions").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, oops.Wrapf(err, "get user %s", userID)
	}
	return user, nil
}

// ListWorkspaceUsers returns all users in a workspace.
func (s *Service) ListWorkspaceUsers(ctx context.Context, workspaceID ulid.ULID) ([]*User, error) {
	users, err := s.users.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, oops.Wrapf(err, "list users in workspace %s", workspaceID)
	}
	return users, nil
}
