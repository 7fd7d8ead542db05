// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testUser(t *testing.T) *User {
	t.Helper()
	wsID := ulid.Make()
	return &User{
		ID:           ulid.Make(),
		Username:     "alice",
		DisplayName:  "Alice",
		PasswordHash: "stored-hash",
		Role:         RoleUser,
		WorkspaceID:  &wsID,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestNewService(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	hasher := new(MockPasswordHasher)

	t.Run("requires all dependencies", func(t *testing.T) {
		_, err := NewService(nil, sessions, hasher)
		assert.Error(t, err)
		_, err = NewService(users, nil, hasher)
		assert.Error(t, err)
		_, err = NewService(users, sessions, nil)
		assert.Error(t, err)
	})

	t.Run("constructs with valid dependencies", func(t *testing.T) {
		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("success creates session and updates last login", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		hasher.On("Verify", "secret", "stored-hash").Return(true, nil)

		var created *Session
		sessions.On("Create", ctx, mock.MatchedBy(func(s *Session) bool {
			created = s
			return s.UserID == user.ID && s.Active
		})).Return(nil)
		users.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		got, token, err := svc.Authenticate(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
		require.NotNil(t, created)
		assert.Equal(t, token, created.Token)
		assert.NotNil(t, got.LastLoginAt)

		wantExpiry := time.Now().Add(SessionLifetime)
		assert.WithinDuration(t, wantExpiry, created.ExpiresAt, 5*time.Second)

		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("unknown username yields generic failure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)

		users.On("GetByUsername", ctx, "ghost").Return(nil, ErrNotFound)
		// The dummy hash is still verified so timing does not reveal
		// username existence.
		hasher.On("Verify", "secret", dummyPasswordHash).Return(false, nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		hasher.AssertExpectations(t)
	})

	t.Run("wrong password yields generic failure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		hasher.On("Verify", "wrong", "stored-hash").Return(false, nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("deactivated account yields generic failure even with correct password", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)
		user.Active = false

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		hasher.On("Verify", "secret", "stored-hash").Return(true, nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, "alice", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("failed last login update does not fail the login", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		hasher.On("Verify", "secret", "stored-hash").Return(true, nil)
		sessions.On("Create", ctx, mock.Anything).Return(nil)
		users.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).
			Return(errors.New("connection reset"))

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		got, token, err := svc.Authenticate(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Nil(t, got.LastLoginAt)
	})

	t.Run("session store failure is an error, not invalid credentials", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		hasher.On("Verify", "secret", "stored-hash").Return(true, nil)
		sessions.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		_, _, err = svc.Authenticate(ctx, "alice", "secret")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) (*Service, *MockUserRepository, *MockSessionRepository) {
		t.Helper()
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		svc, err := NewService(users, sessions, new(MockPasswordHasher))
		require.NoError(t, err)
		return svc, users, sessions
	}

	t.Run("valid session resolves to its user", func(t *testing.T) {
		svc, users, sessions := newService(t)
		user := testUser(t)
		session := &Session{
			ID:        ulid.Make(),
			UserID:    user.ID,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Active:    true,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		got, err := svc.ValidateSession(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.ValidateSession(ctx, "")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		svc, _, sessions := newService(t)
		sessions.On("GetByToken", ctx, "nope").Return(nil, ErrNotFound)

		_, err := svc.ValidateSession(ctx, "nope")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("expired session is invalid and lazily invalidated", func(t *testing.T) {
		svc, users, sessions := newService(t)
		session := &Session{
			ID:        ulid.Make(),
			UserID:    ulid.Make(),
			Token:     "tok",
			ExpiresAt: time.Now().Add(-time.Minute),
			Active:    true,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)
		sessions.On("Invalidate", ctx, "tok").Return(nil)

		_, err := svc.ValidateSession(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionInvalid)
		sessions.AssertCalled(t, "Invalidate", ctx, "tok")
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("expiry is checked even when the active flag is stale", func(t *testing.T) {
		svc, _, sessions := newService(t)
		session := &Session{
			ID:        ulid.Make(),
			UserID:    ulid.Make(),
			Token:     "tok",
			ExpiresAt: time.Now().Add(-time.Minute),
			Active:    false,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)
		sessions.On("Invalidate", ctx, "tok").Return(nil)

		_, err := svc.ValidateSession(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("inactive unexpired session is invalid without cleanup", func(t *testing.T) {
		svc, _, sessions := newService(t)
		session := &Session{
			ID:        ulid.Make(),
			UserID:    ulid.Make(),
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Active:    false,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)

		_, err := svc.ValidateSession(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionInvalid)
		sessions.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("session for a deactivated user is invalid", func(t *testing.T) {
		svc, users, sessions := newService(t)
		user := testUser(t)
		user.Active = false
		session := &Session{
			ID:        ulid.Make(),
			UserID:    user.ID,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Active:    true,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		_, err := svc.ValidateSession(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("session for a deleted user is invalid", func(t *testing.T) {
		svc, users, sessions := newService(t)
		userID := ulid.Make()
		session := &Session{
			ID:        ulid.Make(),
			UserID:    userID,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Active:    true,
		}

		sessions.On("GetByToken", ctx, "tok").Return(session, nil)
		users.On("GetByID", ctx, userID).Return(nil, ErrNotFound)

		_, err := svc.ValidateSession(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates the session", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("Invalidate", ctx, "tok").Return(nil)
		svc, err := NewService(new(MockUserRepository), sessions, new(MockPasswordHasher))
		require.NoError(t, err)

		assert.NoError(t, svc.Logout(ctx, "tok"))
		sessions.AssertExpectations(t)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("Invalidate", ctx, "never-issued").Return(nil)
		svc, err := NewService(new(MockUserRepository), sessions, new(MockPasswordHasher))
		require.NoError(t, err)

		assert.NoError(t, svc.Logout(ctx, "never-issued"))
	})
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	userID := ulid.Make()

	sessions := new(MockSessionRepository)
	sessions.On("InvalidateAllForUser", ctx, userID).Return(nil)
	svc, err := NewService(new(MockUserRepository), sessions, new(MockPasswordHasher))
	require.NoError(t, err)

	assert.NoError(t, svc.LogoutAll(ctx, userID))
	sessions.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("correct current password rotates hash and revokes sessions", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		hasher.On("Verify", "old", "stored-hash").Return(true, nil)
		hasher.On("Hash", "new").Return("new-hash", nil)
		users.On("UpdatePassword", ctx, user.ID, "new-hash").Return(nil)
		sessions.On("InvalidateAllForUser", ctx, user.ID).Return(nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		changed, err := svc.ChangePassword(ctx, user.ID, "old", "new")
		require.NoError(t, err)
		assert.True(t, changed)
		users.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong current password is a soft failure", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		hasher.On("Verify", "wrong", "stored-hash").Return(false, nil)

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		changed, err := svc.ChangePassword(ctx, user.ID, "wrong", "new")
		require.NoError(t, err)
		assert.False(t, changed)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		sessions.AssertNotCalled(t, "InvalidateAllForUser", mock.Anything, mock.Anything)
	})

	t.Run("missing user is a soft failure", func(t *testing.T) {
		users := new(MockUserRepository)
		userID := ulid.Make()
		users.On("GetByID", ctx, userID).Return(nil, ErrNotFound)

		svc, err := NewService(users, new(MockSessionRepository), new(MockPasswordHasher))
		require.NoError(t, err)

		changed, err := svc.ChangePassword(ctx, userID, "old", "new")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("failed revocation after rotation still reports the change", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		hasher := new(MockPasswordHasher)
		user := testUser(t)

		users.On("GetByID", ctx, user.ID).Return(user, nil)
		hasher.On("Verify", "old", "stored-hash").Return(true, nil)
		hasher.On("Hash", "new").Return("new-hash", nil)
		users.On("UpdatePassword", ctx, user.ID, "new-hash").Return(nil)
		sessions.On("InvalidateAllForUser", ctx, user.ID).Return(errors.New("timeout"))

		svc, err := NewService(users, sessions, hasher)
		require.NoError(t, err)

		changed, err := svc.ChangePassword(ctx, user.ID, "old", "new")
		assert.Error(t, err)
		assert.True(t, changed, "hash was rotated before the failure")
	})
}

func TestSweepExpiredSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns affected count", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("SweepExpired", ctx).Return(int64(7), nil)
		svc, err := NewService(new(MockUserRepository), sessions, new(MockPasswordHasher))
		require.NoError(t, err)

		count, err := svc.SweepExpiredSessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		sessions.On("SweepExpired", ctx).Return(int64(0), errors.New("deadlock"))
		svc, err := NewService(new(MockUserRepository), sessions, new(MockPasswordHasher))
		require.NoError(t, err)

		_, err = svc.SweepExpiredSessions(ctx)
		assert.Error(t, err)
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password before storing", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)
		wsID := ulid.Make()

		hasher.On("Hash", "secret").Return("hashed", nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Username == "bob" && u.PasswordHash == "hashed" && u.Active
		})).Return(nil)

		svc, err := NewService(users, new(MockSessionRepository), hasher)
		require.NoError(t, err)

		user, err := svc.CreateUser(ctx, "bob", "Bob", "bob@example.com", "secret", RoleUser, &wsID)
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
		users.AssertExpectations(t)
	})

	t.Run("duplicate username surfaces ErrUsernameTaken", func(t *testing.T) {
		users := new(MockUserRepository)
		hasher := new(MockPasswordHasher)

		hasher.On("Hash", "secret").Return("hashed", nil)
		users.On("Create", ctx, mock.Anything).Return(ErrUsernameTaken)

		svc, err := NewService(users, new(MockSessionRepository), hasher)
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, "bob", "Bob", "", "secret", RoleUser, nil)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestDeactivateUser(t *testing.T) {
	ctx := context.Background()
	userID := ulid.Make()

	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	users.On("Deactivate", ctx, userID).Return(nil)
	sessions.On("InvalidateAllForUser", ctx, userID).Return(nil)

	svc, err := NewService(users, sessions, new(MockPasswordHasher))
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, userID))
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}
