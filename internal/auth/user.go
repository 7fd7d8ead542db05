// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role describes a user's privilege level.
type Role string

// Known roles, in ascending privilege order.
const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that start with a letter and contain only
// letters, numbers, underscores, and dots.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.]*$`)

// User represents an account. Accounts are soft-deleted: Active is cleared
// rather than the row removed, so historical records keep a valid author.
type User struct {
	ID           ulid.ULID
	Username     string
	DisplayName  string
	Email        string
	PasswordHash string
	Role         Role
	WorkspaceID  *ulid.ULID // nil for accounts outside any workspace
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a generated ID. The password hash
// must already be computed; this package never holds plaintext passwords in
// domain types.
func NewUser(username, displayName, email, passwordHash string, role Role, workspaceID *ulid.ULID) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, oops.Code("AUTH_INVALID_USER").With("role", string(role)).Errorf("unknown role")
	}
	if workspaceID != nil && workspaceID.IsZero() {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("workspace ID cannot be zero when provided")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		WorkspaceID:  workspaceID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsAdmin reports whether the user may manage accounts and workspaces.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin reports whether workspace scoping is bypassed for this user.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// InWorkspace reports whether the user belongs to the given workspace.
// Super admins are treated as members of every workspace.
func (u *User) InWorkspace(id ulid.ULID) bool {
	if u.IsSuperAdmin() {
		return true
	}
	return u.WorkspaceID != nil && *u.WorkspaceID == id
}

// ValidateUsername validates a username against rules.
// Username requirements:
//   - Length: MinUsernameLength to MaxUsernameLength characters
//   - Must start with a letter
//   - Can contain only letters, numbers, underscores, and dots
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username must start with a letter and contain only letters, numbers, underscores, and dots")
	}
	return nil
}

// UserRepository manages user persistence. Implementations must be safe for
// concurrent use; each method is a single-row read or write.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken (wrapped) if the
	// username is already in use.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by exact, case-sensitive username match.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update updates an existing user's profile fields and role.
	Update(ctx context.Context, user *User) error

	// UpdatePassword updates only the password hash for a user.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// UpdateLastLogin sets the last-login timestamp for a user.
	UpdateLastLogin(ctx context.Context, id ulid.ULID, at time.Time) error

	// Deactivate clears the active flag (soft delete).
	Deactivate(ctx context.Context, id ulid.ULID) error

	// ListByWorkspace returns all users in a workspace, username order.
	ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*User, error)
}
