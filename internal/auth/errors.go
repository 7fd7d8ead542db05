// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned for any login failure: unknown username,
// inactive account, or password mismatch. Callers must present all three the
// same way to avoid leaking which part was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrSessionInvalid is returned when a session token does not resolve to a
// live session. Missing, invalidated, and expired sessions are deliberately
// indistinguishable to callers.
var ErrSessionInvalid = errors.New("session is not valid")

// ErrUsernameTaken is returned when creating a user with a username that
// already exists.
var ErrUsernameTaken = errors.New("username already taken")
