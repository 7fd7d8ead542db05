// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

// Package auth provides credential verification and session-token management.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their constructors:
//   - NewUser - creates a User with a validated username and password hash
//   - NewSession - creates a Session with a validated user reference and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors and hydrate rows back into them.
//
// # Service
//
// Service coordinates the authentication flow: Authenticate mints session
// tokens, ValidateSession resolves them back to users, Logout and LogoutAll
// invalidate them, ChangePassword rotates credentials, and
// SweepExpiredSessions retires sessions whose expiry has passed.
//
// Expected business failures (bad credentials, dead sessions) are reported
// through the sentinel errors in this package and matched with errors.Is;
// storage faults are wrapped and propagated unchanged.
package auth
