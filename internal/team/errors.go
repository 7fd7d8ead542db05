// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned when the acting user may not touch the
// record's workspace or lacks the required role.
var ErrPermissionDenied = errors.New("permission denied")

// ErrInvalidTransition is returned for a status change the lifecycle does
// not allow.
var ErrInvalidTransition = errors.New("invalid status transition")
