// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ActivityStatus tracks an activity through its lifecycle.
type ActivityStatus string

// Activity statuses. COMPLETED and CANCELLED are terminal.
const (
	ActivityPlanned    ActivityStatus = "PLANNED"
	ActivityInProgress ActivityStatus = "IN_PROGRESS"
	ActivityCompleted  ActivityStatus = "COMPLETED"
	ActivityCancelled  ActivityStatus = "CANCELLED"
)

// Valid reports whether the status is a known value.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityPlanned, ActivityInProgress, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s ActivityStatus) Terminal() bool {
	return s == ActivityCompleted || s == ActivityCancelled
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (s ActivityStatus) CanTransitionTo(next ActivityStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	switch next {
	case ActivityPlanned:
		return false // no way back to planned
	case ActivityInProgress:
		return s == ActivityPlanned
	case ActivityCompleted:
		return s == ActivityInProgress
	case ActivityCancelled:
		return true // any non-terminal state can be cancelled
	}
	return false
}

// Activity is a tracked piece of team work.
type Activity struct {
	ID          ulid.ULID
	WorkspaceID ulid.ULID
	OwnerID     ulid.ULID
	Title       string
	Description string
	Status      ActivityStatus
	DueAt       *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewActivity creates a validated Activity in the PLANNED state.
func NewActivity(workspaceID, ownerID ulid.ULID, title, description string, dueAt *time.Time) (*Activity, error) {
	if workspaceID.IsZero() {
		return nil, &ValidationError{Field: "workspace_id", Message: "cannot be zero"}
	}
	if ownerID.IsZero() {
		return nil, &ValidationError{Field: "owner_id", Message: "cannot be zero"}
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateBody(description); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Activity{
		ID:          ulid.Make(),
		WorkspaceID: workspaceID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      ActivityPlanned,
		DueAt:       dueAt,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
