// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// TargetStatus tracks how a target date is trending.
type TargetStatus string

// Target date statuses. DONE and MISSED are terminal.
const (
	TargetOnTrack TargetStatus = "ON_TRACK"
	TargetAtRisk  TargetStatus = "AT_RISK"
	TargetMissed  TargetStatus = "MISSED"
	TargetDone    TargetStatus = "DONE"
)

// Valid reports whether the status is a known value.
func (s TargetStatus) Valid() bool {
	switch s {
	case TargetOnTrack, TargetAtRisk, TargetMissed, TargetDone:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s TargetStatus) Terminal() bool {
	return s == TargetDone || s == TargetMissed
}

// TargetDate is a milestone the team commits to.
type TargetDate struct {
	ID          ulid.ULID
	WorkspaceID ulid.ULID
	Title       string
	Description string
	TargetOn    time.Time // day granularity; stored as a date
	Status      TargetStatus
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTargetDate creates a validated TargetDate in the ON_TRACK state.
func NewTargetDate(workspaceID ulid.ULID, title, description string, targetOn time.Time) (*TargetDate, error) {
	if workspaceID.IsZero() {
		return nil, &ValidationError{Field: "workspace_id", Message: "cannot be zero"}
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateBody(description); err != nil {
		return nil, err
	}
	if targetOn.IsZero() {
		return nil, &ValidationError{Field: "target_on", Message: "cannot be zero"}
	}

	now := time.Now()
	return &TargetDate{
		ID:          ulid.Make(),
		WorkspaceID: workspaceID,
		Title:       title,
		Description: description,
		TargetOn:    targetOn,
		Status:      TargetOnTrack,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
