// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Priority orders announcements in the feed.
type Priority string

// Announcement priorities.
const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityUrgent:
		return true
	}
	return false
}

// Announcement is a workspace-wide notice. Soft-deleted via the active flag.
type Announcement struct {
	ID          ulid.ULID
	WorkspaceID ulid.ULID
	AuthorID    ulid.ULID
	Title       string
	Body        string
	Priority    Priority
	PublishedAt time.Time
	ExpiresAt   *time.Time // nil means the announcement does not expire
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAnnouncement creates a validated Announcement with a generated ID.
// An empty priority defaults to NORMAL.
func NewAnnouncement(workspaceID, authorID ulid.ULID, title, body string, priority Priority) (*Announcement, error) {
	if workspaceID.IsZero() {
		return nil, &ValidationError{Field: "workspace_id", Message: "cannot be zero"}
	}
	if authorID.IsZero() {
		return nil, &ValidationError{Field: "author_id", Message: "cannot be zero"}
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateBody(body); err != nil {
		return nil, err
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.Valid() {
		return nil, &ValidationError{Field: "priority", Message: "unknown priority"}
	}

	now := time.Now()
	return &Announcement{
		ID:          ulid.Make(),
		WorkspaceID: workspaceID,
		AuthorID:    authorID,
		Title:       title,
		Body:        body,
		Priority:    priority,
		PublishedAt: now,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsExpired reports whether the announcement has an expiry in the past.
func (a *Announcement) IsExpired() bool {
	return a.ExpiresAt != nil && time.Now().After(*a.ExpiresAt)
}
