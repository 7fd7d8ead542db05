// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Workspace is the tenant boundary. Users and records belong to at most one
// workspace; super admins see across all of them.
type Workspace struct {
	ID        ulid.ULID
	Name      string
	Slug      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkspace creates a validated Workspace with a generated ID.
func NewWorkspace(name, slug string) (*Workspace, error) {
	if err := ValidateTitle(name); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Workspace{
		ID:        ulid.Make(),
		Name:      name,
		Slug:      slug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
