// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Environment identifies where a deployment lands.
type Environment string

// Deployment environments.
const (
	EnvDev     Environment = "DEV"
	EnvQA      Environment = "QA"
	EnvStaging Environment = "STAGING"
	EnvProd    Environment = "PROD"
)

// Valid reports whether the environment is a known value.
func (e Environment) Valid() bool {
	switch e {
	case EnvDev, EnvQA, EnvStaging, EnvProd:
		return true
	}
	return false
}

// DeploymentStatus tracks a deployment through its lifecycle.
type DeploymentStatus string

// Deployment statuses. ROLLED_BACK is terminal; COMPLETED and FAILED admit
// only a rollback.
const (
	DeployScheduled  DeploymentStatus = "SCHEDULED"
	DeployInProgress DeploymentStatus = "IN_PROGRESS"
	DeployCompleted  DeploymentStatus = "COMPLETED"
	DeployFailed     DeploymentStatus = "FAILED"
	DeployRolledBack DeploymentStatus = "ROLLED_BACK"
)

// Valid reports whether the status is a known value.
func (s DeploymentStatus) Valid() bool {
	switch s {
	case DeployScheduled, DeployInProgress, DeployCompleted, DeployFailed, DeployRolledBack:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (s DeploymentStatus) CanTransitionTo(next DeploymentStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case DeployScheduled:
		return next == DeployInProgress || next == DeployFailed
	case DeployInProgress:
		return next == DeployCompleted || next == DeployFailed
	case DeployCompleted, DeployFailed:
		return next == DeployRolledBack
	case DeployRolledBack:
		return false
	}
	return false
}

// Deployment records a component version landing in an environment.
type Deployment struct {
	ID          ulid.ULID
	WorkspaceID ulid.ULID
	DeployedBy  ulid.ULID
	Component   string
	Version     string
	Environment Environment
	Status      DeploymentStatus
	ScheduledAt time.Time
	CompletedAt *time.Time // set when the deployment reaches COMPLETED
	Notes       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDeployment creates a validated Deployment in the SCHEDULED state.
func NewDeployment(workspaceID, deployedBy ulid.ULID, component, version string, env Environment, scheduledAt time.Time, notes string) (*Deployment, error) {
	if workspaceID.IsZero() {
		return nil, &ValidationError{Field: "workspace_id", Message: "cannot be zero"}
	}
	if deployedBy.IsZero() {
		return nil, &ValidationError{Field: "deployed_by", Message: "cannot be zero"}
	}
	if err := ValidateTitle(component); err != nil {
		return nil, &ValidationError{Field: "component", Message: "must be a valid non-empty name"}
	}
	if version == "" {
		return nil, &ValidationError{Field: "version", Message: "cannot be empty"}
	}
	if !env.Valid() {
		return nil, &ValidationError{Field: "environment", Message: "unknown environment"}
	}
	if err := ValidateBody(notes); err != nil {
		return nil, err
	}
	if scheduledAt.IsZero() {
		scheduledAt = time.Now()
	}

	now := time.Now()
	return &Deployment{
		ID:          ulid.Make(),
		WorkspaceID: workspaceID,
		DeployedBy:  deployedBy,
		Component:   component,
		Version:     version,
		Environment: env,
		Status:      DeployScheduled,
		ScheduledAt: scheduledAt,
		Notes:       notes,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
