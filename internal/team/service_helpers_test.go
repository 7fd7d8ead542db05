// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"
)

// MockWorkspaceRepository is a mock for WorkspaceRepository.
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, ws *Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Get(ctx context.Context, id ulid.ULID) (*Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, ws *Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) List(ctx context.Context) ([]*Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnnouncementRepository is a mock for AnnouncementRepository.
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, a *Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Get(ctx context.Context, id ulid.ULID) (*Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Announcement, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Announcement), args.Error(1)
}

// MockActivityRepository is a mock for ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) Get(ctx context.Context, id ulid.ULID) (*Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, a *Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Activity, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Activity), args.Error(1)
}

// MockTargetDateRepository is a mock for TargetDateRepository.
type MockTargetDateRepository struct {
	mock.Mock
}

func (m *MockTargetDateRepository) Create(ctx context.Context, td *TargetDate) error {
	args := m.Called(ctx, td)
	return args.Error(0)
}

func (m *MockTargetDateRepository) Get(ctx context.Context, id ulid.ULID) (*TargetDate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TargetDate), args.Error(1)
}

func (m *MockTargetDateRepository) Update(ctx context.Context, td *TargetDate) error {
	args := m.Called(ctx, td)
	return args.Error(0)
}

func (m *MockTargetDateRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTargetDateRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*TargetDate, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*TargetDate), args.Error(1)
}

// MockDeploymentRepository is a mock for DeploymentRepository.
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) Create(ctx context.Context, d *Deployment) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeploymentRepository) Get(ctx context.Context, id ulid.ULID) (*Deployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) Update(ctx context.Context, d *Deployment) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeploymentRepository) Deactivate(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeploymentRepository) ListByWorkspace(ctx context.Context, workspaceID ulid.ULID) ([]*Deployment, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) ListByComponent(ctx context.Context, workspaceID ulid.ULID, component string) ([]*Deployment, error) {
	args := m.Called(ctx, workspaceID, component)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Deployment), args.Error(1)
}
