// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package httpapi_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mm-cyberlabs/open-team-sub000/internal/auth"
	"github.com/mm-cyberlabs/open-team-sub000/internal/team"
)

// The fakes below are map-backed repository implementations so handler tests
// can drive the real services end to end without a database.

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[ulid.ULID]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return auth.ErrUsernameTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return auth.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id ulid.ULID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.Active = false
	return nil
}

func (r *fakeUserRepo) ListByWorkspace(_ context.Context, workspaceID ulid.ULID) ([]*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*auth.User
	for _, u := range r.users {
		if u.WorkspaceID != nil && *u.WorkspaceID == workspaceID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session // keyed by token
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Invalidate(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.Active = false
	}
	return nil
}

func (r *fakeSessionRepo) InvalidateAllForUser(_ context.Context, userID ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID {
			s.Active = false
		}
	}
	return nil
}

func (r *fakeSessionRepo) SweepExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	now := time.Now()
	for _, s := range r.sessions {
		if s.Active && now.After(s.ExpiresAt) {
			s.Active = false
			count++
		}
	}
	return count, nil
}

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[ulid.ULID]*team.Workspace
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: make(map[ulid.ULID]*team.Workspace)}
}

func (r *fakeWorkspaceRepo) Get(_ context.Context, id ulid.ULID) (*team.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	if !ok || !ws.Active {
		return nil, team.ErrNotFound
	}
	cp := *ws
	return &cp, nil
}

func (r *fakeWorkspaceRepo) GetBySlug(_ context.Context, slug string) (*team.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ws := range r.workspaces {
		if ws.Slug == slug && ws.Active {
			cp := *ws
			return &cp, nil
		}
	}
	return nil, team.ErrNotFound
}

func (r *fakeWorkspaceRepo) Create(_ context.Context, ws *team.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ws
	r.workspaces[ws.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) Update(_ context.Context, ws *team.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workspaces[ws.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *ws
	r.workspaces[ws.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return team.ErrNotFound
	}
	ws.Active = false
	return nil
}

func (r *fakeWorkspaceRepo) List(_ context.Context) ([]*team.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.Workspace
	for _, ws := range r.workspaces {
		if ws.Active {
			cp := *ws
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeAnnouncementRepo struct {
	mu    sync.Mutex
	items map[ulid.ULID]*team.Announcement
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{items: make(map[ulid.ULID]*team.Announcement)}
}

func (r *fakeAnnouncementRepo) Get(_ context.Context, id ulid.ULID) (*team.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || !a.Active {
		return nil, team.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, a *team.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, a *team.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAnnouncementRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return team.ErrNotFound
	}
	a.Active = false
	return nil
}

func (r *fakeAnnouncementRepo) ListByWorkspace(_ context.Context, workspaceID ulid.ULID) ([]*team.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.Announcement
	for _, a := range r.items {
		if a.WorkspaceID == workspaceID && a.Active {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

type fakeActivityRepo struct {
	mu    sync.Mutex
	items map[ulid.ULID]*team.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{items: make(map[ulid.ULID]*team.Activity)}
}

func (r *fakeActivityRepo) Get(_ context.Context, id ulid.ULID) (*team.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || !a.Active {
		return nil, team.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeActivityRepo) Create(_ context.Context, a *team.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeActivityRepo) Update(_ context.Context, a *team.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeActivityRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return team.ErrNotFound
	}
	a.Active = false
	return nil
}

func (r *fakeActivityRepo) ListByWorkspace(_ context.Context, workspaceID ulid.ULID) ([]*team.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.Activity
	for _, a := range r.items {
		if a.WorkspaceID == workspaceID && a.Active {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type fakeTargetDateRepo struct {
	mu    sync.Mutex
	items map[ulid.ULID]*team.TargetDate
}

func newFakeTargetDateRepo() *fakeTargetDateRepo {
	return &fakeTargetDateRepo{items: make(map[ulid.ULID]*team.TargetDate)}
}

func (r *fakeTargetDateRepo) Get(_ context.Context, id ulid.ULID) (*team.TargetDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.items[id]
	if !ok || !td.Active {
		return nil, team.ErrNotFound
	}
	cp := *td
	return &cp, nil
}

func (r *fakeTargetDateRepo) Create(_ context.Context, td *team.TargetDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *td
	r.items[td.ID] = &cp
	return nil
}

func (r *fakeTargetDateRepo) Update(_ context.Context, td *team.TargetDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[td.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *td
	r.items[td.ID] = &cp
	return nil
}

func (r *fakeTargetDateRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.items[id]
	if !ok {
		return team.ErrNotFound
	}
	td.Active = false
	return nil
}

func (r *fakeTargetDateRepo) ListByWorkspace(_ context.Context, workspaceID ulid.ULID) ([]*team.TargetDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.TargetDate
	for _, td := range r.items {
		if td.WorkspaceID == workspaceID && td.Active {
			cp := *td
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetOn.Before(out[j].TargetOn) })
	return out, nil
}

type fakeDeploymentRepo struct {
	mu    sync.Mutex
	items map[ulid.ULID]*team.Deployment
}

func newFakeDeploymentRepo() *fakeDeploymentRepo {
	return &fakeDeploymentRepo{items: make(map[ulid.ULID]*team.Deployment)}
}

func (r *fakeDeploymentRepo) Get(_ context.Context, id ulid.ULID) (*team.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok || !d.Active {
		return nil, team.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeploymentRepo) Create(_ context.Context, d *team.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *fakeDeploymentRepo) Update(_ context.Context, d *team.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return team.ErrNotFound
	}
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *fakeDeploymentRepo) Deactivate(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return team.ErrNotFound
	}
	d.Active = false
	return nil
}

func (r *fakeDeploymentRepo) ListByWorkspace(_ context.Context, workspaceID ulid.ULID) ([]*team.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.Deployment
	for _, d := range r.items {
		if d.WorkspaceID == workspaceID && d.Active {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (r *fakeDeploymentRepo) ListByComponent(_ context.Context, workspaceID ulid.ULID, component string) ([]*team.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*team.Deployment
	for _, d := range r.items {
		if d.WorkspaceID == workspaceID && d.Component == component && d.Active {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

// Compile-time interface checks.
var (
	_ auth.PasswordHasher         = fakeHasher{}
	_ auth.UserRepository         = (*fakeUserRepo)(nil)
	_ auth.SessionRepository      = (*fakeSessionRepo)(nil)
	_ team.WorkspaceRepository    = (*fakeWorkspaceRepo)(nil)
	_ team.AnnouncementRepository = (*fakeAnnouncementRepo)(nil)
	_ team.ActivityRepository     = (*fakeActivityRepo)(nil)
	_ team.TargetDateRepository   = (*fakeTargetDateRepo)(nil)
	_ team.DeploymentRepository   = (*fakeDeploymentRepo)(nil)
)
