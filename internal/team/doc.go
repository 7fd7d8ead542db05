// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

// Package team holds the workspace-scoped domain records: announcements,
// activities, target dates, and deployments.
//
// Domain types should be created using their constructors (NewWorkspace,
// NewAnnouncement, NewActivity, NewTargetDate, NewDeployment); direct struct
// initialization bypasses validation. Repository implementations hydrate
// rows back into these types.
//
// Service applies authorization before delegating to repositories. The
// acting user is passed explicitly on every call; there is no ambient
// current-user state. Super admins bypass workspace scoping, everyone else
// is confined to their own workspace.
package team
