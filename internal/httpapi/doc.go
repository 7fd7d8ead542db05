// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

// Package httpapi exposes the authentication and team operations over a
// JSON REST interface. Handlers translate HTTP requests into service calls
// and map domain errors onto status codes; all business rules live in the
// auth and team packages.
package httpapi
