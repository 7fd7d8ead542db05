// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

package team

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MaxTitleLength = 200
	MaxBodyLength  = 8000
	MaxSlugLength  = 50
)

// slugRegex matches lowercase identifiers usable in URLs and config.
var slugRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTitle checks that a title is non-empty, valid UTF-8, free of
// control characters, and within the length limit.
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if !utf8.ValidString(title) {
		return &ValidationError{Field: "title", Message: "must be valid UTF-8"}
	}
	if len(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("exceeds maximum length of %d", MaxTitleLength)}
	}
	if hasControlChars(title) {
		return &ValidationError{Field: "title", Message: "cannot contain control characters"}
	}
	return nil
}

// ValidateBody checks free-form text fields. Empty is allowed; newlines and
// tabs are allowed, other control characters are not.
func ValidateBody(body string) error {
	if !utf8.ValidString(body) {
		return &ValidationError{Field: "body", Message: "must be valid UTF-8"}
	}
	if len(body) > MaxBodyLength {
		return &ValidationError{Field: "body", Message: fmt.Sprintf("exceeds maximum length of %d", MaxBodyLength)}
	}
	for _, r := range body {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return &ValidationError{Field: "body", Message: "cannot contain control characters"}
		}
	}
	return nil
}

// ValidateSlug checks a workspace slug: lowercase, starts with a letter,
// letters/digits/hyphens only.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &ValidationError{Field: "slug", Message: "cannot be empty"}
	}
	if len(slug) > MaxSlugLength {
		return &ValidationError{Field: "slug", Message: fmt.Sprintf("exceeds maximum length of %d", MaxSlugLength)}
	}
	if !slugRegex.MatchString(slug) {
		return &ValidationError{Field: "slug", Message: "must start with a letter and contain only lowercase letters, digits, and hyphens"}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
