// Package service holds the idea lifecycle, scoring and gamification
// engines plus the account and AI-assistant operations built on top of the
// record store.
package service

import (
	"errors"

	"github.com/iliyamo/innovation-hub/internal/repository"
)

// Error kinds surfaced to callers.  Every error returned by this package
// wraps exactly one of these (or repository.ErrConflict), so handlers can
// map them with errors.Is.
var (
	// ErrValidation covers missing fields, out-of-range scores and
	// malformed requests.  Nothing is mutated.
	ErrValidation = errors.New("validation error")

	// ErrForbidden is returned when a non-admin attempts an admin-only
	// operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for unknown idea ids, comment ids and usernames.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when the requested status change is
	// not reachable from the idea's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCollaborator is returned when the completion or speech-to-text
	// service fails or times out.
	ErrCollaborator = errors.New("assistant unavailable")

	// ErrInvalidCredentials is returned by Authenticate.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already exists")
)

// ErrConflict is re-exported so callers need only this package.
var ErrConflict = repository.ErrConflict
