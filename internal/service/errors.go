// Package service contains the business logic of the notes backend.
// Sentinel errors below are the whole error taxonomy surfaced to handlers;
// callers match them with errors.Is.
package service

import "errors"

var (
	// ErrValidation - the caller supplied invalid or missing input.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized - password mismatch or a locked protected note.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound - missing, soft-deleted or foreign record. Never reveals
	// which of those it was.
	ErrNotFound = errors.New("not found")

	// ErrConflict - unique constraint style failures (email/username taken).
	ErrConflict = errors.New("already exists")
)
