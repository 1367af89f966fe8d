package models

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write races on a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrPersistenceUnavailable marks failures talking to the database.
	// Callers may retry; nothing below the caller does.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
