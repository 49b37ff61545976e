package domain

import "errors"

var (
	// ErrNotFound is returned by read paths when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransientSource marks a failed upstream call (non-success status,
	// transport error, undecodable payload). It aborts one batch only.
	ErrTransientSource = errors.New("upstream source failed")

	// ErrMalformedRecord marks a single record that cannot be stored:
	// missing identity or out of scope. Such records are skipped.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrConfiguration is fatal at startup (unknown city, missing credential).
	ErrConfiguration = errors.New("configuration error")
)
