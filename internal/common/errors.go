// Package common defines shared constants and sentinel errors used across
// the greeting service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (client supplied a payload the operation rejects).
	ErrorValidation = errors.New("validation error")

	// ErrorMissingIdentity means a write reached the audit stamper without an
	// authenticated caller in the request context. Authentication should make
	// this impossible, so it is a precondition failure rather than a normal
	// outcome.
	ErrorMissingIdentity = errors.New("missing request identity")

	// ErrVersionConflict signals an optimistic-concurrency clash: the row was
	// updated by someone else between read and write.
	ErrVersionConflict = errors.New("version conflict")
)
