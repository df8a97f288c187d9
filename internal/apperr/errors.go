package apperr

import "errors"

// ErrInvalid is returned when input fails domain validation
// (malformed phone numbers, unknown channels). Never retried.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the requested resource does not exist.
// In batch context a missing assignment or rider is logged, skipped and
// counted as failed, never raised.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")
