package contract

import "errors"

var (
	// ErrNotFound is returned by mutations that target a missing row.
	// Finders return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition is returned when a status change is not allowed
	// from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput wraps request data that passed decoding but breaks a
	// domain rule, e.g. a non-positive amount.
	ErrInvalidInput = errors.New("invalid input")
)
