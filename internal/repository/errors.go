package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrConflict matches any *ConflictError via errors.Is.
var ErrConflict = errors.New("unique constraint violated")

// ConflictError reports an insert rejected by a uniqueness constraint.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "duplicate value for " + e.Field
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
