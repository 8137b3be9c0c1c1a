package service

import (
	"errors"
	"strings"

	"github.com/contactbook/backend/internal/validation"
)

// ErrNotFound is returned when the target contact does not exist.
var ErrNotFound = errors.New("contact not found")

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Errors validation.FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, f+": "+e.Errors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors presents the conflict in the same shape as a validation failure.
func (e *ConflictError) FieldErrors() validation.FieldErrors {
	return validation.FieldErrors{e.Field: e.Message}
}

// StorageError hides an unexpected store failure. Err is kept for logging
// and is never shown to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage failure during " + e.Op
}

func (e *StorageError) Unwrap() error { return e.Err }
