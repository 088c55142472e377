package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matching the portal's wire-level error codes. Handlers map
// these to HTTP statuses; services and repositories return them wrapped with
// context so callers can test with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrUnsupportedAction     = errors.New("unsupported action")
	ErrDraftStoreUnavailable = errors.New("draft store unavailable")
	ErrValidationFailed      = errors.New("validation failed")
)

// FieldError identifies a single invalid or missing field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field problems for one validation pass.
// It matches ErrValidationFailed under errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
