package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("operation not permitted")
	ErrUnauthorized = errors.New("unauthorized")

	ErrDuplicateVote = fmt.Errorf("user has already voted on this issue: %w", ErrConflict)
)

// ValidationError carries every failed rule, not only the first.
type ValidationError struct {
	Errors []string
}

func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
