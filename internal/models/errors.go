package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced group, expense, or split does
	// not exist or does not belong to the expected group.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied indicates the actor is not an active member of
	// the group or lacks the capability for the requested mutation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidSplitType indicates an unknown split strategy.
	ErrInvalidSplitType = errors.New("invalid split type")
)

// ValidationError carries a human-readable reason for rejecting
// caller-supplied input, surfaced verbatim as a 400-class response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
