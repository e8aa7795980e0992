package model

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is the sentinel for status changes rejected by the
// lifecycle rules. Wrap it with the from/to pair via InvalidTransition.
var ErrInvalidTransition = errors.New("invalid transition")

func InvalidTransition(from, to JobStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// ValidationError reports a rejected input field before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
