package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks an input field outside its domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPeriodExhausted is returned when a projection runs past the last deposit period.
	ErrPeriodExhausted = errors.New("deposit periods exhausted")
)

// ValidationError describes which input field failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
