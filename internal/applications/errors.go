package applications

import (
	"errors"
	"strings"
)

var (
	ErrMissingUserID = errors.New("userId is required")
	ErrInvalidInput  = errors.New("invalid application")
)

// ValidationError lists the missing required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
