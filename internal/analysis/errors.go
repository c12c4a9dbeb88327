package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a request fails validation. No model call is made.
var ErrInvalidInput = errors.New("invalid input")

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeInternal   = "internal_error"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
