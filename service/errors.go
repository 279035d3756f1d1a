package service

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when a request is well formed but cannot be accepted
var ErrValidation = errors.New("validation failed")

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
