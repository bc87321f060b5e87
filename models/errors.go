package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation_failed")
	ErrEmptyCart  = errors.New("empty_cart")
	ErrNoPrinter  = errors.New("no_printer")
)

// Invalid wraps ErrValidation with a field-level reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
