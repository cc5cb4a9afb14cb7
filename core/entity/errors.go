package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidField indicates a mapping key with no matching setter or field.
	ErrInvalidField = errors.New("invalid field name")

	// ErrCircularReference indicates a cycle through a value that has no
	// identity to substitute.
	ErrCircularReference = errors.New("circular reference")

	// ErrUnsupportedFormat indicates an unknown serialization format.
	ErrUnsupportedFormat = errors.New("unsupported serialization format")
)

// InvalidFieldError names the offending key.
type InvalidFieldError struct {
	// Field is the key as given by the caller.
	Field string
	// Method is the setter that was looked up, if any.
	Method string
}

// Error implements the error interface
func (e *InvalidFieldError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("invalid field name %q: no method %s", e.Field, e.Method)
	}
	return fmt.Sprintf("invalid field name %q", e.Field)
}

// Is implements errors.Is support
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}
