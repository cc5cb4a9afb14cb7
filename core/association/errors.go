package association

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAssociation indicates that a relation cannot be reconciled
	// because a conventional method is missing.
	ErrInvalidAssociation = errors.New("invalid association")

	// ErrInvalidCaller indicates that the convention-based entry point was
	// used from something that is not an entity setter.
	ErrInvalidCaller = errors.New("invalid caller")

	// ErrCoercion indicates that a candidate could not be turned into a
	// relation member.
	ErrCoercion = errors.New("association coercion failed")
)

// InvalidAssociationError names the relation and the method that is missing.
type InvalidAssociationError struct {
	// Relation is the owner-side relation name.
	Relation string
	// Inverse is the inverse relation name.
	Inverse string
	// Target is the type that lacks the method.
	Target string
	// Missing lists the method names that were looked up.
	Missing []string
}

// Error implements the error interface
func (e *InvalidAssociationError) Error() string {
	return fmt.Sprintf("invalid association %q (inverse %q): %s has no method %s",
		e.Relation, e.Inverse, e.Target, strings.Join(e.Missing, " or "))
}

// Is implements errors.Is support
func (e *InvalidAssociationError) Is(target error) bool {
	return target == ErrInvalidAssociation
}

// InvalidCallerError is returned by RunConvention.
type InvalidCallerError struct {
	// Caller is the setter name that was given.
	Caller string
	// Reason explains why it was rejected.
	Reason string
}

// Error implements the error interface
func (e *InvalidCallerError) Error() string {
	return fmt.Sprintf("invalid caller %q: %s", e.Caller, e.Reason)
}

// Is implements errors.Is support
func (e *InvalidCallerError) Is(target error) bool {
	return target == ErrInvalidCaller
}

// CoercionError reports a candidate that could not be used as a relation member.
type CoercionError struct {
	// Relation is the relation being reconciled.
	Relation string
	// Index is the position of the candidate, or -1 for the whole list.
	Index int
	// Value is the offending value.
	Value any
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface
func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot coerce %T into a member of %q", e.Value, e.Relation)
	if e.Index >= 0 {
		msg = fmt.Sprintf("candidate %d: %s", e.Index, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}
