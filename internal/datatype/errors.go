package datatype

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDatatype is returned when a descriptor violates one of its
	// construction invariants.
	ErrMalformedDatatype = errors.New("malformed datatype")

	// ErrDuplicateName is returned when a builder already holds a datatype
	// with the same folded name.
	ErrDuplicateName = errors.New("duplicate datatype name")

	// ErrForeignReference is returned when a Ref is used with a model that
	// did not issue it.
	ErrForeignReference = errors.New("datatype reference from another model")

	// ErrInconsistentFDD is returned when two FOM modules declare the same
	// datatype with different definitions.
	ErrInconsistentFDD = errors.New("inconsistent FDD")
)

// ConstructionError describes which invariant a descriptor violated.
type ConstructionError struct {
	Type   string // datatype name being constructed
	Field  string // offending attribute ("size", "representation", ...)
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("malformed datatype %q: %s: %s", e.Type, e.Field, e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return ErrMalformedDatatype
}

func malformed(typ, field, format string, args ...any) error {
	return &ConstructionError{Type: typ, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InconsistentError reports a pair of same-named datatypes that are not
// equivalent.
type InconsistentError struct {
	Datatype string
	Reason   string
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("inconsistent definition of datatype %q: %s", e.Datatype, e.Reason)
}

func (e *InconsistentError) Unwrap() error {
	return ErrInconsistentFDD
}
