package fom

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

var (
	// ErrUndefinedDatatype is returned when a declaration names a datatype
	// that no module defines.
	ErrUndefinedDatatype = errors.New("undefined datatype")

	// ErrDatatypeCycle is returned when datatypes contain each other.
	ErrDatatypeCycle = errors.New("datatype cycle")

	// ErrUnknownClass is returned for lookups of undeclared object or
	// interaction classes and their members.
	ErrUnknownClass = errors.New("unknown class")
)

// ResolveError reports a declaration that could not be turned into a
// datatype.
type ResolveError struct {
	Module   string
	Datatype string
	Pos      Pos
	Err      error
}

func (e *ResolveError) Error() string {
	prefix := ""
	if p := e.Pos.String(); p != "" {
		prefix = p + ": "
	} else if e.Module != "" {
		prefix = e.Module + ": "
	}
	return fmt.Sprintf("%sdatatype %q: %v", prefix, e.Datatype, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// CompileError represents a CUE compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseError reports malformed XML module content.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
