package logicaltime

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLogicalTime is returned when a time from another family is
	// passed to a time operation.
	ErrInvalidLogicalTime = errors.New("invalid logical time")

	// ErrInvalidLogicalTimeInterval is returned when an interval from another
	// family is passed to a time or interval operation.
	ErrInvalidLogicalTimeInterval = errors.New("invalid logical time interval")

	// ErrIllegalTimeArithmetic is returned when arithmetic would leave the
	// representable range or operate on the final time.
	ErrIllegalTimeArithmetic = errors.New("illegal time arithmetic")

	// ErrCouldNotEncode is returned when a caller buffer is too small.
	ErrCouldNotEncode = errors.New("could not encode")

	// ErrCouldNotDecode is returned for truncated or malformed input.
	ErrCouldNotDecode = errors.New("could not decode")

	// ErrCouldNotCreateLogicalTimeFactory is returned when an implementation
	// name does not resolve to a registered factory.
	ErrCouldNotCreateLogicalTimeFactory = errors.New("could not create logical time factory")

	// ErrInternal marks configuration errors the RTI reports as internal.
	ErrInternal = errors.New("internal error")
)

// MismatchError reports a value from the wrong time family.
type MismatchError struct {
	Op   string // operation attempted, e.g. "Add"
	Want string // implementation name of the receiver
	Got  string // implementation name of the argument
	Kind error  // ErrInvalidLogicalTime or ErrInvalidLogicalTimeInterval
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %v: want %s, got %s", e.Op, e.Kind, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return e.Kind
}

// CodecError reports an encode or decode failure.
type CodecError struct {
	Op             string // "encode" or "decode"
	Implementation string
	Need           int // bytes required
	Have           int // bytes available
	Reason         string
	Kind           error // ErrCouldNotEncode or ErrCouldNotDecode
}

func (e *CodecError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v %s: %s", e.Kind, e.Implementation, e.Reason)
	}
	return fmt.Sprintf("%v %s: need %d bytes, have %d", e.Kind, e.Implementation, e.Need, e.Have)
}

func (e *CodecError) Unwrap() error {
	return e.Kind
}

// ArithmeticError reports an out-of-range arithmetic result.
type ArithmeticError struct {
	Op      string
	Target  string // String() of the unchanged target
	Operand string
	Reason  string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%v: %s %s %s: %s", ErrIllegalTimeArithmetic, e.Target, e.Op, e.Operand, e.Reason)
}

func (e *ArithmeticError) Unwrap() error {
	return ErrIllegalTimeArithmetic
}

// UnresolvableFactoryError reports an implementation name with no registered
// factory. It matches both ErrInternal and ErrCouldNotCreateLogicalTimeFactory.
type UnresolvableFactoryError struct {
	Name  string
	Valid []string
}

func (e *UnresolvableFactoryError) Error() string {
	return fmt.Sprintf("%v: unknown logical time implementation %q (valid: %s)",
		ErrCouldNotCreateLogicalTimeFactory, e.Name, strings.Join(e.Valid, ", "))
}

func (e *UnresolvableFactoryError) Unwrap() []error {
	return []error{ErrInternal, ErrCouldNotCreateLogicalTimeFactory}
}
