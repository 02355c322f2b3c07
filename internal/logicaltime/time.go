package logicaltime

import "fmt"

// Time is a point on a federation's logical time axis.
//
// Mutators work in place. A mutator that fails leaves the receiver unchanged.
type Time interface {
	// ImplementationName returns the name the family is registered under.
	ImplementationName() string

	SetInitial()
	IsInitial() bool
	SetFinal()
	IsFinal() bool

	// Add advances the time by an interval of the same family.
	Add(i Interval) error
	// Subtract moves the time back by an interval of the same family.
	Subtract(i Interval) error
	// Distance returns the absolute difference between two times.
	Distance(other Time) (Interval, error)
	// Compare returns -1, 0 or +1.
	Compare(other Time) (int, error)

	Clone() Time

	EncodedLength() int
	Encode() VariableLengthData
	// EncodeTo writes into buf and returns the number of bytes written.
	EncodeTo(buf []byte) (int, error)
	Decode(data VariableLengthData) error
	// DecodeFrom reads from the start of buf. Trailing bytes are ignored.
	DecodeFrom(buf []byte) error

	String() string
}

// Interval is a non-negative duration on a federation's logical time axis.
type Interval interface {
	ImplementationName() string

	SetZero()
	IsZero() bool
	SetEpsilon()
	IsEpsilon() bool

	Add(other Interval) error
	Subtract(other Interval) error
	Compare(other Interval) (int, error)

	Clone() Interval

	EncodedLength() int
	Encode() VariableLengthData
	EncodeTo(buf []byte) (int, error)
	Decode(data VariableLengthData) error
	DecodeFrom(buf []byte) error

	String() string
}

// Ordered is implemented by Time and Interval.
type Ordered[T any] interface {
	Compare(other T) (int, error)
}

// Less reports a < b.
func Less[T Ordered[T]](a, b T) (bool, error) {
	c, err := a.Compare(b)
	return c < 0, err
}

// Greater reports a > b.
func Greater[T Ordered[T]](a, b T) (bool, error) {
	c, err := a.Compare(b)
	return c > 0, err
}

// Equal reports a == b.
func Equal[T Ordered[T]](a, b T) (bool, error) {
	c, err := a.Compare(b)
	return c == 0, err
}

// LessOrEqual reports a <= b.
func LessOrEqual[T Ordered[T]](a, b T) (bool, error) {
	c, err := a.Compare(b)
	return c <= 0, err
}

// GreaterOrEqual reports a >= b.
func GreaterOrEqual[T Ordered[T]](a, b T) (bool, error) {
	c, err := a.Compare(b)
	return c >= 0, err
}

// Factory mints times and intervals of one family.
type Factory interface {
	// Name is the canonical implementation name of the family.
	Name() string

	MakeInitial() Time
	MakeFinal() Time
	MakeZero() Interval
	MakeEpsilon() Interval

	DecodeTime(data VariableLengthData) (Time, error)
	DecodeInterval(data VariableLengthData) (Interval, error)

	// ParseTime reads a decimal value or one of "initial", "final".
	ParseTime(s string) (Time, error)
	// ParseInterval reads a decimal value or one of "zero", "epsilon".
	ParseInterval(s string) (Interval, error)
}

func implementationOf(v interface{ ImplementationName() string }) string {
	if v == nil {
		return "<nil>"
	}
	return v.ImplementationName()
}

func shortBuffer(op, impl string, need, have int) error {
	kind := ErrCouldNotEncode
	if op == "decode" {
		kind = ErrCouldNotDecode
	}
	return &CodecError{Op: op, Implementation: impl, Need: need, Have: have, Kind: kind}
}

func malformedInput(impl, format string, args ...any) error {
	return &CodecError{Op: "decode", Implementation: impl, Reason: fmt.Sprintf(format, args...), Kind: ErrCouldNotDecode}
}
