package logicaltime

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Integer64Name is the implementation name of the integer64 family.
//
// Encoding: 8 bytes, big-endian two's complement. Initial is 0, final is
// math.MaxInt64, zero is 0 and epsilon is 1.
const Integer64Name = "HLAinteger64Time"

const integer64Size = 8

func init() {
	Register(Integer64Name, NewInteger64Factory)
	Register(Integer64Name+"Factory", NewInteger64Factory)
}

// Integer64Time is a logical time of the integer64 family.
type Integer64Time struct {
	v int64
}

// NewInteger64Time returns a time holding v.
func NewInteger64Time(v int64) *Integer64Time {
	return &Integer64Time{v: v}
}

func (t *Integer64Time) Value() int64               { return t.v }
func (t *Integer64Time) ImplementationName() string { return Integer64Name }
func (t *Integer64Time) SetInitial()                { t.v = 0 }
func (t *Integer64Time) IsInitial() bool            { return t.v == 0 }
func (t *Integer64Time) SetFinal()                  { t.v = math.MaxInt64 }
func (t *Integer64Time) IsFinal() bool              { return t.v == math.MaxInt64 }
func (t *Integer64Time) Clone() Time                { return &Integer64Time{v: t.v} }

func (t *Integer64Time) Add(i Interval) error {
	iv, err := integer64IntervalArg("Add", i)
	if err != nil {
		return err
	}
	r, ok := addInt64(t.v, iv.v)
	return t.apply("+", iv, r, ok)
}

func (t *Integer64Time) Subtract(i Interval) error {
	iv, err := integer64IntervalArg("Subtract", i)
	if err != nil {
		return err
	}
	r, ok := subInt64(t.v, iv.v)
	return t.apply("-", iv, r, ok)
}

func (t *Integer64Time) apply(op string, iv *Integer64Interval, result int64, ok bool) error {
	fail := func(reason string) error {
		return &ArithmeticError{Op: op, Target: t.String(), Operand: iv.String(), Reason: reason}
	}
	if t.IsFinal() && iv.v != 0 {
		return fail("final time does not move")
	}
	if !ok {
		return fail("result overflows")
	}
	if result < 0 {
		return fail("result precedes the initial time")
	}
	t.v = result
	return nil
}

func (t *Integer64Time) Distance(other Time) (Interval, error) {
	o, err := integer64TimeArg("Distance", other)
	if err != nil {
		return nil, err
	}
	hi, lo := max(t.v, o.v), min(t.v, o.v)
	d, ok := subInt64(hi, lo)
	if !ok {
		return nil, &ArithmeticError{Op: "distance", Target: t.String(), Operand: o.String(), Reason: "result overflows"}
	}
	return &Integer64Interval{v: d}, nil
}

func (t *Integer64Time) Compare(other Time) (int, error) {
	o, err := integer64TimeArg("Compare", other)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(t.v, o.v), nil
}

func (t *Integer64Time) EncodedLength() int { return integer64Size }

func (t *Integer64Time) Encode() VariableLengthData {
	return VariableLengthData{data: encodeInt64(t.v)}
}

func (t *Integer64Time) EncodeTo(buf []byte) (int, error) {
	return encodeInt64To(buf, t.v)
}

func (t *Integer64Time) Decode(data VariableLengthData) error {
	if data.Size() != integer64Size {
		return malformedInput(Integer64Name, "encoded time is %d bytes, want %d", data.Size(), integer64Size)
	}
	return t.DecodeFrom(data.data)
}

func (t *Integer64Time) DecodeFrom(buf []byte) error {
	v, err := decodeInt64(buf)
	if err != nil {
		return err
	}
	t.v = v
	return nil
}

func (t *Integer64Time) String() string {
	return fmt.Sprintf("%s<%d>", Integer64Name, t.v)
}

// Integer64Interval is a logical time interval of the integer64 family.
type Integer64Interval struct {
	v int64
}

// NewInteger64Interval returns an interval holding v.
func NewInteger64Interval(v int64) *Integer64Interval {
	return &Integer64Interval{v: v}
}

func (i *Integer64Interval) Value() int64               { return i.v }
func (i *Integer64Interval) ImplementationName() string { return Integer64Name }
func (i *Integer64Interval) SetZero()                   { i.v = 0 }
func (i *Integer64Interval) IsZero() bool               { return i.v == 0 }
func (i *Integer64Interval) SetEpsilon()                { i.v = 1 }
func (i *Integer64Interval) IsEpsilon() bool            { return i.v == 1 }
func (i *Integer64Interval) Clone() Interval            { return &Integer64Interval{v: i.v} }

func (i *Integer64Interval) Add(other Interval) error {
	o, err := integer64IntervalArg("Add", other)
	if err != nil {
		return err
	}
	r, ok := addInt64(i.v, o.v)
	return i.apply("+", o, r, ok)
}

func (i *Integer64Interval) Subtract(other Interval) error {
	o, err := integer64IntervalArg("Subtract", other)
	if err != nil {
		return err
	}
	r, ok := subInt64(i.v, o.v)
	return i.apply("-", o, r, ok)
}

func (i *Integer64Interval) apply(op string, o *Integer64Interval, result int64, ok bool) error {
	if !ok {
		return &ArithmeticError{Op: op, Target: i.String(), Operand: o.String(), Reason: "result overflows"}
	}
	if result < 0 {
		return &ArithmeticError{Op: op, Target: i.String(), Operand: o.String(), Reason: "interval would be negative"}
	}
	i.v = result
	return nil
}

func (i *Integer64Interval) Compare(other Interval) (int, error) {
	o, err := integer64IntervalArg("Compare", other)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(i.v, o.v), nil
}

func (i *Integer64Interval) EncodedLength() int { return integer64Size }

func (i *Integer64Interval) Encode() VariableLengthData {
	return VariableLengthData{data: encodeInt64(i.v)}
}

func (i *Integer64Interval) EncodeTo(buf []byte) (int, error) {
	return encodeInt64To(buf, i.v)
}

func (i *Integer64Interval) Decode(data VariableLengthData) error {
	if data.Size() != integer64Size {
		return malformedInput(Integer64Name, "encoded interval is %d bytes, want %d", data.Size(), integer64Size)
	}
	return i.DecodeFrom(data.data)
}

func (i *Integer64Interval) DecodeFrom(buf []byte) error {
	v, err := decodeInt64(buf)
	if err != nil {
		return err
	}
	i.v = v
	return nil
}

func (i *Integer64Interval) String() string {
	return fmt.Sprintf("HLAinteger64Interval<%d>", i.v)
}

func integer64TimeArg(op string, t Time) (*Integer64Time, error) {
	o, ok := t.(*Integer64Time)
	if !ok || o == nil {
		return nil, &MismatchError{Op: op, Want: Integer64Name, Got: implementationOf(t), Kind: ErrInvalidLogicalTime}
	}
	return o, nil
}

func integer64IntervalArg(op string, i Interval) (*Integer64Interval, error) {
	o, ok := i.(*Integer64Interval)
	if !ok || o == nil {
		return nil, &MismatchError{Op: op, Want: Integer64Name, Got: implementationOf(i), Kind: ErrInvalidLogicalTimeInterval}
	}
	return o, nil
}

func addInt64(a, b int64) (int64, bool) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

func subInt64(a, b int64) (int64, bool) {
	r := a - b
	if (b > 0 && r > a) || (b < 0 && r < a) {
		return 0, false
	}
	return r, true
}

func encodeInt64(v int64) []byte {
	buf := make([]byte, integer64Size)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func encodeInt64To(buf []byte, v int64) (int, error) {
	if len(buf) < integer64Size {
		return 0, shortBuffer("encode", Integer64Name, integer64Size, len(buf))
	}
	binary.BigEndian.PutUint64(buf, uint64(v))
	return integer64Size, nil
}

func decodeInt64(buf []byte) (int64, error) {
	if len(buf) < integer64Size {
		return 0, shortBuffer("decode", Integer64Name, integer64Size, len(buf))
	}
	v := int64(binary.BigEndian.Uint64(buf))
	if v < 0 {
		return 0, malformedInput(Integer64Name, "value %d is negative", v)
	}
	return v, nil
}

type integer64Factory struct{}

// NewInteger64Factory returns the integer64 family factory. It is stateless.
func NewInteger64Factory() Factory { return integer64Factory{} }

func (integer64Factory) Name() string          { return Integer64Name }
func (integer64Factory) MakeInitial() Time     { return &Integer64Time{} }
func (integer64Factory) MakeFinal() Time       { return &Integer64Time{v: math.MaxInt64} }
func (integer64Factory) MakeZero() Interval    { return &Integer64Interval{} }
func (integer64Factory) MakeEpsilon() Interval { return &Integer64Interval{v: 1} }

func (integer64Factory) DecodeTime(data VariableLengthData) (Time, error) {
	t := &Integer64Time{}
	if err := t.Decode(data); err != nil {
		return nil, err
	}
	return t, nil
}

func (integer64Factory) DecodeInterval(data VariableLengthData) (Interval, error) {
	i := &Integer64Interval{}
	if err := i.Decode(data); err != nil {
		return nil, err
	}
	return i, nil
}

func (f integer64Factory) ParseTime(s string) (Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initial":
		return f.MakeInitial(), nil
	case "final":
		return f.MakeFinal(), nil
	}
	v, err := parseInt64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogicalTime, err)
	}
	return &Integer64Time{v: v}, nil
}

func (f integer64Factory) ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero":
		return f.MakeZero(), nil
	case "epsilon":
		return f.MakeEpsilon(), nil
	}
	v, err := parseInt64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogicalTimeInterval, err)
	}
	return &Integer64Interval{v: v}, nil
}

func parseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an int64 value", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return v, nil
}
