package logicaltime

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float64Name is the implementation name of the float64 family.
//
// Encoding: 8 bytes, big-endian IEEE-754 binary64. Initial is 0, final is
// math.MaxFloat64, zero is 0 and epsilon is math.SmallestNonzeroFloat64.
const Float64Name = "HLAfloat64Time"

const float64Size = 8

func init() {
	Register(Float64Name, NewFloat64Factory)
	Register(Float64Name+"Factory", NewFloat64Factory)
}

// Float64Time is a logical time of the float64 family.
type Float64Time struct {
	v float64
}

// NewFloat64Time returns a time holding v.
func NewFloat64Time(v float64) *Float64Time {
	return &Float64Time{v: v}
}

func (t *Float64Time) Value() float64             { return t.v }
func (t *Float64Time) ImplementationName() string { return Float64Name }
func (t *Float64Time) SetInitial()                { t.v = 0 }
func (t *Float64Time) IsInitial() bool            { return t.v == 0 }
func (t *Float64Time) SetFinal()                  { t.v = math.MaxFloat64 }
func (t *Float64Time) IsFinal() bool              { return t.v == math.MaxFloat64 }
func (t *Float64Time) Clone() Time                { return &Float64Time{v: t.v} }

func (t *Float64Time) Add(i Interval) error {
	iv, err := float64IntervalArg("Add", i)
	if err != nil {
		return err
	}
	return t.apply("+", iv, t.v+iv.v)
}

func (t *Float64Time) Subtract(i Interval) error {
	iv, err := float64IntervalArg("Subtract", i)
	if err != nil {
		return err
	}
	return t.apply("-", iv, t.v-iv.v)
}

func (t *Float64Time) apply(op string, iv *Float64Interval, result float64) error {
	fail := func(reason string) error {
		return &ArithmeticError{Op: op, Target: t.String(), Operand: iv.String(), Reason: reason}
	}
	if t.IsFinal() && iv.v != 0 {
		return fail("final time does not move")
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return fail("result overflows")
	}
	if result < 0 {
		return fail("result precedes the initial time")
	}
	t.v = result
	return nil
}

func (t *Float64Time) Distance(other Time) (Interval, error) {
	o, err := float64TimeArg("Distance", other)
	if err != nil {
		return nil, err
	}
	d := math.Abs(t.v - o.v)
	if math.IsInf(d, 0) {
		return nil, &ArithmeticError{Op: "distance", Target: t.String(), Operand: o.String(), Reason: "result overflows"}
	}
	return &Float64Interval{v: d}, nil
}

func (t *Float64Time) Compare(other Time) (int, error) {
	o, err := float64TimeArg("Compare", other)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(t.v, o.v), nil
}

func (t *Float64Time) EncodedLength() int { return float64Size }

func (t *Float64Time) Encode() VariableLengthData {
	return VariableLengthData{data: encodeFloat64(t.v)}
}

func (t *Float64Time) EncodeTo(buf []byte) (int, error) {
	return encodeFloat64To(buf, t.v)
}

func (t *Float64Time) Decode(data VariableLengthData) error {
	if data.Size() != float64Size {
		return malformedInput(Float64Name, "encoded time is %d bytes, want %d", data.Size(), float64Size)
	}
	return t.DecodeFrom(data.data)
}

func (t *Float64Time) DecodeFrom(buf []byte) error {
	v, err := decodeFloat64(buf)
	if err != nil {
		return err
	}
	t.v = v
	return nil
}

func (t *Float64Time) String() string {
	return fmt.Sprintf("%s<%s>", Float64Name, formatFloat64(t.v))
}

// Float64Interval is a logical time interval of the float64 family.
type Float64Interval struct {
	v float64
}

// NewFloat64Interval returns an interval holding v.
func NewFloat64Interval(v float64) *Float64Interval {
	return &Float64Interval{v: v}
}

func (i *Float64Interval) Value() float64             { return i.v }
func (i *Float64Interval) ImplementationName() string { return Float64Name }
func (i *Float64Interval) SetZero()                   { i.v = 0 }
func (i *Float64Interval) IsZero() bool               { return i.v == 0 }
func (i *Float64Interval) SetEpsilon()                { i.v = math.SmallestNonzeroFloat64 }
func (i *Float64Interval) IsEpsilon() bool            { return i.v == math.SmallestNonzeroFloat64 }
func (i *Float64Interval) Clone() Interval            { return &Float64Interval{v: i.v} }

func (i *Float64Interval) Add(other Interval) error {
	o, err := float64IntervalArg("Add", other)
	if err != nil {
		return err
	}
	return i.apply("+", o, i.v+o.v)
}

func (i *Float64Interval) Subtract(other Interval) error {
	o, err := float64IntervalArg("Subtract", other)
	if err != nil {
		return err
	}
	return i.apply("-", o, i.v-o.v)
}

func (i *Float64Interval) apply(op string, o *Float64Interval, result float64) error {
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return &ArithmeticError{Op: op, Target: i.String(), Operand: o.String(), Reason: "result overflows"}
	}
	if result < 0 {
		return &ArithmeticError{Op: op, Target: i.String(), Operand: o.String(), Reason: "interval would be negative"}
	}
	i.v = result
	return nil
}

func (i *Float64Interval) Compare(other Interval) (int, error) {
	o, err := float64IntervalArg("Compare", other)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(i.v, o.v), nil
}

func (i *Float64Interval) EncodedLength() int { return float64Size }

func (i *Float64Interval) Encode() VariableLengthData {
	return VariableLengthData{data: encodeFloat64(i.v)}
}

func (i *Float64Interval) EncodeTo(buf []byte) (int, error) {
	return encodeFloat64To(buf, i.v)
}

func (i *Float64Interval) Decode(data VariableLengthData) error {
	if data.Size() != float64Size {
		return malformedInput(Float64Name, "encoded interval is %d bytes, want %d", data.Size(), float64Size)
	}
	return i.DecodeFrom(data.data)
}

func (i *Float64Interval) DecodeFrom(buf []byte) error {
	v, err := decodeFloat64(buf)
	if err != nil {
		return err
	}
	i.v = v
	return nil
}

func (i *Float64Interval) String() string {
	return fmt.Sprintf("HLAfloat64Interval<%s>", formatFloat64(i.v))
}

func float64TimeArg(op string, t Time) (*Float64Time, error) {
	o, ok := t.(*Float64Time)
	if !ok || o == nil {
		return nil, &MismatchError{Op: op, Want: Float64Name, Got: implementationOf(t), Kind: ErrInvalidLogicalTime}
	}
	return o, nil
}

func float64IntervalArg(op string, i Interval) (*Float64Interval, error) {
	o, ok := i.(*Float64Interval)
	if !ok || o == nil {
		return nil, &MismatchError{Op: op, Want: Float64Name, Got: implementationOf(i), Kind: ErrInvalidLogicalTimeInterval}
	}
	return o, nil
}

func encodeFloat64(v float64) []byte {
	buf := make([]byte, float64Size)
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func encodeFloat64To(buf []byte, v float64) (int, error) {
	if len(buf) < float64Size {
		return 0, shortBuffer("encode", Float64Name, float64Size, len(buf))
	}
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
	return float64Size, nil
}

func decodeFloat64(buf []byte) (float64, error) {
	if len(buf) < float64Size {
		return 0, shortBuffer("decode", Float64Name, float64Size, len(buf))
	}
	v := math.Float64frombits(binary.BigEndian.Uint64(buf))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, malformedInput(Float64Name, "value %v is not finite", v)
	}
	if v < 0 {
		return 0, malformedInput(Float64Name, "value %v is negative", v)
	}
	return v, nil
}

func formatFloat64(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type float64Factory struct{}

// NewFloat64Factory returns the float64 family factory. It is stateless.
func NewFloat64Factory() Factory { return float64Factory{} }

func (float64Factory) Name() string          { return Float64Name }
func (float64Factory) MakeInitial() Time     { return &Float64Time{} }
func (float64Factory) MakeFinal() Time       { return &Float64Time{v: math.MaxFloat64} }
func (float64Factory) MakeZero() Interval    { return &Float64Interval{} }
func (float64Factory) MakeEpsilon() Interval { return &Float64Interval{v: math.SmallestNonzeroFloat64} }

func (float64Factory) DecodeTime(data VariableLengthData) (Time, error) {
	t := &Float64Time{}
	if err := t.Decode(data); err != nil {
		return nil, err
	}
	return t, nil
}

func (float64Factory) DecodeInterval(data VariableLengthData) (Interval, error) {
	i := &Float64Interval{}
	if err := i.Decode(data); err != nil {
		return nil, err
	}
	return i, nil
}

func (f float64Factory) ParseTime(s string) (Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initial":
		return f.MakeInitial(), nil
	case "final":
		return f.MakeFinal(), nil
	}
	v, err := parseFloat64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogicalTime, err)
	}
	return &Float64Time{v: v}, nil
}

func (f float64Factory) ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero":
		return f.MakeZero(), nil
	case "epsilon":
		return f.MakeEpsilon(), nil
	}
	v, err := parseFloat64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLogicalTimeInterval, err)
	}
	return &Float64Interval{v: v}, nil
}

func parseFloat64(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a float64 value", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q is negative", s)
	}
	return v, nil
}
