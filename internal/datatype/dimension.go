package datatype

import (
	"fmt"
	"strconv"
	"strings"
)

// CardinalityDynamic is the bound value of a dimension whose length is only
// known at runtime.
const CardinalityDynamic = -1

// Dimension is one axis of an ArrayType. A fixed dimension has equal bounds;
// a dynamic one has both bounds set to CardinalityDynamic.
type Dimension struct {
	lower int
	upper int
}

// DynamicDimension returns the dimension of a runtime-sized axis.
func DynamicDimension() Dimension {
	return Dimension{lower: CardinalityDynamic, upper: CardinalityDynamic}
}

// NewDimension returns a fixed dimension of the given cardinality, or a
// dynamic one when cardinality is CardinalityDynamic.
func NewDimension(cardinality int) (Dimension, error) {
	return NewDimensionRange(cardinality, cardinality)
}

// NewDimensionRange returns a dimension bounded by [lower, upper].
func NewDimensionRange(lower, upper int) (Dimension, error) {
	if lower == CardinalityDynamic || upper == CardinalityDynamic {
		if lower != upper {
			return Dimension{}, fmt.Errorf("%w: dimension range (%d..%d) cannot contain a dynamic bound", ErrMalformedDatatype, lower, upper)
		}
		return DynamicDimension(), nil
	}
	if lower < 0 || upper < 0 {
		return Dimension{}, fmt.Errorf("%w: dimension bounds must not be negative: (%d..%d)", ErrMalformedDatatype, lower, upper)
	}
	if lower > upper {
		return Dimension{}, fmt.Errorf("%w: dimension lower bound %d exceeds upper bound %d", ErrMalformedDatatype, lower, upper)
	}
	return Dimension{lower: lower, upper: upper}, nil
}

func (d Dimension) Lower() int { return d.lower }
func (d Dimension) Upper() int { return d.upper }

// IsDynamic reports whether the axis length is determined at runtime.
func (d Dimension) IsDynamic() bool { return d.lower == CardinalityDynamic }

// Equal compares both bounds.
func (d Dimension) Equal(other Dimension) bool {
	return d.lower == other.lower && d.upper == other.upper
}

// String renders the dimension in FOM cardinality syntax.
func (d Dimension) String() string {
	switch {
	case d.IsDynamic():
		return "Dynamic"
	case d.lower == d.upper:
		return strconv.Itoa(d.lower)
	default:
		return fmt.Sprintf("[%d..%d]", d.lower, d.upper)
	}
}

// FormatCardinality renders a list of dimensions as a FOM cardinality string.
func FormatCardinality(dims []Dimension) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// ParseCardinality parses a FOM cardinality string. Dimensions are separated
// by commas; each one is "Dynamic", a non-negative integer, or a range
// written "[a..b]" or "(a..b)".
func ParseCardinality(s string) ([]Dimension, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty cardinality", ErrMalformedDatatype)
	}
	var dims []Dimension
	for _, part := range strings.Split(s, ",") {
		d, err := parseDimension(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, nil
}

func parseDimension(s string) (Dimension, error) {
	if strings.EqualFold(s, "Dynamic") {
		return DynamicDimension(), nil
	}
	if len(s) >= 2 && (s[0] == '[' || s[0] == '(') {
		closing := s[len(s)-1]
		if closing != ']' && closing != ')' {
			return Dimension{}, fmt.Errorf("%w: unterminated cardinality range %q", ErrMalformedDatatype, s)
		}
		bounds := strings.SplitN(s[1:len(s)-1], "..", 2)
		if len(bounds) != 2 {
			return Dimension{}, fmt.Errorf("%w: cardinality range %q needs both bounds", ErrMalformedDatatype, s)
		}
		lower, err := parseBound(bounds[0], s)
		if err != nil {
			return Dimension{}, err
		}
		upper, err := parseBound(bounds[1], s)
		if err != nil {
			return Dimension{}, err
		}
		return NewDimensionRange(lower, upper)
	}
	n, err := parseBound(s, s)
	if err != nil {
		return Dimension{}, err
	}
	return NewDimension(n)
}

func parseBound(s, whole string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: cardinality %q is missing a bound", ErrMalformedDatatype, whole)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: cardinality %q is not numeric", ErrMalformedDatatype, whole)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: cardinality %q is negative", ErrMalformedDatatype, whole)
	}
	return n, nil
}
