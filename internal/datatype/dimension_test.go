package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		input string
		want  []Dimension
	}{
		{"Dynamic", []Dimension{DynamicDimension()}},
		{"dynamic", []Dimension{DynamicDimension()}},
		{"0", []Dimension{{0, 0}}},
		{"12", []Dimension{{12, 12}}},
		{"[1..4]", []Dimension{{1, 4}}},
		{"(2..2)", []Dimension{{2, 2}}},
		{"3, [0..9], Dynamic", []Dimension{{3, 3}, {0, 9}, DynamicDimension()}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCardinality(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardinalityErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"", "empty cardinality"},
		{"many", "not numeric"},
		{"-3", "negative"},
		{"[5..1]", "exceeds upper bound"},
		{"[1..]", "missing a bound"},
		{"[..4]", "missing a bound"},
		{"[4]", "needs both bounds"},
		{"[1..4", "unterminated"},
		{"2,,3", "missing a bound"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCardinality(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDatatype)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDimensionRangeRejectsMixedDynamicBound(t *testing.T) {
	_, err := NewDimensionRange(CardinalityDynamic, 4)
	assert.ErrorIs(t, err, ErrMalformedDatatype)

	d, err := NewDimensionRange(CardinalityDynamic, CardinalityDynamic)
	require.NoError(t, err)
	assert.True(t, d.IsDynamic())
}

func TestDimensionString(t *testing.T) {
	fixed, err := NewDimension(8)
	require.NoError(t, err)
	ranged, err := NewDimensionRange(1, 3)
	require.NoError(t, err)

	assert.Equal(t, "Dynamic", DynamicDimension().String())
	assert.Equal(t, "8", fixed.String())
	assert.Equal(t, "[1..3]", ranged.String())
	assert.Equal(t, "8,[1..3],Dynamic", FormatCardinality([]Dimension{fixed, ranged, DynamicDimension()}))

	again, err := ParseCardinality(FormatCardinality([]Dimension{fixed, ranged, DynamicDimension()}))
	require.NoError(t, err)
	assert.Equal(t, []Dimension{fixed, ranged, DynamicDimension()}, again)
}

func TestDimensionEqual(t *testing.T) {
	a, _ := NewDimensionRange(1, 3)
	b, _ := NewDimensionRange(1, 3)
	c, _ := NewDimensionRange(1, 4)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(DynamicDimension()))
}
