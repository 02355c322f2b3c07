package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardModelContents(t *testing.T) {
	m := StandardModel()
	assert.Equal(t, 54, m.Len())

	tests := []struct {
		name  string
		class Class
	}{
		{"NA", ClassNA},
		{"HLAinteger32BE", ClassBasic},
		{"HLAoctet", ClassBasic},
		{"HLAfloat64Time", ClassSimple},
		{"HLAboolean", ClassEnumerated},
		{"HLAsynchPointStatus", ClassEnumerated},
		{"HLAtoken", ClassArray},
		{"HLAunicodeString", ClassArray},
		{"HLAsynchPointFederate", ClassFixedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := m.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.class, r.Class())
		})
	}
}

func TestStandardDetails(t *testing.T) {
	m := StandardModel()

	octetPair, ok := m.LookupType("HLAoctetPairLE")
	require.True(t, ok)
	assert.Equal(t, 16, octetPair.(*BasicType).Size())
	assert.Equal(t, Little, octetPair.(*BasicType).Endianness())

	state, ok := m.LookupType("HLAfederateState")
	require.True(t, ok)
	e, ok := state.(*EnumeratedType).Enumerator("FederateRestoreInProgress")
	require.True(t, ok)
	assert.Equal(t, "5", e.Value())

	boolean, _ := m.LookupType("HLAboolean")
	assert.Equal(t, Sequential("HLAfalse", "HLAtrue"), boolean.(*EnumeratedType).Enumerators())

	token, _ := m.LookupType("HLAtoken")
	assert.False(t, token.(*ArrayType).IsDynamic())
	assert.Equal(t, 0, token.(*ArrayType).UpperBound())

	handleList, _ := m.LookupType("HLAhandleList")
	assert.Equal(t, "HLAhandle", handleList.(*ArrayType).ElementType().Name())
}

func TestStandardTwicePanics(t *testing.T) {
	b := NewBuilder()
	Standard(b)
	assert.Panics(t, func() { Standard(b) })
}
