package datatype

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSeedsNA(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, 1, b.Len())

	r, ok := b.Lookup("na")
	require.True(t, ok)
	assert.Equal(t, ClassNA, r.Class())
	assert.Equal(t, Handle(0), r.Handle())

	dt, err := b.Get(r)
	require.NoError(t, err)
	assert.Same(t, NA, dt)
}

func TestBuilderLookupIsCaseInsensitive(t *testing.T) {
	b := NewBuilder()
	r := b.MustAdd(NewBasicType("HLAfloat64BE", 64, Big))

	got, ok := b.Lookup("hlaFLOAT64be")
	require.True(t, ok)
	assert.True(t, got.Same(r))

	_, err := b.Add(mustBasic(t, "HLAFLOAT64BE"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestBuilderRejectsForeignReferences(t *testing.T) {
	other := NewBuilder()
	foreign := other.MustAdd(NewBasicType("Int32", 32, Big))

	b := NewBuilder()
	simple, err := NewSimpleType("Count", foreign)
	require.NoError(t, err)
	_, err = b.Add(simple)
	assert.ErrorIs(t, err, ErrForeignReference)

	_, err = b.Get(foreign)
	assert.ErrorIs(t, err, ErrForeignReference)
}

func TestModelIsSnapshot(t *testing.T) {
	b := NewBuilder()
	first := b.MustAdd(NewBasicType("First", 8, Big))
	m := b.Build()
	later := b.MustAdd(NewBasicType("Later", 8, Big))

	assert.Equal(t, 2, m.Len())
	dt, err := m.Get(first)
	require.NoError(t, err)
	assert.Equal(t, "First", dt.Name())

	_, err = m.Get(later)
	assert.ErrorIs(t, err, ErrForeignReference)
	_, ok := m.Lookup("Later")
	assert.False(t, ok)
}

func TestModelRefsInInsertionOrder(t *testing.T) {
	b := NewBuilder()
	b.MustAdd(NewBasicType("A", 8, Big))
	b.MustAdd(NewBasicType("B", 8, Big))
	m := b.Build()

	var names []string
	for _, r := range m.Refs() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"NA", "A", "B"}, names)
}

func TestModelChildren(t *testing.T) {
	b, int32LE, float32BE := newTestBuilder(t)
	rec := b.MustAdd(NewFixedRecordType("Pos", mustField(t, "x", int32LE), mustField(t, "y", float32BE)))
	m := b.Build()

	children, err := m.Children(rec)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.True(t, children[0].Same(int32LE))
	assert.True(t, children[1].Same(float32BE))
}

func TestAsAssertsVariant(t *testing.T) {
	b, int32LE, _ := newTestBuilder(t)
	m := b.Build()

	basic, err := As[*BasicType](m, int32LE)
	require.NoError(t, err)
	assert.Equal(t, 32, basic.Size())
	assert.Equal(t, Little, basic.Endianness())

	_, err = As[*ArrayType](m, int32LE)
	assert.Error(t, err)
}

func TestModelConcurrentReaders(t *testing.T) {
	m := StandardModel()
	refs := m.Refs()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, r := range refs {
				dt, err := m.Get(r)
				assert.NoError(t, err)
				got, ok := m.Lookup(dt.Name())
				assert.True(t, ok)
				assert.True(t, got.Same(r))
			}
		}()
	}
	wg.Wait()
}

func TestZeroRefIsInvalid(t *testing.T) {
	var r Ref
	assert.False(t, r.IsValid())
	assert.Equal(t, "<invalid>", r.String())
}

func mustBasic(t *testing.T, name string) *BasicType {
	t.Helper()
	bt, err := NewBasicType(name, 64, Big)
	require.NoError(t, err)
	return bt
}
