package logicaltime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReferenceNames(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", Float64Name},
		{"   ", Float64Name},
		{"HLAfloat64Time", Float64Name},
		{"HLAfloat64TimeFactory", Float64Name},
		{" HLAinteger64Time ", Integer64Name},
		{"HLAinteger64TimeFactory", Integer64Name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Resolve(tt.name)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
			assert.Equal(t, tt.want, f.MakeInitial().ImplementationName())
			assert.Equal(t, tt.want, f.MakeZero().ImplementationName())
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, name := range Names() {
		a, err := Resolve(name)
		require.NoError(t, err)
		b, err := Resolve(name)
		require.NoError(t, err)

		x, err := a.ParseTime("12")
		require.NoError(t, err)
		y, err := b.ParseTime("12")
		require.NoError(t, err)
		eq, err := Equal(x, y)
		require.NoError(t, err)
		assert.True(t, eq, name)

		eq, err = Equal(a.MakeEpsilon(), b.MakeEpsilon())
		require.NoError(t, err)
		assert.True(t, eq, name)
	}
}

func TestResolveUnknownName(t *testing.T) {
	for _, name := range []string{"HLAbogusTime", "hlafloat64time", "HLAfloat64"} {
		t.Run(name, func(t *testing.T) {
			f, err := Resolve(name)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrInternal)
			assert.ErrorIs(t, err, ErrCouldNotCreateLogicalTimeFactory)

			var uerr *UnresolvableFactoryError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, name, uerr.Name)
			assert.Equal(t, []string{
				"HLAfloat64Time",
				"HLAfloat64TimeFactory",
				"HLAinteger64Time",
				"HLAinteger64TimeFactory",
			}, uerr.Valid)
			assert.Contains(t, err.Error(), name)
			assert.Contains(t, err.Error(), "HLAinteger64TimeFactory")
		})
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry("Custom")
	_, err := r.Resolve("")
	assert.ErrorIs(t, err, ErrCouldNotCreateLogicalTimeFactory, "default not registered yet")

	r.Register("Custom", NewInteger64Factory)
	f, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Integer64Name, f.Name())

	assert.Panics(t, func() { r.Register("Custom", NewFloat64Factory) })
	assert.Panics(t, func() { r.Register("Other", nil) })
	assert.Panics(t, func() { r.Register(" ", NewFloat64Factory) })
	assert.Equal(t, []string{"Custom"}, r.Names())
}

func TestRegistryConcurrentResolve(t *testing.T) {
	r := NewRegistry(Float64Name)
	r.Register(Float64Name, NewFloat64Factory)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f, err := r.Resolve(Float64Name)
				assert.NoError(t, err)
				assert.Equal(t, Float64Name, f.Name())
			}
		}()
	}
	wg.Wait()
}
