package fom

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/rtikit/internal/datatype"
)

func TestExportRoundTrip(t *testing.T) {
	om, err := Resolve(loadXML(t, "restaurant.xml"))
	require.NoError(t, err)

	d := Export(om)
	assert.Equal(t, "RestaurantFOM", d.Module)
	assert.Equal(t, 8, d.Len(), "standard datatypes are not exported")
	assert.Empty(t, Validate(d))

	again, err := Resolve(d)
	require.NoError(t, err)
	want, err := datatype.ModelFingerprint(om.Datatypes)
	require.NoError(t, err)
	got, err := datatype.ModelFingerprint(again.Datatypes)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Equal(t, om.ObjectClasses(), again.ObjectClasses())
	r, err := again.ParameterDatatype("HLAinteractionRoot.Serve", "course")
	require.NoError(t, err)
	assert.Equal(t, "Course", r.Name())
}

func TestExportMergedName(t *testing.T) {
	base, err := Resolve(loadCUE(t, "restaurant.cue"))
	require.NoError(t, err)
	merged, err := Merge(base, loadCUE(t, "dessert.cue"))
	require.NoError(t, err)
	assert.Equal(t, "RestaurantFOM+DessertExtension", Export(merged).Module)
}

func TestLoaderDispatchesByExtension(t *testing.T) {
	l := NewLoader(zap.NewNop().Sugar())
	ctx := context.Background()

	fromXML, err := l.Load(ctx, filepath.Join("testdata", "restaurant.xml"))
	require.NoError(t, err)
	fromCUE, err := l.Load(ctx, filepath.Join("testdata", "restaurant.cue"))
	require.NoError(t, err)
	assert.Equal(t, fromXML.Module, fromCUE.Module)

	_, err = l.Load(ctx, filepath.Join("testdata", "missing.xml"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	odd := filepath.Join(dir, "module.json")
	require.NoError(t, os.WriteFile(odd, []byte("{}"), 0o644))
	_, err = l.Load(ctx, odd)
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "unsupported module format")
}

func TestLoaderCachesAndShares(t *testing.T) {
	l := NewLoader(nil)
	path := filepath.Join("testdata", "restaurant.cue")

	var wg sync.WaitGroup
	results := make([]*Declarations, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Load(context.Background(), path)
			assert.NoError(t, err)
			results[i] = d
		}()
	}
	wg.Wait()

	for _, d := range results {
		assert.Same(t, results[0], d)
	}
}

func TestLoaderLoadModel(t *testing.T) {
	l := NewLoader(nil)
	om, err := l.LoadModel(context.Background(),
		filepath.Join("testdata", "restaurant.xml"),
		filepath.Join("testdata", "dessert.cue"))
	require.NoError(t, err)
	assert.Equal(t, []string{"RestaurantFOM", "DessertExtension"}, []string{om.Modules()[0].Module, om.Modules()[1].Module})
	_, ok := om.Datatypes.Lookup("Sundae")
	assert.True(t, ok)

	_, err = l.LoadModel(context.Background(), filepath.Join("testdata", "broken.cue"))
	assert.Error(t, err)
}

func TestLoaderCanceledContext(t *testing.T) {
	l := NewLoader(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, filepath.Join("testdata", "dessert.cue"))
	assert.ErrorIs(t, err, context.Canceled)
}
