package federation

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rtikit/internal/fom"
	"github.com/roach88/rtikit/internal/logicaltime"
	"github.com/roach88/rtikit/internal/store"
	"github.com/roach88/rtikit/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "rtikit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newManager(t *testing.T, st *store.Store) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), st,
		WithClock(testutil.NewResettableClock()),
		WithIDs(testutil.SequentialIDs()))
	require.NoError(t, err)
	return m
}

func restaurant() *fom.Declarations {
	return &fom.Declarations{
		Module: "RestaurantFOM",
		Enumerated: []fom.EnumeratedDecl{{
			Name: "Meal", Representation: "HLAinteger32BE",
			Enumerators: []fom.EnumeratorDecl{{Name: "Soup"}, {Name: "Fish"}},
		}},
		FixedRecords: []fom.FixedRecordDecl{{Name: "Order", Fields: []fom.FieldDecl{{Name: "meal", DataType: "Meal"}}}},
		InteractionClasses: []fom.ClassDecl{{
			Name: "HLAinteractionRoot.Serve", Members: []fom.MemberDecl{{Name: "order", DataType: "Order"}},
		}},
	}
}

func TestCreateAndOpen(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	m := newManager(t, st)

	f, err := m.Create(ctx, "dinner", "HLAinteger64TimeFactory", restaurant())
	require.NoError(t, err)
	assert.Equal(t, logicaltime.Integer64Name, f.Factory.Name())
	assert.Equal(t, int64(1), f.Seq)
	assert.NotEmpty(t, f.Fingerprint)

	opened, err := m.Open(ctx, "dinner")
	require.NoError(t, err)
	assert.Equal(t, f.ID, opened.ID)
	assert.Equal(t, f.Fingerprint, opened.Fingerprint)
	assert.Equal(t, logicaltime.Integer64Name, opened.Factory.Name())

	r, err := opened.Model.ParameterDatatype("HLAinteractionRoot.Serve", "order")
	require.NoError(t, err)
	assert.Equal(t, "Order", r.Name())

	feds, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, feds, 1)
	assert.Equal(t, logicaltime.Integer64Name, feds[0].TimeImplementation, "canonical name is stored")
}

func TestCreateDefaultsToFloat64(t *testing.T) {
	m := newManager(t, openStore(t))
	f, err := m.Create(context.Background(), "plain", "")
	require.NoError(t, err)
	assert.Equal(t, logicaltime.Float64Name, f.Factory.Name())
}

func TestCreateErrors(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, openStore(t))

	_, err := m.Create(ctx, "bogus", "HLAbogusTime")
	assert.ErrorIs(t, err, logicaltime.ErrCouldNotCreateLogicalTimeFactory)
	assert.ErrorIs(t, err, logicaltime.ErrInternal)

	bad := &fom.Declarations{Simple: []fom.SimpleDecl{{Name: "X", Representation: "Missing"}}}
	_, err = m.Create(ctx, "broken", "", bad)
	assert.ErrorIs(t, err, fom.ErrUndefinedDatatype)

	_, err = m.Create(ctx, "dinner", "", restaurant())
	require.NoError(t, err)
	_, err = m.Create(ctx, "dinner", "HLAinteger64Time", restaurant())
	assert.ErrorIs(t, err, ErrFederationExists)

	feds, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feds, 1, "failed creates leave nothing behind")
}

func TestOpenNotFound(t *testing.T) {
	m := newManager(t, openStore(t))
	_, err := m.Open(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrFederationNotFound)

	_, err = m.Join(context.Background(), "ghost", "tank")
	assert.ErrorIs(t, err, ErrFederationNotFound)
}

func TestJoinMintsSentinelsOnce(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, openStore(t))
	_, err := m.Create(ctx, "dinner", logicaltime.Float64Name, restaurant())
	require.NoError(t, err)

	j, err := m.Join(ctx, "dinner", "waiter")
	require.NoError(t, err)
	assert.True(t, j.InitialTime.IsInitial())
	assert.True(t, j.ZeroInterval.IsZero())
	assert.Equal(t, logicaltime.Float64Name, j.InitialTime.ImplementationName())
	assert.Equal(t, int64(2), j.Seq)

	_, err = m.Join(ctx, "dinner", "waiter")
	assert.ErrorIs(t, err, ErrFederateAlreadyJoined)

	_, err = m.Join(ctx, "dinner", "chef")
	require.NoError(t, err)

	joins, err := m.Joins(ctx, "dinner")
	require.NoError(t, err)
	require.Len(t, joins, 2)
	assert.Equal(t, "waiter", joins[0].Federate)
	assert.Equal(t, "chef", joins[1].Federate)
	for _, jn := range joins {
		eq, err := logicaltime.Equal(jn.InitialTime, j.InitialTime)
		require.NoError(t, err)
		assert.True(t, eq)
		assert.True(t, jn.ZeroInterval.IsZero())
	}
}

func TestAdmitRejectsOtherFamily(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, openStore(t))
	f, err := m.Create(ctx, "ints", logicaltime.Integer64Name)
	require.NoError(t, err)

	assert.NoError(t, f.AdmitTime("timeAdvanceRequest", f.Factory.MakeInitial()))
	assert.NoError(t, f.AdmitInterval("modifyLookahead", f.Factory.MakeEpsilon()))

	floats := logicaltime.NewFloat64Factory()
	err = f.AdmitTime("timeAdvanceRequest", floats.MakeInitial())
	assert.ErrorIs(t, err, logicaltime.ErrInvalidLogicalTime)
	var merr *logicaltime.MismatchError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, logicaltime.Integer64Name, merr.Want)
	assert.Equal(t, logicaltime.Float64Name, merr.Got)

	err = f.AdmitInterval("modifyLookahead", floats.MakeZero())
	assert.ErrorIs(t, err, logicaltime.ErrInvalidLogicalTimeInterval)

	err = f.AdmitTime("timeAdvanceRequest", nil)
	assert.ErrorIs(t, err, logicaltime.ErrInvalidLogicalTime)
}

func TestManagerResumesClock(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	first := newManager(t, st)
	_, err := first.Create(ctx, "a", "")
	require.NoError(t, err)
	_, err = first.Join(ctx, "a", "x")
	require.NoError(t, err)

	resumed, err := NewManager(ctx, st)
	require.NoError(t, err)
	f, err := resumed.Create(ctx, "b", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.Seq)
}

func TestConcurrentJoins(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, openStore(t))
	_, err := m.Create(ctx, "crowd", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Join(ctx, "crowd", "same")
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrFederateAlreadyJoined)
	}
	assert.Equal(t, 1, ok)
}

func TestClock(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(42), c.Next())
	assert.Equal(t, int64(42), c.Current())
}
