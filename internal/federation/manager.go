package federation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/rtikit/internal/datatype"
	"github.com/roach88/rtikit/internal/fom"
	"github.com/roach88/rtikit/internal/logicaltime"
	"github.com/roach88/rtikit/internal/store"
)

// Manager creates and joins federation executions backed by a store.
// Create and Join are serialized so that seq order matches commit order.
type Manager struct {
	store    *store.Store
	registry *logicaltime.Registry
	clock    Sequencer
	newID    func() string
	logger   *zap.SugaredLogger

	mu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry resolves time implementations from r instead of the
// process-wide registry.
func WithRegistry(r *logicaltime.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// WithClock stamps records from c instead of a clock resumed from the store.
func WithClock(c Sequencer) Option {
	return func(m *Manager) { m.clock = c }
}

// WithIDs generates federation IDs with fn instead of random UUIDs.
func WithIDs(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithLogger logs through l.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a manager over st. Without WithClock the clock resumes
// after the highest seq already stored.
func NewManager(ctx context.Context, st *store.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:    st,
		registry: logicaltime.Default(),
		newID:    uuid.NewString,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		next, err := st.NextSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("new manager: %w", err)
		}
		m.clock = NewClockAt(next - 1)
	}
	return m, nil
}

// Create resolves the time factory and the FOM modules, persists the
// resolved model and records the federation. The stored time implementation
// is the factory's canonical name, so "HLAfloat64TimeFactory" and
// "HLAfloat64Time" create equivalent federations.
func (m *Manager) Create(ctx context.Context, name, timeImplementation string, modules ...*fom.Declarations) (*Federation, error) {
	factory, err := m.registry.Resolve(timeImplementation)
	if err != nil {
		return nil, fmt.Errorf("create federation %q: %w", name, err)
	}
	om, err := fom.Resolve(modules...)
	if err != nil {
		return nil, fmt.Errorf("create federation %q: %w", name, err)
	}
	fingerprint, err := datatype.ModelFingerprint(om.Datatypes)
	if err != nil {
		return nil, fmt.Errorf("create federation %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.WriteModel(ctx, store.Model{Fingerprint: fingerprint, Declarations: fom.Export(om)}); err != nil {
		return nil, fmt.Errorf("create federation %q: %w", name, err)
	}
	f := &Federation{
		ID:          m.newID(),
		Name:        name,
		Factory:     factory,
		Model:       om,
		Fingerprint: fingerprint,
		Seq:         m.clock.Next(),
	}
	inserted, err := m.store.WriteFederation(ctx, store.Federation{
		ID:                 f.ID,
		Name:               f.Name,
		TimeImplementation: factory.Name(),
		ModelFingerprint:   fingerprint,
		Seq:                f.Seq,
	})
	if err != nil {
		return nil, fmt.Errorf("create federation %q: %w", name, err)
	}
	if !inserted {
		return nil, fmt.Errorf("create federation %q: %w", name, ErrFederationExists)
	}

	m.logger.Infow("federation created",
		"federation", name,
		"id", f.ID,
		"time_implementation", factory.Name(),
		"datatypes", om.Datatypes.Len(),
		"seq", f.Seq)
	return f, nil
}

// Open loads a federation, re-resolving its time factory by the stored
// implementation name and its model from the stored declarations.
func (m *Manager) Open(ctx context.Context, name string) (*Federation, error) {
	rec, err := m.store.ReadFederation(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("open federation %q: %w", name, ErrFederationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open federation %q: %w", name, err)
	}

	factory, err := m.registry.Resolve(rec.TimeImplementation)
	if err != nil {
		return nil, fmt.Errorf("open federation %q: %w", name, err)
	}
	stored, err := m.store.ReadModel(ctx, rec.ModelFingerprint)
	if err != nil {
		return nil, fmt.Errorf("open federation %q: %w", name, err)
	}
	om, err := fom.Resolve(stored.Declarations)
	if err != nil {
		return nil, fmt.Errorf("open federation %q: %w", name, err)
	}
	fingerprint, err := datatype.ModelFingerprint(om.Datatypes)
	if err != nil {
		return nil, fmt.Errorf("open federation %q: %w", name, err)
	}
	if fingerprint != rec.ModelFingerprint {
		return nil, fmt.Errorf("open federation %q: %w", name, ErrModelMismatch)
	}

	return &Federation{
		ID:          rec.ID,
		Name:        rec.Name,
		Factory:     factory,
		Model:       om,
		Fingerprint: fingerprint,
		Seq:         rec.Seq,
	}, nil
}

// Join admits a federate. The federate's initial time and zero interval are
// minted once, here, by the federation's factory and stored encoded; later
// reads decode the stored bytes rather than minting again.
func (m *Manager) Join(ctx context.Context, federation, federate string) (*Joined, error) {
	f, err := m.Open(ctx, federation)
	if err != nil {
		return nil, err
	}

	initial := f.Factory.MakeInitial()
	zero := f.Factory.MakeZero()

	m.mu.Lock()
	defer m.mu.Unlock()

	seq := m.clock.Next()
	inserted, err := m.store.WriteJoin(ctx, store.Join{
		FederationID: f.ID,
		Federate:     federate,
		InitialTime:  initial.Encode().Bytes(),
		ZeroInterval: zero.Encode().Bytes(),
		Seq:          seq,
	})
	if err != nil {
		return nil, fmt.Errorf("join %q to %q: %w", federate, federation, err)
	}
	if !inserted {
		return nil, fmt.Errorf("join %q to %q: %w", federate, federation, ErrFederateAlreadyJoined)
	}

	m.logger.Infow("federate joined",
		"federation", federation,
		"federate", federate,
		"initial_time", initial.String(),
		"seq", seq)
	return &Joined{Federation: f, Federate: federate, InitialTime: initial, ZeroInterval: zero, Seq: seq}, nil
}

// Joins lists the federates of a federation in join order with their stored
// sentinels decoded.
func (m *Manager) Joins(ctx context.Context, federation string) ([]*Joined, error) {
	f, err := m.Open(ctx, federation)
	if err != nil {
		return nil, err
	}
	recs, err := m.store.ReadJoins(ctx, f.ID)
	if err != nil {
		return nil, fmt.Errorf("joins of %q: %w", federation, err)
	}

	out := make([]*Joined, 0, len(recs))
	for _, r := range recs {
		t, err := f.Factory.DecodeTime(logicaltime.NewVariableLengthData(r.InitialTime))
		if err != nil {
			return nil, fmt.Errorf("joins of %q: federate %q: %w", federation, r.Federate, err)
		}
		i, err := f.Factory.DecodeInterval(logicaltime.NewVariableLengthData(r.ZeroInterval))
		if err != nil {
			return nil, fmt.Errorf("joins of %q: federate %q: %w", federation, r.Federate, err)
		}
		out = append(out, &Joined{Federation: f, Federate: r.Federate, InitialTime: t, ZeroInterval: i, Seq: r.Seq})
	}
	return out, nil
}

// List returns every stored federation in creation order.
func (m *Manager) List(ctx context.Context) ([]store.Federation, error) {
	return m.store.ListFederations(ctx)
}
