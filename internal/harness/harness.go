package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/rtikit/internal/federation"
	"github.com/roach88/rtikit/internal/fom"
	"github.com/roach88/rtikit/internal/logicaltime"
	"github.com/roach88/rtikit/internal/store"
	"github.com/roach88/rtikit/internal/testutil"
)

// Harness runs scenarios. Every run gets a fresh variable set, a reset
// clock and, when a step joins, its own in-memory federation store, so
// identical scenarios produce identical traces.
type Harness struct {
	registry *logicaltime.Registry
	logger   *zap.SugaredLogger
	loader   *fom.Loader
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry resolves implementation names in r instead of the
// process-wide registry.
func WithRegistry(r *logicaltime.Registry) Option {
	return func(h *Harness) { h.registry = r }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: logicaltime.Default(),
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loader = fom.NewLoader(h.logger)
	return h
}

// Run executes a scenario with a default harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// A step that misbehaves (wrong output, missing or unexpected error) fails
// the result but does not stop the run. An error is returned only when the
// scenario cannot be executed at all: an unknown implementation, a variable
// read before assignment, or a federation that cannot be created.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	factory, err := h.registry.Resolve(scenario.Implementation)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	e := &execution{
		h:        h,
		scenario: scenario,
		factory:  factory,
		clock:    testutil.NewResettableClock(),
		vars:     make(map[string]logicaltime.Time),
		result:   NewResult(),
	}
	defer e.close()

	for i, step := range scenario.Steps {
		if err := e.step(ctx, i, step); err != nil {
			return nil, fmt.Errorf("scenario %q: steps[%d]: %w", scenario.Name, i, err)
		}
	}

	h.logger.Infow("scenario finished",
		"scenario", scenario.Name,
		"implementation", factory.Name(),
		"steps", len(scenario.Steps),
		"pass", e.result.Pass)
	return e.result, nil
}

// execution is the state of one Run.
type execution struct {
	h        *Harness
	scenario *Scenario
	factory  logicaltime.Factory
	clock    *testutil.ResettableClock
	vars     map[string]logicaltime.Time
	result   *Result

	store   *store.Store
	manager *federation.Manager
}

func (e *execution) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.h.logger.Warnw("closing scenario store", "error", err)
		}
	}
}

func (e *execution) lookup(name string) (logicaltime.Time, error) {
	t, ok := e.vars[name]
	if !ok {
		return nil, fmt.Errorf("variable %q is read before it is assigned", name)
	}
	return t, nil
}

// outcome is what a step produced.
type outcome struct {
	input   string
	output  string
	assign  logicaltime.Time
	err     error
	failure string // a wrong output, reported when err is nil
}

func (e *execution) step(ctx context.Context, i int, st Step) error {
	var (
		out   outcome
		fatal error
	)
	switch st.Op {
	case OpInitial:
		out.assign = e.factory.MakeInitial()
	case OpFinal:
		out.assign = e.factory.MakeFinal()
	case OpSet:
		out.input = st.Value
		out.assign, out.err = e.factory.ParseTime(st.Value)
	case OpDecode:
		out.input = st.Value
		out.assign, out.err = e.decode(st.Value)
	case OpJoin:
		if e.manager == nil {
			if err := e.createFederation(ctx); err != nil {
				return err
			}
		}
		joined, err := e.manager.Join(ctx, e.scenario.Name, st.Var)
		if err != nil {
			out.err = err
		} else {
			out.assign = joined.InitialTime
		}
	default:
		t, err := e.lookup(st.Var)
		if err != nil {
			return err
		}
		out, fatal = e.apply(st, t)
	}
	if fatal != nil {
		return fatal
	}
	if out.assign != nil && out.err == nil {
		e.vars[st.Var] = out.assign
		out.output = out.assign.String()
	}

	ev := TraceEvent{
		Seq:    e.clock.Next(),
		Op:     st.Op,
		Var:    st.Var,
		Other:  st.Other,
		Input:  out.input,
		Output: out.output,
	}
	if out.err != nil {
		ev.Error = errorName(out.err)
	}
	e.result.AddTrace(ev)
	e.check(i, st, out)

	e.h.logger.Debugw("scenario step",
		"scenario", e.scenario.Name,
		"step", i,
		"op", st.Op,
		"var", st.Var,
		"output", out.output,
		"error", out.err)
	return nil
}

// apply runs an operation that reads an existing variable.
func (e *execution) apply(st Step, t logicaltime.Time) (outcome, error) {
	out := outcome{input: st.Value}
	switch st.Op {
	case OpAdd, OpSubtract:
		i, err := e.factory.ParseInterval(st.Value)
		if err != nil {
			out.err = err
			return out, nil
		}
		if st.Op == OpAdd {
			out.err = t.Add(i)
		} else {
			out.err = t.Subtract(i)
		}
		if out.err == nil {
			out.output = t.String()
		}

	case OpDistance:
		o, err := e.lookup(st.Other)
		if err != nil {
			return out, err
		}
		d, err := t.Distance(o)
		if err != nil {
			out.err = err
			return out, nil
		}
		out.output = d.String()
		if st.Want != "" {
			w, err := e.factory.ParseInterval(st.Want)
			if err != nil {
				return out, fmt.Errorf("want: %w", err)
			}
			if c, err := d.Compare(w); err != nil || c != 0 {
				out.failure = fmt.Sprintf("got %s, want %s", d, w)
			}
		}

	case OpCompare:
		o, err := e.lookup(st.Other)
		if err != nil {
			return out, err
		}
		c, err := t.Compare(o)
		if err != nil {
			out.err = err
			return out, nil
		}
		out.output = strconv.Itoa(c)
		if st.Want != "" && st.Want != out.output {
			out.failure = fmt.Sprintf("got %s, want %s", out.output, st.Want)
		}

	case OpExpect:
		w, err := e.factory.ParseTime(st.Value)
		if err != nil {
			out.err = err
			return out, nil
		}
		out.output = t.String()
		if c, err := t.Compare(w); err != nil || c != 0 {
			out.failure = fmt.Sprintf("got %s, want %s", t, w)
		}

	case OpEncode:
		out.output = t.Encode().String()
		if st.Want != "" && !strings.EqualFold(st.Want, out.output) {
			out.failure = fmt.Sprintf("got %s, want %s", out.output, st.Want)
		}

	case OpRoundtrip:
		back, err := e.factory.DecodeTime(t.Encode())
		if err != nil {
			out.err = err
			return out, nil
		}
		out.output = back.String()
		c, err := back.Compare(t)
		if err != nil || c != 0 || back.IsFinal() != t.IsFinal() || back.IsInitial() != t.IsInitial() {
			out.failure = fmt.Sprintf("decoded %s, encoded %s", back, t)
		}

	default:
		return out, fmt.Errorf("unknown op %q", st.Op)
	}
	return out, nil
}

func (e *execution) decode(hex string) (logicaltime.Time, error) {
	data, err := logicaltime.ParseVariableLengthData(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", logicaltime.ErrCouldNotDecode, err)
	}
	return e.factory.DecodeTime(data)
}

// createFederation opens the scenario's federation, named after the
// scenario, on the first join.
func (e *execution) createFederation(ctx context.Context) error {
	modules, err := e.h.loader.LoadAll(ctx, e.scenario.Modules...)
	if err != nil {
		return err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	e.store = st

	m, err := federation.NewManager(ctx, st,
		federation.WithRegistry(e.h.registry),
		federation.WithClock(testutil.NewResettableClock()),
		federation.WithIDs(testutil.SequentialIDs()),
		federation.WithLogger(e.h.logger))
	if err != nil {
		return err
	}
	if _, err := m.Create(ctx, e.scenario.Name, e.scenario.Implementation, modules...); err != nil {
		return err
	}
	e.manager = m
	return nil
}

// check records a failed expectation for the step, if any.
func (e *execution) check(i int, st Step, out outcome) {
	prefix := fmt.Sprintf("steps[%d] %s %s", i, st.Op, st.Var)
	if st.Error != "" {
		switch {
		case out.err == nil:
			e.result.AddError(fmt.Sprintf("%s: expected %s error, got none", prefix, st.Error))
		case !errors.Is(out.err, errorKinds[st.Error]):
			e.result.AddError(fmt.Sprintf("%s: expected %s error, got %v", prefix, st.Error, out.err))
		}
		return
	}
	if out.err != nil {
		e.result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, out.err))
		return
	}
	if out.failure != "" {
		e.result.AddError(fmt.Sprintf("%s: %s", prefix, out.failure))
	}
}

// errorName returns the scenario spelling of err's kind, or its message
// when it is of no known kind.
func errorName(err error) string {
	names := make([]string, 0, len(errorKinds))
	for name := range errorKinds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if errors.Is(err, errorKinds[name]) {
			return name
		}
	}
	return err.Error()
}
