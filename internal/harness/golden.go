package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rtikit/internal/datatype"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName   string       `json:"scenario_name"`
	Implementation string       `json:"implementation,omitempty"`
	Trace          []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any, the only
// object shape datatype.MarshalCanonical accepts. Empty optional fields are
// omitted.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"seq": event.Seq,
			"op":  event.Op,
			"var": event.Var,
		}
		for key, val := range map[string]string{
			"other":  event.Other,
			"input":  event.Input,
			"output": event.Output,
			"error":  event.Error,
		} {
			if val != "" {
				eventMap[key] = val
			}
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.Implementation != "" {
		result["implementation"] = s.Implementation
	}
	return result
}

// MarshalTrace renders a result's trace as canonical JSON, the format of
// golden files.
func MarshalTrace(scenarioName, implementation string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName:   scenarioName,
		Implementation: implementation,
		Trace:          result.Trace,
	}
	return datatype.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. A trace that differs from the
// golden file fails t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.Implementation, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenarioName, implementation string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, implementation, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
