package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")
	harnessGolden    = filepath.Join("..", "harness", "testdata", "golden")
)

// copyScenario copies a harness scenario without modules into a fresh
// directory and returns its new path.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(harnessScenarios, name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestScenarioRun_MatchesGolden(t *testing.T) {
	out, err := execute(t, "scenario", "run", harnessScenarios, "--golden", harnessGolden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ federation_join\n")
	assert.Contains(t, out, "✓ float_arithmetic\n")
	assert.Contains(t, out, "✓ integer_arithmetic\n")
	assert.Contains(t, out, "Scenario Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestScenarioRun_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "scenario", "run", harnessScenarios,
		"--golden", harnessGolden, "--filter", "integer_*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "integer_arithmetic", resp.Data.Scenarios[0].Name)
	assert.Equal(t, "match", resp.Data.Scenarios[0].Golden)
	assert.Equal(t, 1, resp.Data.Passed)
}

func TestScenarioRun_UpdateWritesGolden(t *testing.T) {
	path := copyScenario(t, "float_arithmetic.yaml")

	out, err := execute(t, "scenario", "run", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ float_arithmetic (golden updated)")

	got, err := os.ReadFile(filepath.Join(filepath.Dir(path), "golden", "float_arithmetic.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(harnessGolden, "float_arithmetic.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = execute(t, "scenario", "run", path)
	require.NoError(t, err)
}

func TestScenarioRun_GoldenMismatch(t *testing.T) {
	path := copyScenario(t, "float_arithmetic.yaml")
	goldenDir := filepath.Join(filepath.Dir(path), "golden")
	require.NoError(t, os.MkdirAll(goldenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "float_arithmetic.golden"), []byte("{}"), 0o644))

	out, err := execute(t, "scenario", "run", filepath.Dir(path))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeScenarioFailed)
	assert.Contains(t, out, "✗ float_arithmetic")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestScenarioRun_FailingScenario(t *testing.T) {
	path := writeModule(t, "off_by_one.yaml", `name: off_by_one
description: "Expects the wrong sum"
implementation: HLAinteger64Time
steps:
  - {op: set, var: t, value: "1"}
  - {op: add, var: t, value: "1"}
  - {op: expect, var: t, value: "3"}
`)

	out, err := execute(t, "--format", "json", "scenario", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenarioFailed, resp.Error.Code)
}

func TestScenarioRun_LoadErrorFailsScenario(t *testing.T) {
	path := writeModule(t, "broken.yaml", "name: broken\n")

	out, err := execute(t, "scenario", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestScenarioRun_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing path", []string{"scenario", "run", filepath.Join(t.TempDir(), "absent")}},
		{"bad filter", []string{"scenario", "run", harnessScenarios, "--filter", "["}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestScenarioRun_EmptyDirectory(t *testing.T) {
	out, err := execute(t, "scenario", "run", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
