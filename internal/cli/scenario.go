package cli

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rtikit/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // golden directory; default is golden/ next to each scenario
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall result of a scenario run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewScenarioCommand creates the scenario command group.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Run logical time scenarios",
	}
	cmd.AddCommand(newScenarioRunCommand(&ScenarioOptions{RootOptions: rootOpts}))
	return cmd
}

func newScenarioRunCommand(opts *ScenarioOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run scenario files and compare their traces",
		Long: `Run YAML scenarios through the harness.

Each path is a scenario file or a directory searched for *.yaml and *.yml
files. A scenario passes when every step behaves as declared and, if a golden
file exists for it, its trace matches the golden file byte for byte.

Golden files live in golden/<file>.golden next to the scenario unless
--golden names another directory.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  rtikit scenario run ./scenarios
  rtikit scenario run ./scenarios --filter "float_*"
  rtikit scenario run ./scenarios --update
  rtikit scenario run join.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory holding golden files")

	return cmd
}

func runScenarios(opts *ScenarioOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := filepath.Match(opts.Filter, ""); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid filter pattern", err)
	}

	var files []string
	for _, p := range paths {
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot read %s", p), err)
		}
		files = append(files, found...)
	}

	h := harness.New(harness.WithLogger(opts.logger()))
	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	for _, file := range files {
		sr := runScenarioFile(cmd.Context(), h, opts, file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		writeScenarioText(formatter, sr)
	}

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if result.Failed > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeScenarioFailed,
				Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
			}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else if result.Total == 0 {
		formatter.Text("No scenarios found.\n")
		return nil
	} else {
		formatter.Text("\nScenario Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d scenario(s) failed", ErrCodeScenarioFailed, result.Failed))
	}
	formatter.Text("✓ All scenarios passed\n")
	return nil
}

// findScenarioFiles returns path itself when it is a file, or every YAML
// file below it, in lexical order, when it is a directory. The filter is
// matched against the file name without its extension.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if matchesFilter(path, filter) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if matchesFilter(p, filter) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func matchesFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	matched, _ := filepath.Match(filter, scenarioBaseName(path))
	return matched
}

func scenarioBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// runScenarioFile loads, runs and golden-checks one scenario.
func runScenarioFile(ctx context.Context, h *harness.Harness, opts *ScenarioOptions, file string) ScenarioResult {
	sr := ScenarioResult{Name: scenarioBaseName(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := h.Run(ctx, scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Errors = result.Errors

	trace, err := harness.MarshalTrace(scenario.Name, scenario.Implementation, result)
	if err != nil {
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return sr
	}

	goldenPath := opts.goldenPath(file)
	if opts.Update {
		if err := writeGolden(goldenPath, trace); err != nil {
			sr.Errors = append(sr.Errors, err.Error())
			return sr
		}
		sr.Golden = "updated"
		sr.Pass = result.Pass
		return sr
	}

	want, err := os.ReadFile(goldenPath)
	switch {
	case os.IsNotExist(err):
		sr.Golden = "missing"
	case err != nil:
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		return sr
	case !bytes.Equal(want, trace):
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
		return sr
	default:
		sr.Golden = "match"
	}
	sr.Pass = result.Pass
	return sr
}

// goldenPath returns the golden file of a scenario file.
func (o *ScenarioOptions) goldenPath(file string) string {
	dir := o.GoldenDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(file), "golden")
	}
	return filepath.Join(dir, scenarioBaseName(file)+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func writeScenarioText(f *OutputFormatter, sr ScenarioResult) {
	if !sr.Pass {
		f.Text("✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			f.Text("  %s\n", e)
		}
		return
	}
	if sr.Golden == "updated" {
		f.Text("✓ %s (golden updated)\n", sr.Name)
		return
	}
	f.Text("✓ %s\n", sr.Name)
}
