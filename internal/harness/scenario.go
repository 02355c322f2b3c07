package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a logical time conformance scenario. Steps run in order against
// named time variables, all minted by the scenario's time implementation.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Implementation is the logical time implementation name. Empty selects
	// the registry default.
	Implementation string `yaml:"implementation,omitempty"`

	// Modules lists FOM module files for the federation a join step
	// creates. Relative paths are resolved against the scenario file.
	Modules []string `yaml:"modules,omitempty"`

	// Steps is the ordered list of operations.
	Steps []Step `yaml:"steps"`
}

// Step is one operation on a time variable.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Var names the time the step reads or writes. For join it is also the
	// federate name.
	Var string `yaml:"var"`

	// Other names the second time for distance and compare.
	Other string `yaml:"other,omitempty"`

	// Value is the step input: a time for set and expect, an interval for
	// add and subtract, hex bytes for decode.
	Value string `yaml:"value,omitempty"`

	// Want is the expected output: an interval for distance, -1, 0 or 1
	// for compare, hex bytes for encode.
	Want string `yaml:"want,omitempty"`

	// Error is the error kind the step must fail with. See the Err* kinds.
	Error string `yaml:"error,omitempty"`
}

// Step operations.
const (
	OpInitial   = "initial"
	OpFinal     = "final"
	OpSet       = "set"
	OpAdd       = "add"
	OpSubtract  = "subtract"
	OpDistance  = "distance"
	OpCompare   = "compare"
	OpExpect    = "expect"
	OpEncode    = "encode"
	OpDecode    = "decode"
	OpRoundtrip = "roundtrip"
	OpJoin      = "join"
)

// defines reports whether op assigns Var rather than reading it.
func defines(op string) bool {
	switch op {
	case OpInitial, OpFinal, OpSet, OpDecode, OpJoin:
		return true
	}
	return false
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly. Module paths are resolved relative to the
// scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i, m := range scenario.Modules {
		if !filepath.IsAbs(m) {
			scenario.Modules[i] = filepath.Join(base, m)
		}
	}
	for _, m := range scenario.Modules {
		if _, err := os.Stat(m); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: module file not found: %s", m)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and that every variable is
// assigned before it is read.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	defined := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, &step, defined); err != nil {
			return err
		}
		if defines(step.Op) && step.Error == "" {
			defined[step.Var] = true
		}
	}
	return nil
}

func validateStep(i int, st *Step, defined map[string]bool) error {
	if st.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", i)
	}
	if st.Var == "" {
		return fmt.Errorf("steps[%d]: var is required", i)
	}
	if st.Error != "" {
		if _, ok := errorKinds[st.Error]; !ok {
			return fmt.Errorf("steps[%d]: unknown error kind %q", i, st.Error)
		}
	}

	switch st.Op {
	case OpInitial, OpFinal, OpJoin:
	case OpSet, OpDecode, OpAdd, OpSubtract, OpExpect:
		if st.Value == "" {
			return fmt.Errorf("steps[%d]: value is required for %s", i, st.Op)
		}
	case OpDistance, OpCompare:
		if st.Other == "" {
			return fmt.Errorf("steps[%d]: other is required for %s", i, st.Op)
		}
		if !defined[st.Other] {
			return fmt.Errorf("steps[%d]: variable %q is read before it is assigned", i, st.Other)
		}
		if st.Op == OpCompare && st.Want != "" {
			switch st.Want {
			case "-1", "0", "1":
			default:
				return fmt.Errorf("steps[%d]: compare want must be -1, 0 or 1, got %q", i, st.Want)
			}
		}
	case OpEncode, OpRoundtrip:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", i, st.Op)
	}

	if !defines(st.Op) && !defined[st.Var] {
		return fmt.Errorf("steps[%d]: variable %q is read before it is assigned", i, st.Var)
	}
	return nil
}
