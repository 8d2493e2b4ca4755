package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the configuration file or directory to load. Relative paths
	// are resolved against the scenario file's directory.
	Config string `yaml:"config"`

	// Start is the initial clock time (RFC 3339). Defaults to testutil.Epoch.
	Start string `yaml:"start,omitempty"`

	// Attributes seeds the attribute source: entity -> token -> value.
	// Entity "*" applies to every entity.
	Attributes map[string]map[string]string `yaml:"attributes,omitempty"`

	// Placeholders registers runtime placeholders: id -> entity -> value.
	Placeholders map[string]map[string]string `yaml:"placeholders,omitempty"`

	// Relational registers relational placeholders: id -> "viewer>target" -> value.
	Relational map[string]map[string]string `yaml:"relational,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace.
	// Supported types: trace_contains, trace_order, trace_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scenario action. Exactly one action field is set.
type Step struct {
	Render  *RenderStep `yaml:"render,omitempty"`
	Rotate  string      `yaml:"rotate,omitempty"`
	Eval    *EvalStep   `yaml:"eval,omitempty"`
	Advance string      `yaml:"advance,omitempty"` // Go duration
	Set     *SetStep    `yaml:"set,omitempty"`
	Frame   string      `yaml:"frame,omitempty"`
	Reset   string      `yaml:"reset,omitempty"`

	// Expect is compared against the step output when set.
	Expect *string `yaml:"expect,omitempty"`
}

// RenderStep renders Display for Entity. With Viewer set the render is
// relational, Entity being the target.
type RenderStep struct {
	Display string `yaml:"display"`
	Entity  string `yaml:"entity,omitempty"`
	Viewer  string `yaml:"viewer,omitempty"`
}

// EvalStep evaluates Condition for Entity.
type EvalStep struct {
	Condition string `yaml:"condition"`
	Entity    string `yaml:"entity,omitempty"`
}

// SetStep changes one attribute value.
type SetStep struct {
	Entity string `yaml:"entity"`
	Token  string `yaml:"token"`
	Value  string `yaml:"value"`
}

// op names the action a step performs, or "" when none or several are set.
func (s Step) op() string {
	var ops []string
	if s.Render != nil {
		ops = append(ops, OpRender)
	}
	if s.Rotate != "" {
		ops = append(ops, OpRotate)
	}
	if s.Eval != nil {
		ops = append(ops, OpEval)
	}
	if s.Advance != "" {
		ops = append(ops, OpAdvance)
	}
	if s.Set != nil {
		ops = append(ops, OpSet)
	}
	if s.Frame != "" {
		ops = append(ops, OpFrame)
	}
	if s.Reset != "" {
		ops = append(ops, OpReset)
	}
	if len(ops) != 1 {
		return ""
	}
	return ops[0]
}

// Assertion validates the trace. Empty filter fields match anything.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": some event matches the filter (and Output, if set)
	// - "trace_order": Outputs appear in order among matching events
	// - "trace_count": exactly Count events match the filter
	Type string `yaml:"type"`

	Op     string  `yaml:"op,omitempty"`
	Target string  `yaml:"target,omitempty"`
	Entity string  `yaml:"entity,omitempty"`
	Output *string `yaml:"output,omitempty"`

	// Outputs is the expected output order (used by trace_order).
	Outputs []string `yaml:"outputs,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}

	if err := Validate(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// Validate checks that required fields are present and valid.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Config == "" {
		return fmt.Errorf("config is required")
	}
	if _, err := os.Stat(s.Config); os.IsNotExist(err) {
		return fmt.Errorf("config not found: %s", s.Config)
	}
	if s.Start != "" {
		if _, err := time.Parse(time.RFC3339, s.Start); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.op() {
		case "":
			return fmt.Errorf("steps[%d]: exactly one action is required", i)
		case OpRender:
			if step.Render.Display == "" {
				return fmt.Errorf("steps[%d].render: display is required", i)
			}
		case OpEval:
			if step.Eval.Condition == "" {
				return fmt.Errorf("steps[%d].eval: condition is required", i)
			}
		case OpSet:
			if step.Set.Token == "" {
				return fmt.Errorf("steps[%d].set: token is required", i)
			}
		case OpAdvance:
			d, err := time.ParseDuration(step.Advance)
			if err != nil {
				return fmt.Errorf("steps[%d].advance: %w", i, err)
			}
			if d < 0 {
				return fmt.Errorf("steps[%d].advance: must not be negative", i)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Outputs) == 0 {
			return fmt.Errorf("assertions[%d]: outputs list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
