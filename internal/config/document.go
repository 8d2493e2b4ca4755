package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is one configuration file, or the merge of several.
type Document struct {
	Displays     map[string]DisplayDoc     `yaml:"displays,omitempty" json:"displays,omitempty"`
	Animations   map[string]AnimationDoc   `yaml:"animations,omitempty" json:"animations,omitempty"`
	Rotations    map[string]RotationDoc    `yaml:"rotations,omitempty" json:"rotations,omitempty"`
	Conditionals map[string]ConditionalDoc `yaml:"conditionals,omitempty" json:"conditionals,omitempty"`
	Replacements map[string]ReplacementDoc `yaml:"replacements,omitempty" json:"replacements,omitempty"`
	Scripts      map[string]ScriptDoc      `yaml:"scripts,omitempty" json:"scripts,omitempty"`
}

// DisplayDoc is a layer chain, most specific layer first.
type DisplayDoc struct {
	Layers  []LayerDoc `yaml:"layers,omitempty" json:"layers,omitempty"`
	Default Lines      `yaml:"default,omitempty" json:"default,omitempty"`
}

// LayerDoc is one layer. A layer with By is keyed: Keyed maps the entity id
// (By: entity) or an attribute value (By: <token>) to entries. A layer
// without By uses Entries for everyone.
type LayerDoc struct {
	Name    string                `yaml:"name" json:"name"`
	By      string                `yaml:"by,omitempty" json:"by,omitempty"`
	Entries []EntryDoc            `yaml:"entries,omitempty" json:"entries,omitempty"`
	Keyed   map[string][]EntryDoc `yaml:"keyed,omitempty" json:"keyed,omitempty"`
}

// EntryDoc is one candidate template.
type EntryDoc struct {
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
	Template  Lines  `yaml:"template" json:"template"`
	Priority  int    `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// AnimationDoc is a frame sequence.
type AnimationDoc struct {
	Frames   []string `yaml:"frames" json:"frames"`
	Interval Duration `yaml:"interval,omitempty" json:"interval,omitempty"`
}

// RotationDoc is a candidate pool.
type RotationDoc struct {
	Strategy   string         `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Fallback   Lines          `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Candidates []CandidateDoc `yaml:"candidates" json:"candidates"`
}

// CandidateDoc is one rotation candidate. Enabled defaults to true.
type CandidateDoc struct {
	Key        string   `yaml:"key" json:"key"`
	Enabled    *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Priority   int      `yaml:"priority,omitempty" json:"priority,omitempty"`
	Conditions []string `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Template   Lines    `yaml:"template" json:"template"`
}

// ConditionalDoc is a conditional placeholder.
type ConditionalDoc struct {
	Conditions []CaseDoc `yaml:"conditions" json:"conditions"`
	Default    string    `yaml:"default,omitempty" json:"default,omitempty"`
}

// CaseDoc is one branch of a conditional placeholder.
type CaseDoc struct {
	Condition string `yaml:"condition" json:"condition"`
	Output    string `yaml:"output" json:"output"`
}

// ReplacementDoc rewrites the value of one attribute token. Format defaults
// to "$original".
type ReplacementDoc struct {
	Placeholder  string        `yaml:"placeholder" json:"placeholder"`
	Intervals    []IntervalDoc `yaml:"intervals,omitempty" json:"intervals,omitempty"`
	Replacements []RuleDoc     `yaml:"replacements,omitempty" json:"replacements,omitempty"`
	Format       *string       `yaml:"format,omitempty" json:"format,omitempty"`
	Default      string        `yaml:"default,omitempty" json:"default,omitempty"`
}

// IntervalDoc maps [Min, Max] to Output.
type IntervalDoc struct {
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Output string  `yaml:"output" json:"output"`
}

// RuleDoc maps Find to Replace.
type RuleDoc struct {
	Find    string `yaml:"find" json:"find"`
	Replace string `yaml:"replace" json:"replace"`
}

// ScriptDoc is a scripted placeholder. Exactly one of Source and File is set;
// File is relative to the document that declares it.
type ScriptDoc struct {
	Inputs []string `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Source string   `yaml:"source,omitempty" json:"source,omitempty"`
	File   string   `yaml:"file,omitempty" json:"file,omitempty"`
}

// Lines is a template written either as one string (split on newlines) or as
// a list of lines.
type Lines []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Lines) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = splitLines(s)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		*l = lines
		return nil
	default:
		return fmt.Errorf("line %d: template must be a string or a list of strings", node.Line)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lines) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = splitLines(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("template must be a string or a list of strings")
	}
	*l = lines
	return nil
}

func splitLines(s string) Lines {
	if s == "" {
		return Lines{}
	}
	return Lines(strings.Split(s, "\n"))
}

// Duration is a time.Duration written as a Go duration string ("500ms") or
// a bare number of milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := parseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = v
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("interval must be a duration string or milliseconds")
		}
		s = n.String()
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return Duration(v), nil
}
