package ir

import (
	"fmt"
	"strings"
	"time"
)

// Condition is a boolean expression in the engine's condition language,
// e.g. "%player_health% > 10" or "%rank% == admin AND %world% != nether".
//
// The empty condition always matches.
type Condition string

// IsEmpty reports whether the condition is blank and therefore always matches.
func (c Condition) IsEmpty() bool {
	return strings.TrimSpace(string(c)) == ""
}

// Template is an ordered list of lines containing literal text and
// %placeholder% tokens. It is opaque until rendered by the placeholder pipeline.
type Template []string

// NewTemplate splits text on newlines into a Template.
// The empty string produces an empty Template.
func NewTemplate(text string) Template {
	if text == "" {
		return Template{}
	}
	return Template(strings.Split(text, "\n"))
}

// IsEmpty reports whether the template carries no visible content: either no
// lines at all, or only empty lines. Empty templates let a more specific
// layer opt out and defer to a broader one.
func (t Template) IsEmpty() bool {
	for _, line := range t {
		if line != "" {
			return false
		}
	}
	return true
}

// String joins the template lines with newlines.
func (t Template) String() string {
	return strings.Join(t, "\n")
}

// Layer is one source of candidate entries in a resolution chain
// (e.g. "player", "conditional", "group", "world", "global").
type Layer struct {
	Name    string
	Entries []Entry
}

// Candidate is one option offered to a rotation selector.
type Candidate struct {
	Key      string
	Template Template
	Priority int
}

// AnimationSpec describes a named frame sequence advanced on a fixed interval.
type AnimationSpec struct {
	ID       string
	Frames   []string
	Interval time.Duration
}

// Strategy selects among multiple simultaneously valid rotation candidates.
type Strategy string

const (
	// StrategyPriority picks the highest priority candidate (first wins ties).
	StrategyPriority Strategy = "priority"
	// StrategySequential cycles through candidates in order.
	StrategySequential Strategy = "sequential"
	// StrategyRandom picks a uniformly random candidate.
	StrategyRandom Strategy = "random"
	// StrategyTimed selects like StrategyPriority; switching which candidates
	// are current over time belongs to an external scheduler.
	StrategyTimed Strategy = "timed"
)

// ValidStrategies defines the allowed rotation strategies.
var ValidStrategies = map[Strategy]bool{
	StrategyPriority:   true,
	StrategySequential: true,
	StrategyRandom:     true,
	StrategyTimed:      true,
}

// ParseStrategy parses a strategy name case-insensitively.
// The empty string defaults to StrategyPriority.
func ParseStrategy(s string) (Strategy, error) {
	if strings.TrimSpace(s) == "" {
		return StrategyPriority, nil
	}
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if !ValidStrategies[st] {
		return "", fmt.Errorf("unknown rotation strategy %q", s)
	}
	return st, nil
}
