package placeholder

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// OriginalVar is replaced by the raw value inside Replacement.Format.
const OriginalVar = "$original"

// Interval maps numeric values in [Min, Max] to Output.
type Interval struct {
	Min    float64
	Max    float64
	Output string
}

// Rule maps a value equal to Find (ignoring case) to Replace.
type Rule struct {
	Find    string
	Replace string
}

// Replacement post-processes the value of one attribute token.
//
// Apply checks, in order: empty value, numeric intervals, text rules, format.
// The first step that applies produces the result.
type Replacement struct {
	ID          string
	Placeholder string
	Intervals   []Interval
	Rules       []Rule
	Format      string
	Default     string
}

// Apply rewrites value.
func (r Replacement) Apply(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return r.Default
	}

	if len(r.Intervals) > 0 {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			for _, iv := range r.Intervals {
				if f >= iv.Min && f <= iv.Max {
					return iv.Output
				}
			}
		}
	}

	if len(r.Rules) > 0 {
		c := cases.Fold()
		folded := c.String(trimmed)
		for _, rule := range r.Rules {
			if c.String(strings.TrimSpace(rule.Find)) == folded {
				return rule.Replace
			}
		}
	}

	if r.Format == "" {
		return value
	}
	return strings.ReplaceAll(r.Format, OriginalVar, value)
}
