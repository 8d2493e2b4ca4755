// Package resolve picks the winning template for an entity from an ordered
// list of layers.
//
// Layers are ordered most specific first (player, conditional, group, world,
// global). The first layer holding a matching entry with visible content wins
// and later layers are never consulted. Within the winning layer the entry
// with the highest rank wins, ties going to the entry declared first.
package resolve

import (
	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
)

// Decision is the outcome of a resolution.
type Decision struct {
	// Template is the winning payload, or the caller's default.
	Template ir.Template
	// Layer is the name of the winning layer; empty when defaulted.
	Layer string
	// Index is the winning entry's position within its layer, -1 when defaulted.
	Index int
	// Defaulted is true when no layer produced a winner.
	Defaulted bool
}

// Resolve returns the winning template for entity.
//
// An entry matches when its condition holds (unconditional entries always
// hold) and its payload is non-empty. Empty payloads let a layer defer to
// the next one. When nothing matches the decision carries fallback.
func Resolve(m expr.Matcher, entity string, layers []ir.Layer, fallback ir.Template) Decision {
	for _, layer := range layers {
		best := -1
		bestRank := 0
		for i, e := range layer.Entries {
			if e == nil || e.Payload().IsEmpty() {
				continue
			}
			// Strictly greater keeps the first declared entry on ties
			if best >= 0 && e.Rank() <= bestRank {
				continue
			}
			if !matches(m, e, entity) {
				continue
			}
			best, bestRank = i, e.Rank()
		}
		if best >= 0 {
			return Decision{
				Template: layer.Entries[best].Payload(),
				Layer:    layer.Name,
				Index:    best,
			}
		}
	}
	return Decision{Template: fallback, Index: -1, Defaulted: true}
}

// matches tests an entry's condition.
func matches(m expr.Matcher, e ir.Entry, entity string) bool {
	switch v := e.(type) {
	case ir.Layered:
		return true
	case ir.Conditional:
		if v.Condition.IsEmpty() {
			return true
		}
		if m == nil {
			return false
		}
		return m.Match(v.Condition, entity)
	default:
		return false
	}
}
