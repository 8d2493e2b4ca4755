// Package rotation chooses one template among several valid candidates.
package rotation

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/roach88/marquee/internal/ir"
)

// Selector applies a rotation strategy. The sequential cursor is the only
// mutable state; it lives for the Selector's lifetime and is shared by all
// callers.
//
// Thread-safety: Selector is safe for concurrent use.
type Selector struct {
	strategy ir.Strategy
	cursor   atomic.Uint64
	intn     func(n int) int
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithIntn replaces the random index source used by StrategyRandom.
// fn must return a value in [0, n) and be safe for concurrent use.
func WithIntn(fn func(n int) int) SelectorOption {
	return func(s *Selector) {
		if fn != nil {
			s.intn = fn
		}
	}
}

// NewSelector creates a Selector. Unknown strategies select like
// StrategyPriority.
func NewSelector(strategy ir.Strategy, opts ...SelectorOption) *Selector {
	if !ir.ValidStrategies[strategy] {
		strategy = ir.StrategyPriority
	}
	s := &Selector{strategy: strategy, intn: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the selector's strategy.
func (s *Selector) Strategy() ir.Strategy { return s.strategy }

// Pick returns the index of the chosen candidate, or false when candidates
// is empty. Only StrategySequential mutates state.
func (s *Selector) Pick(candidates []ir.Candidate) (int, bool) {
	n := len(candidates)
	if n == 0 {
		return -1, false
	}

	switch s.strategy {
	case ir.StrategySequential:
		// Re-modded on every call so a shrinking candidate list stays in range
		c := s.cursor.Add(1) - 1
		return int(c % uint64(n)), true
	case ir.StrategyRandom:
		return s.intn(n), true
	default:
		// StrategyPriority and StrategyTimed
		return highest(candidates), true
	}
}

// Select returns the chosen candidate's template, or fallback when there are
// no candidates.
func (s *Selector) Select(candidates []ir.Candidate, fallback ir.Template) ir.Template {
	i, ok := s.Pick(candidates)
	if !ok {
		return fallback
	}
	return candidates[i].Template
}

// Cursor returns the sequential cursor position.
func (s *Selector) Cursor() uint64 {
	return s.cursor.Load()
}

// highest returns the index of the maximum priority, first wins ties.
func highest(candidates []ir.Candidate) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Priority > candidates[best].Priority {
			best = i
		}
	}
	return best
}
