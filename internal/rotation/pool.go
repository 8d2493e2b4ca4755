package rotation

import (
	"time"

	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/schedule"
)

// Entry is one configured rotation candidate.
type Entry struct {
	Key        string
	Enabled    bool
	Priority   int
	Conditions []ir.Condition
	Template   ir.Template
}

// Pool is a named rotation: candidates filtered by their conditions, then
// chosen by a Selector.
type Pool struct {
	Name     string
	Entries  []Entry
	Fallback ir.Template
	selector *Selector
}

// NewPool creates a pool using selector. A nil selector selects by priority.
func NewPool(name string, entries []Entry, fallback ir.Template, selector *Selector) *Pool {
	if selector == nil {
		selector = NewSelector(ir.StrategyPriority)
	}
	return &Pool{Name: name, Entries: entries, Fallback: fallback, selector: selector}
}

// Selector returns the pool's selector.
func (p *Pool) Selector() *Selector { return p.selector }

// Valid returns the candidates that are enabled and whose every condition
// holds at now, in declaration order. Typed schedule conditions are
// evaluated by package schedule; anything else is an ordinary condition
// evaluated against src for the empty entity.
func (p *Pool) Valid(now time.Time, ev *expr.Evaluator, src ir.AttributeSource) []ir.Candidate {
	var out []ir.Candidate
	for _, e := range p.Entries {
		if !e.Enabled || !p.allHold(e.Conditions, now, ev, src) {
			continue
		}
		out = append(out, ir.Candidate{Key: e.Key, Template: e.Template, Priority: e.Priority})
	}
	return out
}

// Choose filters and selects. ok is false when the fallback was used.
func (p *Pool) Choose(now time.Time, ev *expr.Evaluator, src ir.AttributeSource) (ir.Candidate, bool) {
	valid := p.Valid(now, ev, src)
	i, ok := p.selector.Pick(valid)
	if !ok {
		return ir.Candidate{Template: p.Fallback}, false
	}
	return valid[i], true
}

func (p *Pool) allHold(conds []ir.Condition, now time.Time, ev *expr.Evaluator, src ir.AttributeSource) bool {
	for _, c := range conds {
		if matched, handled := schedule.Match(c, now, ev, src); handled {
			if !matched {
				return false
			}
			continue
		}
		if ev == nil {
			if !c.IsEmpty() {
				return false
			}
			continue
		}
		if !ev.Evaluate(c, src, "") {
			return false
		}
	}
	return true
}
