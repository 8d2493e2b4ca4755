package placeholder

import (
	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
)

// Case is one branch of a conditional placeholder.
type Case struct {
	Condition ir.Condition
	Output    string
}

// Conditional is a config-defined placeholder whose value is the output of
// the first case whose condition holds, or Default when none does.
type Conditional struct {
	ID      string
	Cases   []Case
	Default string
}

// Compile turns c into a LocalFunc evaluated with ev. Outputs are literal
// text, emitted without further substitution.
func (c Conditional) Compile(ev *expr.Evaluator) LocalFunc {
	cases := append([]Case(nil), c.Cases...)
	def := c.Default
	return func(entity string, src ir.AttributeSource) string {
		for _, k := range cases {
			if ev.Evaluate(k.Condition, src, entity) {
				return k.Output
			}
		}
		return def
	}
}
