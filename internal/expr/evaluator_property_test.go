package expr

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/roach88/marquee/internal/ir"
)

// TestNumericComparisonProperties checks the comparison operators against Go's own.
func TestNumericComparisonProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	ev := quietEvaluator()

	properties.Property("comparisons agree with float ordering", prop.ForAll(
		func(a, b int) bool {
			src := mapSource{"a": fmt.Sprint(a), "b": fmt.Sprint(b)}
			fa, fb := float64(a), float64(b)
			return ev.Evaluate("%a% == %b%", src, "e") == (fa == fb) &&
				ev.Evaluate("%a% != %b%", src, "e") == (fa != fb) &&
				ev.Evaluate("%a% > %b%", src, "e") == (fa > fb) &&
				ev.Evaluate("%a% < %b%", src, "e") == (fa < fb) &&
				ev.Evaluate("%a% >= %b%", src, "e") == (fa >= fb) &&
				ev.Evaluate("%a% <= %b%", src, "e") == (fa <= fb)
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.Property("== and != are complements", prop.ForAll(
		func(a, b string) bool {
			src := mapSource{"a": a, "b": b}
			return ev.Evaluate("%a% == %b%", src, "e") != ev.Evaluate("%a% != %b%", src, "e")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestCompoundProperties checks AND and OR against the results of their parts.
func TestCompoundProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ev := quietEvaluator()

	clause := func(v bool) string {
		if v {
			return "1 == 1"
		}
		return "1 == 2"
	}

	properties.Property("AND is conjunction", prop.ForAll(
		func(p, q bool) bool {
			cond := ir.Condition(clause(p) + " AND " + clause(q))
			return ev.Evaluate(cond, nil, "e") == (p && q)
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("OR is disjunction", prop.ForAll(
		func(p, q bool) bool {
			cond := ir.Condition(clause(p) + " OR " + clause(q))
			return ev.Evaluate(cond, nil, "e") == (p || q)
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("AND binds loosest", prop.ForAll(
		func(p, q, r bool) bool {
			cond := ir.Condition(clause(p) + " OR " + clause(q) + " AND " + clause(r))
			return ev.Evaluate(cond, nil, "e") == ((p || q) && r)
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
