package expr

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/marquee/internal/ir"
)

// evalNode evaluates a parsed condition with tokens resolved for entity.
func evalNode(n Node, src ir.AttributeSource, entity string) bool {
	switch node := n.(type) {
	case Compare:
		left := substitute(node.Left, src, entity)
		right := substitute(node.Right, src, entity)
		return compare(left, node.Op, right)
	case And:
		for _, t := range node.Terms {
			if !evalNode(t, src, entity) {
				return false
			}
		}
		return true
	case Or:
		for _, t := range node.Terms {
			if evalNode(t, src, entity) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// substitute resolves %token% placeholders in an operand.
func substitute(operand string, src ir.AttributeSource, entity string) string {
	out := ir.ExpandTokens(operand, func(name string) string {
		return src.Lookup(entity, name)
	})
	return strings.TrimSpace(out)
}

// compare applies op to two resolved operands.
func compare(left string, op Op, right string) bool {
	l, lok := parseNumber(left)
	r, rok := parseNumber(right)
	if lok && rok {
		switch op {
		case OpEq:
			return l == r
		case OpNeq:
			return l != r
		case OpGt:
			return l > r
		case OpLt:
			return l < r
		case OpGte:
			return l >= r
		case OpLte:
			return l <= r
		}
		return false
	}

	switch op {
	case OpEq:
		return foldEqual(left, right)
	case OpNeq:
		return !foldEqual(left, right)
	default:
		// Ordering is only defined for numbers
		return false
	}
}

// parseNumber parses an IEEE-754 double. Infinity and NaN are numbers, so
// "Infinity > 1" holds and NaN compares unequal to everything.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// foldEqual compares under Unicode case folding.
// A Caser carries state, so each call gets its own.
func foldEqual(a, b string) bool {
	if a == b {
		return true
	}
	c := cases.Fold()
	return c.String(a) == c.String(b)
}
