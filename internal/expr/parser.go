package expr

import (
	"fmt"
	"strings"
)

// Separators between sub-conditions. Matching is case-sensitive and the
// surrounding spaces are part of the separator.
const (
	sepAnd = " AND "
	sepOr  = " OR "
)

// Parse error codes (E200-E209)
const (
	ErrNoOperator      = "E200" // comparison has no operator
	ErrUnknownOperator = "E201" // operator run is not one of == != > < >= <=
	ErrEmptyOperand    = "E202" // left or right side is blank
	ErrExtraOperator   = "E203" // more than one operator run in a comparison
	ErrEmptyClause     = "E204" // blank text between separators
)

// ParseError describes why a condition is malformed.
type ParseError struct {
	Code      string `json:"code"`
	Condition string `json:"condition"`
	Clause    string `json:"clause"`
	Message   string `json:"message"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("[%s] %s in %q", e.Code, e.Message, e.Clause)
}

// Parse parses a non-empty condition into a Node.
//
// AND is split first, then each part on OR, giving an AND of ORs.
// Single-term groups are collapsed so "a == b" parses to a bare Compare.
func Parse(cond string) (Node, error) {
	andParts := strings.Split(cond, sepAnd)
	ands := make([]Node, 0, len(andParts))
	for _, part := range andParts {
		orParts := strings.Split(part, sepOr)
		ors := make([]Node, 0, len(orParts))
		for _, clause := range orParts {
			cmp, err := parseComparison(clause)
			if err != nil {
				err.Condition = cond
				return nil, err
			}
			ors = append(ors, cmp)
		}
		if len(ors) == 1 {
			ands = append(ands, ors[0])
		} else {
			ands = append(ands, Or{Terms: ors})
		}
	}
	if len(ands) == 1 {
		return ands[0], nil
	}
	return And{Terms: ands}, nil
}

// parseComparison parses "<left> <op> <right>".
// The operator is the first run of <, >, = and ! characters.
func parseComparison(clause string) (Compare, *ParseError) {
	trimmed := strings.TrimSpace(clause)
	if trimmed == "" {
		return Compare{}, &ParseError{Code: ErrEmptyClause, Clause: clause, Message: "empty sub-condition"}
	}

	start := strings.IndexAny(trimmed, "<>=!")
	if start < 0 {
		return Compare{}, &ParseError{Code: ErrNoOperator, Clause: trimmed, Message: "no comparison operator"}
	}
	end := start
	for end < len(trimmed) && isOpByte(trimmed[end]) {
		end++
	}

	run := trimmed[start:end]
	op, ok := validOps[run]
	if !ok {
		return Compare{}, &ParseError{Code: ErrUnknownOperator, Clause: trimmed, Message: fmt.Sprintf("unknown operator %q", run)}
	}

	left := strings.TrimSpace(trimmed[:start])
	right := strings.TrimSpace(trimmed[end:])
	if left == "" || right == "" {
		return Compare{}, &ParseError{Code: ErrEmptyOperand, Clause: trimmed, Message: "missing operand"}
	}
	if strings.ContainsAny(right, "<>=!") {
		return Compare{}, &ParseError{Code: ErrExtraOperator, Clause: trimmed, Message: "more than one operator"}
	}

	return Compare{Left: left, Op: op, Right: right}, nil
}

func isOpByte(c byte) bool {
	return c == '<' || c == '>' || c == '=' || c == '!'
}
