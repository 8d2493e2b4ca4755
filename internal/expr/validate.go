package expr

import (
	"errors"

	"github.com/roach88/marquee/internal/ir"
)

// Issue is a problem found in a condition by Validate.
type Issue struct {
	Code    string `json:"code"`
	Clause  string `json:"clause"`
	Message string `json:"message"`
}

// Validate reports problems with cond without evaluating it.
// A well-formed or empty condition returns nil.
//
// Validate is a pure function with no side effects.
func Validate(cond ir.Condition) []Issue {
	if cond.IsEmpty() {
		return nil
	}
	_, err := Parse(string(cond))
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return []Issue{{Code: pe.Code, Clause: pe.Clause, Message: pe.Message}}
	}
	return []Issue{{Code: ErrNoOperator, Clause: string(cond), Message: err.Error()}}
}
