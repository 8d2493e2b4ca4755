package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s", event.Seq, event.Op, event.Target)
		if event.Entity != "" {
			fmt.Fprintf(&buf, " entity=%s", event.Entity)
		}
		fmt.Fprintf(&buf, " -> %q\n", event.Output)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// matches reports whether event passes the assertion's filter fields.
func matches(event TraceEvent, a Assertion) bool {
	if a.Op != "" && event.Op != a.Op {
		return false
	}
	if a.Target != "" && event.Target != a.Target {
		return false
	}
	if a.Entity != "" && event.Entity != a.Entity {
		return false
	}
	return true
}

func describe(a Assertion) string {
	parts := []string{}
	if a.Op != "" {
		parts = append(parts, "op="+a.Op)
	}
	if a.Target != "" {
		parts = append(parts, "target="+a.Target)
	}
	if a.Entity != "" {
		parts = append(parts, "entity="+a.Entity)
	}
	if len(parts) == 0 {
		return "any event"
	}
	return strings.Join(parts, " ")
}

// assertTraceContains checks that some matching event exists, with the
// given output when one is set.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if !matches(event, a) {
			continue
		}
		if a.Output == nil || event.Output == *a.Output {
			return nil
		}
	}

	expected := describe(a)
	if a.Output != nil {
		expected += fmt.Sprintf(" with output %q", *a.Output)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that Outputs appear in order among matching
// events. Outputs don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(a.Outputs) {
			break
		}
		if matches(event, a) && event.Output == a.Outputs[next] {
			next++
		}
	}
	if next == len(a.Outputs) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("%s outputs in order: %q", describe(a), a.Outputs),
		Actual:   fmt.Sprintf("missing %q after position %d", a.Outputs[next], next),
		Trace:    trace,
	}
}

// assertTraceCount checks that exactly Count events match.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if matches(event, a) && (a.Output == nil || event.Output == *a.Output) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describe(a)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}
