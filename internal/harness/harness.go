package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/roach88/marquee/internal/config"
	"github.com/roach88/marquee/internal/engine"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios against a real engine with a manual clock.
type Harness struct {
	engine *engine.Engine
	clock  *testutil.ManualClock
	src    *testutil.StaticSource
	start  time.Time
	picks  int
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load and compile the scenario's configuration
// 2. Build an engine over a static attribute source and manual clock
// 3. Register the scenario's runtime placeholders
// 4. Execute steps, checking expect clauses
// 5. Evaluate assertions over the trace
//
// An error is returned only when the scenario cannot run at all; failing
// expectations are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	loaded, err := config.Load(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	spec, errs := config.Compile(loaded, config.CompileOptions{Logger: logger})
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to compile config: %w", errors.Join(errs...))
	}

	start := testutil.Epoch
	if scenario.Start != "" {
		start, err = time.Parse(time.RFC3339, scenario.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
	}

	h := &Harness{
		clock: testutil.NewManualClock(start),
		src:   testutil.NewStaticSource(scenario.Attributes),
		start: start,
	}
	h.engine = engine.New(h.src,
		engine.WithLogger(logger),
		engine.WithClock(h.clock),
		engine.WithRandom(h.nextRandom),
	)
	h.engine.Reload(spec)
	h.register(scenario)

	result := NewResult()
	for i, step := range scenario.Steps {
		ev, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		ev = result.add(ev)
		if step.Expect != nil && *step.Expect != ev.Output {
			result.AddError(fmt.Sprintf("steps[%d] %s %s: expected %q, got %q", i, ev.Op, ev.Target, *step.Expect, ev.Output))
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// nextRandom makes random rotations deterministic: the k-th pick is k mod n.
func (h *Harness) nextRandom(n int) int {
	k := h.picks
	h.picks++
	return k % n
}

func (h *Harness) register(s *Scenario) {
	for _, id := range sortedKeys(s.Placeholders) {
		values := s.Placeholders[id]
		h.engine.RegisterPlaceholder(id, func(entity string) string {
			if v, ok := values[entity]; ok {
				return v
			}
			return values[testutil.Wildcard]
		})
	}
	for _, id := range sortedKeys(s.Relational) {
		values := s.Relational[id]
		h.engine.RegisterRelationalPlaceholder(id, func(viewer, target string) string {
			return values[viewer+">"+target]
		})
	}
}

// execute runs one step and describes it as a trace event. Engine errors
// for unknown names are recorded on the event, not returned.
func (h *Harness) execute(step Step) (TraceEvent, error) {
	ev := TraceEvent{Op: step.op()}

	switch ev.Op {
	case OpRender:
		r := step.Render
		ev.Target, ev.Entity, ev.Viewer = r.Display, r.Entity, r.Viewer
		var (
			x   engine.Explanation
			err error
		)
		if r.Viewer != "" {
			x, err = h.engine.ExplainFor(r.Display, r.Viewer, r.Entity)
		} else {
			x, err = h.engine.Explain(r.Display, r.Entity)
		}
		ev.Output, ev.Layer, ev.Defaulted = x.Rendered, x.Layer, x.Default
		ev.Error = errorCode(err)

	case OpRotate:
		ev.Target = step.Rotate
		out, key, err := h.engine.RotateE(step.Rotate)
		ev.Output, ev.Key, ev.Error = out, key, errorCode(err)

	case OpEval:
		ev.Target, ev.Entity = step.Eval.Condition, step.Eval.Entity
		ev.Output = strconv.FormatBool(h.engine.Evaluate(ir.Condition(step.Eval.Condition), step.Eval.Entity))

	case OpAdvance:
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return ev, err
		}
		ev.Target = step.Advance
		h.clock.Advance(d)
		ev.Output = strconv.Itoa(h.engine.Tick())

	case OpSet:
		s := step.Set
		ev.Target, ev.Entity, ev.Output = s.Token, s.Entity, s.Value
		h.src.Set(s.Entity, s.Token, s.Value)

	case OpFrame:
		ev.Target = step.Frame
		out, err := h.engine.Frame(step.Frame)
		ev.Output, ev.Error = out, errorCode(err)

	case OpReset:
		ev.Target = step.Reset
		ev.Error = errorCode(h.engine.ResetAnimation(step.Reset))

	default:
		return ev, fmt.Errorf("exactly one action is required")
	}

	ev.ElapsedMS = h.clock.Now().Sub(h.start).Milliseconds()
	return ev, nil
}

func errorCode(err error) string {
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func sortedKeys(m map[string]map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
