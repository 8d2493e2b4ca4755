package expr

import (
	"log/slog"
	"sync"

	"github.com/roach88/marquee/internal/ir"
)

// compiled is a cached parse result. Exactly one of node and err is set.
type compiled struct {
	node Node
	err  error
}

// Evaluator evaluates conditions against an AttributeSource.
//
// Parsed conditions are memoized by their text. Condition strings come from
// configuration, so the cache is bounded by the size of the loaded config.
// Each malformed condition is logged once, the first time it is parsed.
//
// Thread-safety: Evaluator is safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
	cache  sync.Map // string -> *compiled
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for malformed-condition warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate reports whether cond holds for entity.
//
// Empty conditions are true. Malformed conditions are false.
func (e *Evaluator) Evaluate(cond ir.Condition, src ir.AttributeSource, entity string) bool {
	if cond.IsEmpty() {
		return true
	}
	c := e.compile(string(cond))
	if c.err != nil {
		return false
	}
	if src == nil {
		src = ir.EmptySource{}
	}
	return evalNode(c.node, src, entity)
}

// All reports whether every condition holds. An empty list is true.
func (e *Evaluator) All(conds []ir.Condition, src ir.AttributeSource, entity string) bool {
	for _, c := range conds {
		if !e.Evaluate(c, src, entity) {
			return false
		}
	}
	return true
}

// Any reports whether at least one condition holds. An empty list is true,
// matching the "no constraints" reading of an absent condition list.
func (e *Evaluator) Any(conds []ir.Condition, src ir.AttributeSource, entity string) bool {
	if len(conds) == 0 {
		return true
	}
	for _, c := range conds {
		if e.Evaluate(c, src, entity) {
			return true
		}
	}
	return false
}

// compile returns the cached parse of cond, parsing it on first use.
func (e *Evaluator) compile(cond string) *compiled {
	if v, ok := e.cache.Load(cond); ok {
		return v.(*compiled)
	}

	node, err := Parse(cond)
	c := &compiled{node: node, err: err}
	actual, loaded := e.cache.LoadOrStore(cond, c)
	if !loaded && err != nil {
		e.logger.Warn("malformed condition",
			"condition", cond,
			"error", err)
	}
	return actual.(*compiled)
}

// Matcher tests conditions for one entity.
type Matcher interface {
	Match(cond ir.Condition, entity string) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(cond ir.Condition, entity string) bool

// Match implements Matcher.
func (f MatcherFunc) Match(cond ir.Condition, entity string) bool {
	return f(cond, entity)
}

// Bind fixes the attribute source, producing a Matcher.
func Bind(e *Evaluator, src ir.AttributeSource) Matcher {
	return MatcherFunc(func(cond ir.Condition, entity string) bool {
		return e.Evaluate(cond, src, entity)
	})
}
