package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/marquee/internal/anim"
	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/placeholder"
	"github.com/roach88/marquee/internal/resolve"
	"github.com/roach88/marquee/internal/rotation"
)

// snapshot is one compiled Spec. Never mutated after publication.
type snapshot struct {
	hash     string
	displays map[string]Display
	order    []string
	pools    map[string]*rotation.Pool
	pipeline *placeholder.Pipeline
}

// Engine renders display text for entities.
//
// Thread-safety model:
//   - Render, RenderFor, Explain, Rotate: safe from any goroutine
//   - Register*/Unregister: safe from any goroutine, visible to the next token lookup
//   - Reload: safe from any goroutine; concurrent reloads are serialized
//   - Tick/Run: one ticking goroutine expected, concurrent ticks are harmless
type Engine struct {
	src      ir.AttributeSource
	clock    Clock
	logger   *slog.Logger
	eval     *expr.Evaluator
	registry *placeholder.Registry
	anims    *anim.Set
	intn     func(n int) int
	stats    stats

	reloadMu  sync.Mutex
	selectors map[string]*rotation.Selector // guarded by reloadMu
	snap      atomic.Pointer[snapshot]
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithLogger sets the engine logger. It is also handed to the evaluator and
// the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the time source for ticks and schedule conditions.
//
// Default: SystemClock
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRandom replaces the index source for random rotations.
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// New creates an Engine reading attributes from src. Nothing is loaded until
// Reload is called; until then every display renders "".
func New(src ir.AttributeSource, opts ...Option) *Engine {
	if src == nil {
		src = ir.EmptySource{}
	}
	e := &Engine{
		src:       src,
		clock:     SystemClock{},
		logger:    slog.Default(),
		registry:  placeholder.NewRegistry(),
		anims:     anim.NewSet(),
		selectors: map[string]*rotation.Selector{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.eval = expr.New(expr.WithLogger(e.logger))
	e.snap.Store(&snapshot{
		displays: map[string]Display{},
		pools:    map[string]*rotation.Pool{},
		pipeline: placeholder.New(e.registry, placeholder.WithLogger(e.logger), placeholder.WithFrames(e.anims)),
	})
	return e
}

// Reload replaces the loaded configuration with spec. Reports whether the
// content hash differs from the previous load.
//
// Animations and sequential cursors carry over by id; a rotation whose
// strategy changed starts a fresh cursor.
func (e *Engine) Reload(spec *Spec) bool {
	if spec == nil {
		spec = &Spec{}
	}
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	prev := e.snap.Load()
	changed := spec.Hash == "" || spec.Hash != prev.hash

	e.anims.Sync(spec.Animations, e.clock.Now())

	locals := make(map[string]placeholder.LocalFunc, len(spec.Conditionals)+len(spec.Scripts))
	for _, c := range spec.Conditionals {
		locals[c.ID] = c.Compile(e.eval)
	}
	for _, s := range spec.Scripts {
		locals[s.ID] = s.Resolve
	}

	next := &snapshot{
		hash:     spec.Hash,
		displays: make(map[string]Display, len(spec.Displays)),
		order:    make([]string, 0, len(spec.Displays)),
		pools:    make(map[string]*rotation.Pool, len(spec.Rotations)),
		pipeline: placeholder.New(e.registry,
			placeholder.WithLogger(e.logger),
			placeholder.WithFrames(e.anims),
			placeholder.WithLocals(locals),
			placeholder.WithReplacements(spec.Replacements),
		),
	}
	for _, d := range spec.Displays {
		next.displays[d.Name] = d
		next.order = append(next.order, d.Name)
	}

	selectors := make(map[string]*rotation.Selector, len(spec.Rotations))
	for _, r := range spec.Rotations {
		sel, ok := e.selectors[r.Name]
		if !ok || sel.Strategy() != r.Strategy {
			sel = rotation.NewSelector(r.Strategy, rotation.WithIntn(e.intn))
		}
		selectors[r.Name] = sel
		next.pools[r.Name] = rotation.NewPool(r.Name, r.Entries, r.Fallback, sel)
	}
	e.selectors = selectors

	e.snap.Store(next)
	e.logger.Info("configuration loaded",
		"displays", len(spec.Displays),
		"animations", len(spec.Animations),
		"rotations", len(spec.Rotations),
		"changed", changed)
	return changed
}

// Hash returns the content hash of the loaded configuration.
func (e *Engine) Hash() string {
	return e.snap.Load().hash
}

// Displays lists loaded display names in declaration order.
func (e *Engine) Displays() []string {
	return append([]string(nil), e.snap.Load().order...)
}

// Render renders display for entity. Unknown displays render "".
func (e *Engine) Render(display, entity string) string {
	out, _ := e.RenderE(display, entity)
	return out
}

// RenderE is Render that reports unknown displays.
func (e *Engine) RenderE(display, entity string) (string, error) {
	x, err := e.explain(display, placeholder.Request{Entity: entity})
	return x.Rendered, err
}

// RenderFor renders display for target as seen by viewer, enabling
// %rel_<id>% tokens.
func (e *Engine) RenderFor(display, viewer, target string) string {
	x, _ := e.ExplainFor(display, viewer, target)
	return x.Rendered
}

// Explanation describes how a render was decided.
type Explanation struct {
	Display  string           `json:"display"`
	Entity   string           `json:"entity"`
	Layers   []string         `json:"layers"`
	Layer    string           `json:"layer"`
	Index    int              `json:"index"`
	Default  bool             `json:"defaulted"`
	Template ir.Template      `json:"template"`
	Hash     string           `json:"template_hash"`
	Rendered string           `json:"rendered"`
	Decision resolve.Decision `json:"-"`
}

// Explain renders display for entity and reports which layer and entry won.
func (e *Engine) Explain(display, entity string) (Explanation, error) {
	return e.explain(display, placeholder.Request{Entity: entity})
}

// ExplainFor is Explain for a viewer/target pair.
func (e *Engine) ExplainFor(display, viewer, target string) (Explanation, error) {
	return e.explain(display, placeholder.Request{
		Entity: target,
		Pair:   &ir.Pair{Viewer: viewer, Target: target},
	})
}

func (e *Engine) explain(display string, req placeholder.Request) (Explanation, error) {
	start := time.Now()
	snap := e.snap.Load()
	d, ok := snap.displays[display]
	if !ok {
		return Explanation{Display: display, Entity: req.Entity, Index: -1}, NewUnknownDisplayError(display)
	}

	attrs := snap.pipeline.Source(req, e.src)
	layers := d.Chain.Layers(req.Entity, attrs)
	dec := resolve.Resolve(expr.Bind(e.eval, attrs), req.Entity, layers, d.Default)
	rendered := snap.pipeline.Render(dec.Template, req, e.src).String()
	e.stats.record(display, time.Since(start))

	return Explanation{
		Display:  display,
		Entity:   req.Entity,
		Layers:   d.Chain.Names(),
		Layer:    dec.Layer,
		Index:    dec.Index,
		Default:  dec.Defaulted,
		Template: dec.Template,
		Hash:     ir.TemplateHash(dec.Template),
		Rendered: rendered,
		Decision: dec,
	}, nil
}

// Rotate selects and renders the current candidate of rotation name.
// Rotations are server-wide: conditions and tokens resolve for the empty
// entity. Unknown rotations render "".
func (e *Engine) Rotate(name string) string {
	out, _, _ := e.RotateE(name)
	return out
}

// RotateE is Rotate that also returns the chosen candidate key and reports
// unknown rotations. The key is empty when the fallback was used.
func (e *Engine) RotateE(name string) (string, string, error) {
	snap := e.snap.Load()
	pool, ok := snap.pools[name]
	if !ok {
		return "", "", NewUnknownRotationError(name)
	}
	req := placeholder.Request{}
	c, _ := pool.Choose(e.clock.Now(), e.eval, snap.pipeline.Source(req, e.src))
	return snap.pipeline.Render(c.Template, req, e.src).String(), c.Key, nil
}

// Evaluate evaluates an ad-hoc condition for entity with custom placeholders
// and animations visible.
func (e *Engine) Evaluate(cond ir.Condition, entity string) bool {
	snap := e.snap.Load()
	return e.eval.Evaluate(cond, snap.pipeline.Source(placeholder.Request{Entity: entity}, e.src), entity)
}

// Tick advances due animations at the current clock time. Returns how many
// changed frame.
func (e *Engine) Tick() int {
	return e.anims.Tick(e.clock.Now())
}

// Run ticks animations every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, every time.Duration) error {
	e.logger.Info("animation ticker starting", "interval", every)
	err := e.anims.Run(ctx, e.clock.Now, every)
	e.logger.Info("animation ticker stopped")
	return err
}

// Frame returns the current frame of animation id.
func (e *Engine) Frame(id string) (string, error) {
	f, ok := e.anims.Frame(id)
	if !ok {
		return "", NewUnknownAnimationError(id)
	}
	return f, nil
}

// ResetAnimation moves animation id back to its first frame.
func (e *Engine) ResetAnimation(id string) error {
	if !e.anims.Reset(id, e.clock.Now()) {
		return NewUnknownAnimationError(id)
	}
	return nil
}

// RegisterPlaceholder registers a %placeholder_<id>% resolver.
func (e *Engine) RegisterPlaceholder(id string, fn ir.UnaryFunc) {
	e.registry.RegisterPlaceholder(id, fn)
}

// RegisterRelationalPlaceholder registers a %rel_<id>% resolver.
func (e *Engine) RegisterRelationalPlaceholder(id string, fn ir.RelationalFunc) {
	e.registry.RegisterRelationalPlaceholder(id, fn)
}

// Unregister removes id from both registration maps. Unknown ids are a no-op.
func (e *Engine) Unregister(id string) {
	e.registry.Unregister(id)
}

// Stats returns per-display render timings sorted by display name.
func (e *Engine) Stats() []DisplayStats {
	return e.stats.snapshot()
}

// ResetStats clears render timings.
func (e *Engine) ResetStats() {
	e.stats.reset()
}
