package placeholder

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/marquee/internal/ir"
)

// Token prefixes with engine-owned meaning.
const (
	PrefixAnimation   = "animation_"
	PrefixPlaceholder = "placeholder_"
	PrefixRelational  = "rel_"
)

// Frames exposes current animation frames. Reading a frame never advances it.
type Frames interface {
	Frame(id string) (string, bool)
}

// LocalFunc resolves a config-defined placeholder for an entity. src is the
// attribute source for the render, with value replacements applied.
type LocalFunc func(entity string, src ir.AttributeSource) string

// Request identifies what a render is for.
type Request struct {
	// Entity is the entity the text is rendered for.
	Entity string
	// Pair is set for relational renders (e.g. a nametag seen by a viewer).
	Pair *ir.Pair
}

// Pipeline renders templates. A Pipeline is immutable after construction
// apart from its shared Registry, and safe for concurrent use.
type Pipeline struct {
	registry     *Registry
	frames       Frames
	locals       map[string]LocalFunc
	replacements map[string]Replacement
	logger       *slog.Logger
	panics       sync.Map // token + panic text, logged once each
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for recovered resolver panics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFrames sets the animation frame source.
func WithFrames(f Frames) Option {
	return func(p *Pipeline) { p.frames = f }
}

// WithLocals sets config-defined %placeholder_<id>% resolvers.
func WithLocals(locals map[string]LocalFunc) Option {
	return func(p *Pipeline) { p.locals = locals }
}

// WithReplacements sets value replacements keyed by attribute token name.
func WithReplacements(rs []Replacement) Option {
	return func(p *Pipeline) {
		p.replacements = make(map[string]Replacement, len(rs))
		for _, r := range rs {
			p.replacements[strings.Trim(r.Placeholder, "%")] = r
		}
	}
}

// New creates a Pipeline. A nil registry is replaced by an empty one.
func New(registry *Registry, opts ...Option) *Pipeline {
	if registry == nil {
		registry = NewRegistry()
	}
	p := &Pipeline{registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the runtime registry.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Render renders every line of t.
func (p *Pipeline) Render(t ir.Template, req Request, src ir.AttributeSource) ir.Template {
	out := make(ir.Template, len(t))
	for i, line := range t {
		out[i] = p.RenderString(line, req, src)
	}
	return out
}

// RenderString renders a single line of text.
func (p *Pipeline) RenderString(text string, req Request, src ir.AttributeSource) string {
	if src == nil {
		src = ir.EmptySource{}
	}
	return ir.ExpandTokens(text, func(name string) string {
		return p.resolve(name, req, src)
	})
}

// resolve resolves one token name in pipeline order.
func (p *Pipeline) resolve(name string, req Request, src ir.AttributeSource) string {
	if id, ok := strings.CutPrefix(name, PrefixAnimation); ok && p.frames != nil {
		if frame, ok := p.frames.Frame(id); ok {
			return frame
		}
	}

	if id, ok := strings.CutPrefix(name, PrefixPlaceholder); ok {
		if fn, ok := p.registry.Unary(id); ok {
			return p.guard(name, func() string { return fn(req.Entity) })
		}
		if fn, ok := p.locals[id]; ok {
			attrs := p.attributes(req, src)
			return p.guard(name, func() string { return fn(req.Entity, attrs) })
		}
	}

	if id, ok := strings.CutPrefix(name, PrefixRelational); ok && req.Pair != nil {
		if fn, ok := p.registry.Relational(id); ok {
			pair := *req.Pair
			return p.guard(name, func() string { return fn(pair.Viewer, pair.Target) })
		}
	}

	return p.lookup(name, req, src)
}

// lookup delegates name to the attribute source and applies any replacement.
func (p *Pipeline) lookup(name string, req Request, src ir.AttributeSource) string {
	value := p.guard(name, func() string {
		if req.Pair != nil && strings.HasPrefix(name, PrefixRelational) {
			if rs, ok := src.(ir.RelationalSource); ok {
				return rs.LookupRelational(req.Pair.Viewer, req.Pair.Target, name)
			}
		}
		return src.Lookup(req.Entity, name)
	})
	if r, ok := p.replacements[name]; ok {
		return r.Apply(value)
	}
	return value
}

// attributes wraps src so config-defined resolvers see replaced values but
// never other custom placeholders.
func (p *Pipeline) attributes(req Request, src ir.AttributeSource) ir.AttributeSource {
	return ir.SourceFunc(func(entity, token string) string {
		return p.lookup(token, Request{Entity: entity, Pair: req.Pair}, src)
	})
}

// guard runs fn, converting a panic into an empty result. A repeated panic
// is logged only the first time.
func (p *Pipeline) guard(name string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if _, seen := p.panics.LoadOrStore(name+"\x00"+msg, struct{}{}); !seen {
				p.logger.Error("placeholder resolver panicked",
					"token", name,
					"panic", msg)
			}
			out = ""
		}
	}()
	return fn()
}
