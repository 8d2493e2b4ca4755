package placeholder

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/roach88/marquee/internal/ir"
)

// registrations is an immutable view of the registry. It is replaced, never
// mutated, once published.
type registrations struct {
	unary      map[string]ir.UnaryFunc
	relational map[string]ir.RelationalFunc
}

// Registry holds custom placeholder resolvers registered at runtime by
// integrations.
//
// Thread-safety: reads take a consistent snapshot through an atomic pointer
// and never lock. Writers serialize on a mutex and publish a fresh copy, so a
// render in flight always sees a complete registration set.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[registrations]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snap.Store(&registrations{
		unary:      map[string]ir.UnaryFunc{},
		relational: map[string]ir.RelationalFunc{},
	})
	return r
}

// RegisterPlaceholder registers fn under %placeholder_<id>%.
// Registering an existing id replaces it. A nil fn is ignored.
func (r *Registry) RegisterPlaceholder(id string, fn ir.UnaryFunc) {
	if fn == nil {
		return
	}
	r.update(func(next *registrations) {
		next.unary[id] = fn
	})
}

// RegisterRelationalPlaceholder registers fn under %rel_<id>%.
// Registering an existing id replaces it. A nil fn is ignored.
func (r *Registry) RegisterRelationalPlaceholder(id string, fn ir.RelationalFunc) {
	if fn == nil {
		return
	}
	r.update(func(next *registrations) {
		next.relational[id] = fn
	})
}

// Unregister removes id from both the unary and relational maps.
// Unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	cur := r.snap.Load()
	_, u := cur.unary[id]
	_, rel := cur.relational[id]
	if !u && !rel {
		return
	}
	r.update(func(next *registrations) {
		delete(next.unary, id)
		delete(next.relational, id)
	})
}

// Unary returns the unary resolver registered under id.
func (r *Registry) Unary(id string) (ir.UnaryFunc, bool) {
	fn, ok := r.snap.Load().unary[id]
	return fn, ok
}

// Relational returns the relational resolver registered under id.
func (r *Registry) Relational(id string) (ir.RelationalFunc, bool) {
	fn, ok := r.snap.Load().relational[id]
	return fn, ok
}

// IDs lists registered unary and relational ids, each sorted.
func (r *Registry) IDs() (unary, relational []string) {
	cur := r.snap.Load()
	for id := range cur.unary {
		unary = append(unary, id)
	}
	for id := range cur.relational {
		relational = append(relational, id)
	}
	sort.Strings(unary)
	sort.Strings(relational)
	return unary, relational
}

// update copies the current snapshot, applies fn and publishes the result.
func (r *Registry) update(fn func(next *registrations)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	next := &registrations{
		unary:      make(map[string]ir.UnaryFunc, len(cur.unary)+1),
		relational: make(map[string]ir.RelationalFunc, len(cur.relational)+1),
	}
	for k, v := range cur.unary {
		next.unary[k] = v
	}
	for k, v := range cur.relational {
		next.relational[k] = v
	}
	fn(next)
	r.snap.Store(next)
}
