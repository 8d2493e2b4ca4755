package anim

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/marquee/internal/ir"
)

// Set is the collection of loaded animations.
//
// The id -> animation map is copy-on-write: Sync publishes a new map and
// readers use whichever map was current when they started.
type Set struct {
	mu    sync.Mutex // serializes Sync
	anims atomic.Pointer[map[string]*Animation]
}

// NewSet creates an empty set.
func NewSet() *Set {
	s := &Set{}
	empty := map[string]*Animation{}
	s.anims.Store(&empty)
	return s
}

// Sync replaces the loaded animations with specs.
//
// An animation whose id was already loaded keeps its position, with the
// index wrapped to the new frame count. New ids start at frame 0 with now
// as their last advance. Ids absent from specs are dropped.
func (s *Set) Sync(specs []ir.AnimationSpec, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.anims.Load()
	next := make(map[string]*Animation, len(specs))
	for _, spec := range specs {
		a := newAnimation(spec)
		if prev, ok := old[spec.ID]; ok {
			p := prev.pos.Load()
			idx := 0
			if a.Len() > 0 {
				idx = p.index % a.Len()
			}
			a.pos.Store(&position{index: idx, lastAdvance: p.lastAdvance})
		} else {
			a.pos.Store(&position{index: 0, lastAdvance: now})
		}
		next[spec.ID] = a
	}
	s.anims.Store(&next)
}

// Get returns the animation with id.
func (s *Set) Get(id string) (*Animation, bool) {
	a, ok := (*s.anims.Load())[id]
	return a, ok
}

// Frame implements placeholder.Frames.
func (s *Set) Frame(id string) (string, bool) {
	a, ok := s.Get(id)
	if !ok {
		return "", false
	}
	return a.Frame(), true
}

// IDs lists loaded animation ids in sorted order.
func (s *Set) IDs() []string {
	m := *s.anims.Load()
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset moves animation id back to frame 0. Reports whether id is loaded.
func (s *Set) Reset(id string, now time.Time) bool {
	a, ok := s.Get(id)
	if !ok {
		return false
	}
	a.reset(now)
	return true
}

// Tick advances every due animation. Returns how many changed frame.
func (s *Set) Tick(now time.Time) int {
	advanced := 0
	for _, a := range *s.anims.Load() {
		if a.Tick(now) {
			advanced++
		}
	}
	return advanced
}

// Run ticks the set every interval until ctx is done, reading the time from
// now. It returns ctx.Err().
func (s *Set) Run(ctx context.Context, now func() time.Time, every time.Duration) error {
	if every <= 0 {
		every = DefaultInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(now())
		}
	}
}
