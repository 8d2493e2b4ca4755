// Package anim holds animation frame state and advances it on a timer.
//
// Each animation's position is an immutable {index, lastAdvance} record
// swapped through an atomic pointer. Renders read the current record without
// locking and can never observe a half-applied advance. Advancing one
// animation never blocks reads of another.
package anim

import (
	"sync/atomic"
	"time"

	"github.com/roach88/marquee/internal/ir"
)

// DefaultInterval is used when an animation does not set a positive interval.
const DefaultInterval = 500 * time.Millisecond

// position is one published animation state. Never mutated after Store.
type position struct {
	index       int
	lastAdvance time.Time
}

// Animation is a named frame sequence with atomically published position.
type Animation struct {
	id       string
	frames   []string
	interval time.Duration
	pos      atomic.Pointer[position]
}

// NewAnimation creates an animation at frame 0, last advanced at now.
func NewAnimation(spec ir.AnimationSpec, now time.Time) *Animation {
	a := newAnimation(spec)
	a.pos.Store(&position{index: 0, lastAdvance: now})
	return a
}

func newAnimation(spec ir.AnimationSpec) *Animation {
	interval := spec.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Animation{
		id:       spec.ID,
		frames:   append([]string(nil), spec.Frames...),
		interval: interval,
	}
}

// ID returns the animation id.
func (a *Animation) ID() string { return a.id }

// Interval returns the effective advance interval.
func (a *Animation) Interval() time.Duration { return a.interval }

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// Index returns the current frame index.
func (a *Animation) Index() int { return a.pos.Load().index }

// Frame returns the current frame text. A zero-frame animation renders "".
func (a *Animation) Frame() string {
	if len(a.frames) == 0 {
		return ""
	}
	return a.frames[a.pos.Load().index]
}

// Tick advances by exactly one frame when the interval has elapsed since the
// last advance, and records now as the new last advance. Animations with at
// most one frame never advance. Reports whether the frame changed.
func (a *Animation) Tick(now time.Time) bool {
	n := len(a.frames)
	if n <= 1 {
		return false
	}
	cur := a.pos.Load()
	if now.Sub(cur.lastAdvance) < a.interval {
		return false
	}
	next := &position{index: (cur.index + 1) % n, lastAdvance: now}
	return a.pos.CompareAndSwap(cur, next)
}

// reset moves the animation back to frame 0.
func (a *Animation) reset(now time.Time) {
	a.pos.Store(&position{index: 0, lastAdvance: now})
}
