package engine

import "time"

// Clock supplies the wall-clock time used for animation ticks and schedule
// conditions.
//
// Production uses SystemClock. Tests use testutil.ManualClock so ticks and
// time windows are reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
