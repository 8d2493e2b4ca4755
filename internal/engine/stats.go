package engine

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DisplayStats is the render timing of one display.
type DisplayStats struct {
	Display string        `json:"display"`
	Calls   int64         `json:"calls"`
	Total   time.Duration `json:"total_ns"`
	Average time.Duration `json:"average_ns"`
}

// counter accumulates one display's timings without locking.
type counter struct {
	calls atomic.Int64
	nanos atomic.Int64
}

// stats records render timings per display.
type stats struct {
	counters sync.Map // display -> *counter
}

func (s *stats) record(display string, d time.Duration) {
	v, ok := s.counters.Load(display)
	if !ok {
		v, _ = s.counters.LoadOrStore(display, &counter{})
	}
	c := v.(*counter)
	c.calls.Add(1)
	c.nanos.Add(int64(d))
}

func (s *stats) snapshot() []DisplayStats {
	var out []DisplayStats
	s.counters.Range(func(k, v any) bool {
		c := v.(*counter)
		calls := c.calls.Load()
		total := time.Duration(c.nanos.Load())
		ds := DisplayStats{Display: k.(string), Calls: calls, Total: total}
		if calls > 0 {
			ds.Average = total / time.Duration(calls)
		}
		out = append(out, ds)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Display < out[j].Display })
	return out
}

func (s *stats) reset() {
	s.counters.Range(func(k, _ any) bool {
		s.counters.Delete(k)
		return true
	})
}
