package server

import (
	"sync"
	"time"
)

// recordingSink captures every metric emission for assertions, standing in
// for a real metrics.Sink in tests that need to observe gauge/counter
// behavior rather than just the wire reply.
type recordingSink struct {
	mu       sync.Mutex
	counters []string
	gauges   []float64
	timings  []string
}

func (s *recordingSink) Increment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = append(s.counters, name)
}

func (s *recordingSink) Gauge(name string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gauges = append(s.gauges, value)
}

func (s *recordingSink) Timing(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings = append(s.timings, name)
}
