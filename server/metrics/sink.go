// Package metrics defines the injectable counter/gauge/timer contract the
// connection server and hit handler report through, plus the two
// implementations divvy ships out of the box.
package metrics

import "time"

// Sink is the abstract metrics contract. It must be safe for concurrent
// use -- every connection goroutine writes to the same sink.
type Sink interface {
	Increment(name string)
	Gauge(name string, value float64)
	Timing(name string, d time.Duration)
}

// NoopSink discards every event. Used by tests that don't assert on metrics.
type NoopSink struct{}

func (NoopSink) Increment(string)             {}
func (NoopSink) Gauge(string, float64)        {}
func (NoopSink) Timing(string, time.Duration) {}
