package metrics

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogSinkWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLogSink(logger)

	sink.Increment("hit.accepted")
	sink.Gauge("connections", 3)
	sink.Timing("hit", 5*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "kind=counter")
	assert.Contains(t, out, "name=hit.accepted")
	assert.Contains(t, out, "kind=gauge")
	assert.Contains(t, out, "value=3")
	assert.Contains(t, out, "kind=timer")
	assert.Contains(t, out, "millis=5")
}

func TestNewLogSinkDefaultsToSlogDefault(t *testing.T) {
	sink := NewLogSink(nil)
	assert.NotNil(t, sink.logger)
}

func TestNoopSinkDiscardsEverything(t *testing.T) {
	var s NoopSink
	s.Increment("x")
	s.Gauge("y", 1)
	s.Timing("z", time.Second)
}
