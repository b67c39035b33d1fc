package metrics

import (
	"log/slog"
	"time"
)

// LogSink writes one structured slog record per metric event, the
// teacher's own logging choice (util.InitSlog, log/slog) -- a divvy
// deployment gets metrics visibility without standing up a StatsD agent.
// Swap in a StatsD- or Datadog-backed Sink for production telemetry; the
// interface is the only contract that matters to server and handler.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink wraps logger (slog.Default() if nil) as a Sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Increment(name string) {
	s.logger.Debug("metric", "kind", "counter", "name", name)
}

func (s *LogSink) Gauge(name string, value float64) {
	s.logger.Debug("metric", "kind", "gauge", "name", name, "value", value)
}

func (s *LogSink) Timing(name string, d time.Duration) {
	s.logger.Debug("metric", "kind", "timer", "name", name, "millis", d.Milliseconds())
}
