// Package server implements the TCP listener and connection admission
// policy wrapped around the handler package.
package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/divvydb/divvy/rules"
	"github.com/divvydb/divvy/server/metrics"
	"github.com/divvydb/divvy/store"
)

// Config carries the knobs Server needs beyond the rule table and store,
// lifted straight off rules.ServerConfig so callers don't have to
// re-translate one struct into another.
type Config struct {
	ListenAddr      string
	MaxLineBytes    int
	MaxConnections  int
	AcceptRateLimit float64
	ShutdownGrace   time.Duration
	FailOpen        bool
}

// Server owns the listening socket and the fixed set of connections it
// admits concurrently. Everything it dispatches into is immutable or
// already safe for concurrent use: Table is built once at startup, Store
// implementations serialize their own state, and Sink is documented to be
// concurrency-safe.
type Server struct {
	cfg    Config
	table  *rules.Table
	store  store.Store
	sink   metrics.Sink
	logger *slog.Logger

	listener net.Listener
	limiter  *rate.Limiter

	connSem   chan struct{}
	connCount int64

	wg sync.WaitGroup
}

// New constructs a Server. logger defaults to slog.Default() when nil, and
// sink to metrics.NoopSink{} when nil.
func New(cfg Config, table *rules.Table, st store.Store, sink metrics.Sink, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	s := &Server{
		cfg:    cfg,
		table:  table,
		store:  st,
		sink:   sink,
		logger: logger,
	}
	if cfg.AcceptRateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRateLimit), int(cfg.AcceptRateLimit)+1)
	}
	if cfg.MaxConnections > 0 {
		s.connSem = make(chan struct{}, cfg.MaxConnections)
	}
	return s
}

// Listen opens the listening socket without starting to accept yet, so
// callers (and tests) can read back the bound address before Serve blocks --
// useful for ":0" ephemeral-port listeners.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr returns the listener's bound address. Listen must have succeeded
// first.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until ctx is canceled, admitting each one
// through the accept-rate limiter and the connection-count semaphore before
// handing it to its own goroutine. On
// cancellation it stops accepting, waits up to cfg.ShutdownGrace for
// in-flight connections to finish on their own, and returns.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return s.waitForDrain()
			default:
				return err
			}
		}

		if s.limiter != nil && !s.limiter.Allow() {
			s.sink.Increment("conn.rejected.rate-limited")
			conn.Close()
			continue
		}

		if s.connSem != nil {
			select {
			case s.connSem <- struct{}{}:
			default:
				s.sink.Increment("conn.rejected.max-connections")
				conn.Close()
				continue
			}
		}

		s.sink.Increment("conn.accepted")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if s.connSem != nil {
				defer func() { <-s.connSem }()
			}
			s.handle(ctx, conn)
		}()
	}
}

// waitForDrain blocks until every in-flight connection goroutine exits, or
// cfg.ShutdownGrace elapses, whichever comes first.
func (s *Server) waitForDrain() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	grace := s.cfg.ShutdownGrace
	if grace <= 0 {
		grace = 5 * time.Second
	}
	select {
	case <-done:
	case <-time.After(grace):
		s.logger.Warn("shutdown grace period elapsed with connections still open")
	}
	return nil
}
