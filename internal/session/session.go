// Package session wires one user's backend, local state and timer
// aggregator together. Nothing here is process-global; each surface (TUI,
// CLI, HTTP) receives a *Session explicitly.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadopc/taskday/internal/config"
	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/events"
	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/observability"
	"github.com/sadopc/taskday/internal/pgstore"
	"github.com/sadopc/taskday/internal/store"
	"github.com/sadopc/taskday/internal/timer"
)

type Session struct {
	owner   string
	backend Backend
	local   LocalState
	agg     *timer.Aggregator
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
	tick    time.Duration
	closers []io.Closer
}

// Options tune New. Zero values pick sensible defaults.
type Options struct {
	Owner        string
	Logger       *slog.Logger
	Metrics      *observability.Metrics
	Observers    []timer.Observer
	Now          func() time.Time
	TickInterval time.Duration
}

// New assembles a session over an already-open backend and local state.
func New(backend Backend, localState LocalState, opts Options) *Session {
	s := &Session{
		owner:   opts.Owner,
		backend: backend,
		local:   localState,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
		tick:    opts.TickInterval,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.tick <= 0 {
		s.tick = timer.DefaultTickInterval
	}

	aggOpts := []timer.Option{
		timer.WithClock(s.now),
		timer.WithObserver(observability.LogEvents(s.logger)),
	}
	if s.metrics != nil {
		aggOpts = append(aggOpts, timer.WithObserver(s.metrics))
	}
	for _, o := range opts.Observers {
		aggOpts = append(aggOpts, timer.WithObserver(o))
	}
	s.agg = timer.NewAggregator(backend, aggOpts...)
	return s
}

// Open builds a session from configuration: it opens the configured
// backend, the local state file and, when brokers are set, the Kafka
// publisher. Metrics are registered on reg when it is non-nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Session, error) {
	var backend Backend
	switch cfg.Backend {
	case config.BackendPostgres:
		pg, err := pgstore.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		backend = pg
	default:
		st, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		backend = st
	}

	localState, err := local.New(cfg.LocalPath)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("open local state: %w", err)
	}

	opts := Options{Owner: cfg.Owner, Logger: logger, TickInterval: cfg.TickInterval}
	if reg != nil {
		opts.Metrics = observability.NewMetrics(reg)
	}
	var closers []io.Closer
	if len(cfg.Events.Brokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, cfg.Owner, logger)
		opts.Observers = append(opts.Observers, pub)
		closers = append(closers, pub)
		logger.Info("publishing timer events", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}

	s := New(backend, localState, opts)
	s.closers = append(closers, localState, backend)
	return s, nil
}

// As returns a view of the session acting for owner. The view shares all
// resources with s; close only the original.
func (s *Session) As(owner string) *Session {
	c := *s
	c.owner = owner
	c.closers = nil
	return &c
}

func (s *Session) Owner() string                   { return s.owner }
func (s *Session) Aggregator() *timer.Aggregator   { return s.agg }
func (s *Session) Logger() *slog.Logger            { return s.logger }
func (s *Session) Metrics() *observability.Metrics { return s.metrics }
func (s *Session) TickInterval() time.Duration     { return s.tick }
func (s *Session) Now() time.Time                  { return s.now() }

// Today is the current day in local time.
func (s *Session) Today() string {
	return s.now().Format(domain.DayLayout)
}

// Ping checks the backend when it supports it.
func (s *Session) Ping(ctx context.Context) error {
	if p, ok := s.backend.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Session) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
