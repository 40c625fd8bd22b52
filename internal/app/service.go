// Package service computes boringness scores by wiring the places collector
// to the score aggregator.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/boringmap/internal/domain/collect"
	"github.com/okian/boringmap/internal/domain/model"
	"github.com/okian/boringmap/internal/domain/scoring"
	"github.com/okian/boringmap/pkg/logger"
	"github.com/okian/boringmap/pkg/metrics"
)

// Defaults matching the public places search policy.
const (
	DefaultRadiusMeters   = 10000
	DefaultComputeTimeout = 60 * time.Second
)

// Service computes boringness scores for coordinates.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher    collect.Fetcher
	collector  *collect.Collector
	aggregator *scoring.Aggregator
	waiter     collect.Waiter

	// Configuration
	table          scoring.Table
	radiusMeters   int
	pageDelay      time.Duration
	maxPages       int
	computeTimeout time.Duration

	// State
	started      bool
	computations atomic.Int64
	failures     atomic.Int64

	logger logger.Logger
	tracer trace.Tracer
}

// New constructs a Service with the default table and pagination policy.
func New(opts ...Option) *Service {
	s := &Service{
		table:          scoring.DefaultTable(),
		radiusMeters:   DefaultRadiusMeters,
		pageDelay:      collect.DefaultPageDelay,
		maxPages:       collect.DefaultMaxPages,
		computeTimeout: DefaultComputeTimeout,
		tracer:         otel.Tracer("github.com/okian/boringmap/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the configuration and builds the collector and aggregator.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if err := s.validate(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting scoring service...")

	copts := []collect.Option{
		collect.WithPageDelay(s.pageDelay),
		collect.WithMaxPages(s.maxPages),
		collect.WithLogger(s.logger.Named("collect")),
	}
	if s.waiter != nil {
		copts = append(copts, collect.WithWaiter(s.waiter))
	}
	s.collector = collect.New(s.fetcher, copts...)
	s.aggregator = scoring.NewAggregator(s.table)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("categories", s.table.Len()),
		logger.Int("radiusMeters", s.radiusMeters),
		logger.Duration("pageDelay", s.pageDelay),
		logger.Int("maxPages", s.maxPages),
		logger.Duration("computeTimeout", s.computeTimeout),
	)
	return nil
}

func (s *Service) validate() error {
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.table.Len() == 0 {
		return fmt.Errorf("%w: %w", model.ErrConfig, scoring.ErrEmptyTable)
	}
	if s.radiusMeters <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %d", model.ErrConfig, s.radiusMeters)
	}
	if s.maxPages <= 0 {
		return fmt.Errorf("%w: max pages must be positive, got %d", model.ErrConfig, s.maxPages)
	}
	return nil
}

// Stop marks the service as stopped. In-flight computations finish on their own contexts.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// ComputeScore scores the area around lat/lng.
func (s *Service) ComputeScore(ctx context.Context, lat, lng float64) (scoring.Result, error) {
	center, err := model.NewCoordinate(lat, lng)
	if err != nil {
		metrics.RecordComputation(metrics.OutcomeValidation, 0)
		return scoring.Result{}, err
	}

	s.mu.RLock()
	started := s.started
	collector, aggregator := s.collector, s.aggregator
	s.mu.RUnlock()
	if !started {
		return scoring.Result{}, ErrNotStarted
	}

	id := uuid.NewString()
	log := s.logger.With(logger.String("computationID", id))

	if s.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.computeTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "score.compute",
		trace.WithAttributes(
			attribute.String("computation.id", id),
			attribute.Float64("latitude", center.Latitude),
			attribute.Float64("longitude", center.Longitude),
		),
	)
	defer span.End()

	s.computations.Add(1)
	start := time.Now()
	log.Debug(ctx, "computation state", logger.String("state", collect.StateFetching.String()))

	records, err := collector.Collect(ctx, center, s.radiusMeters, aggregator.Table().Categories())
	if err != nil {
		s.failures.Add(1)
		elapsed := float64(time.Since(start).Milliseconds())
		metrics.RecordComputation(outcomeFor(err), elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug(ctx, "computation state", logger.String("state", collect.StateFailed.String()))
		log.Error(ctx, fetchFailureMessage,
			logger.String("center", center.String()),
			logger.Error(err),
		)
		return scoring.Result{}, fmt.Errorf("%s: %w", fetchFailureMessage, err)
	}

	log.Debug(ctx, "computation state",
		logger.String("state", collect.StateAggregating.String()),
		logger.Int("records", len(records)),
	)
	result := aggregator.Aggregate(records)

	elapsed := time.Since(start)
	metrics.RecordComputation(metrics.OutcomeSuccess, float64(elapsed.Milliseconds()))
	metrics.RecordScore(result.TotalScore, result.NumberOfPlaces)
	span.SetAttributes(
		attribute.Int("score.total", result.TotalScore),
		attribute.Int("score.places", result.NumberOfPlaces),
	)
	log.Debug(ctx, "computation state", logger.String("state", collect.StateDone.String()))
	log.Info(ctx, "score computed",
		logger.String("center", center.String()),
		logger.Int("totalScore", result.TotalScore),
		logger.Int("numberOfPlaces", result.NumberOfPlaces),
		logger.Duration("took", elapsed),
	)
	return result, nil
}

// outcomeFor maps an error to its metrics outcome label.
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, model.ErrAuth):
		return metrics.OutcomeAuth
	case errors.Is(err, model.ErrUpstream):
		return metrics.OutcomeUpstream
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeInternal
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":          s.started,
		"categories":       s.table.Categories(),
		"radiusMeters":     s.radiusMeters,
		"pageDelayMs":      s.pageDelay.Milliseconds(),
		"maxPages":         s.maxPages,
		"computeTimeoutMs": s.computeTimeout.Milliseconds(),
		"computations":     s.computations.Load(),
		"failures":         s.failures.Load(),
	}
}
