package service

import (
	"time"

	"github.com/okian/boringmap/internal/domain/collect"
	"github.com/okian/boringmap/internal/domain/scoring"
	"github.com/okian/boringmap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the places page fetcher.
func WithFetcher(f collect.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithTable sets the category score table.
func WithTable(t scoring.Table) Option {
	return func(s *Service) {
		s.table = t
	}
}

// WithRadius sets the search radius in meters.
func WithRadius(meters int) Option {
	return func(s *Service) {
		s.radiusMeters = meters
	}
}

// WithPageDelay sets the wait before each continuation page.
func WithPageDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.pageDelay = d
		}
	}
}

// WithMaxPages caps pages per computation.
func WithMaxPages(n int) Option {
	return func(s *Service) {
		s.maxPages = n
	}
}

// WithComputeTimeout bounds a whole computation. Zero disables the bound.
func WithComputeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.computeTimeout = d
		}
	}
}

// WithWaiter replaces the inter-page timer, mostly for tests.
func WithWaiter(w collect.Waiter) Option {
	return func(s *Service) {
		if w != nil {
			s.waiter = w
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
