package collect

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/okian/boringmap/pkg/logger"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPageDelay sets the wait before every continuation request.
func WithPageDelay(d time.Duration) Option {
	return func(c *Collector) {
		if d >= 0 {
			c.pageDelay = d
		}
	}
}

// WithMaxPages caps the number of pages read in one collection. Zero or less
// removes the cap.
func WithMaxPages(n int) Option {
	return func(c *Collector) {
		c.maxPages = n
	}
}

// WithWaiter replaces the timer used between pages.
func WithWaiter(w Waiter) Option {
	return func(c *Collector) {
		if w != nil {
			c.waiter = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer used for per-page spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Collector) {
		if t != nil {
			c.tracer = t
		}
	}
}
