// Package collect drives a paginated places search to completion.
package collect

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/boringmap/internal/domain/dedupe"
	"github.com/okian/boringmap/internal/domain/model"
	"github.com/okian/boringmap/pkg/logger"
	"github.com/okian/boringmap/pkg/metrics"
)

// Defaults for the reference pagination policy.
const (
	DefaultPageDelay = 2000 * time.Millisecond
	DefaultMaxPages  = 10
)

// Fetcher retrieves one page of places.
type Fetcher interface {
	FetchPage(ctx context.Context, q model.Query) (model.Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, q model.Query) (model.Page, error)

// FetchPage implements Fetcher.
func (f FetcherFunc) FetchPage(ctx context.Context, q model.Query) (model.Page, error) {
	return f(ctx, q)
}

// Waiter blocks for d or until ctx is done.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerWaiter waits on a timer and gives up as soon as ctx is cancelled.
type TimerWaiter struct{}

// Wait implements Waiter.
func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Collector follows continuation tokens until the provider has no more pages.
// It keeps no state between Collect calls.
type Collector struct {
	fetcher   Fetcher
	waiter    Waiter
	pageDelay time.Duration
	maxPages  int
	logger    logger.Logger
	tracer    trace.Tracer
}

// New creates a Collector around fetcher.
func New(fetcher Fetcher, opts ...Option) *Collector {
	c := &Collector{
		fetcher:   fetcher,
		waiter:    TimerWaiter{},
		pageDelay: DefaultPageDelay,
		maxPages:  DefaultMaxPages,
		tracer:    otel.Tracer("github.com/okian/boringmap/collect"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("collect")
	}
	return c
}

// Collect fetches every page for the given search and returns the
// concatenated records. Any failure aborts the whole run and no records are
// returned.
func (c *Collector) Collect(ctx context.Context, center model.Coordinate, radiusMeters int, categories []string) ([]model.PlaceRecord, error) {
	if c.fetcher == nil {
		return nil, ErrNoFetcher
	}

	seen := dedupe.New()
	cur := start()
	for cur.state == StateFetching {
		if cur.needsWait() {
			metrics.RecordPageDelayWait()
			if err := c.waiter.Wait(ctx, c.pageDelay); err != nil {
				cur = step(cur, model.Page{}, fmt.Errorf("waiting before page %d: %w", cur.pages+1, err), c.maxPages)
				break
			}
		}

		q := model.Query{
			Center:       center,
			RadiusMeters: radiusMeters,
			Categories:   categories,
			PageToken:    cur.token,
		}
		page, err := c.fetch(ctx, q, cur.pages+1)
		if err == nil {
			page.Records = c.dropDuplicates(ctx, seen, page.Records)
		}
		cur = step(cur, page, err, c.maxPages)
	}

	metrics.RecordPagesPerCollection(cur.pages)
	if cur.state == StateFailed {
		if errorsIsPageLimit(cur.err) {
			metrics.RecordPageLimitExceeded()
		}
		c.logger.Warn(ctx, "collection failed",
			logger.Int("pages", cur.pages),
			logger.Error(cur.err),
		)
		return nil, cur.err
	}

	c.logger.Debug(ctx, "collection finished",
		logger.Int("pages", cur.pages),
		logger.Int("records", len(cur.records)),
	)
	return cur.records, nil
}

func (c *Collector) fetch(ctx context.Context, q model.Query, pageNo int) (model.Page, error) {
	ctx, span := c.tracer.Start(ctx, "places.fetch_page",
		trace.WithAttributes(
			attribute.Int("page", pageNo),
			attribute.Bool("continuation", q.PageToken != ""),
		),
	)
	defer span.End()

	page, err := c.fetcher.FetchPage(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Page{}, err
	}
	span.SetAttributes(
		attribute.Int("records", len(page.Records)),
		attribute.Bool("has_next", page.HasNext()),
	)
	return page, nil
}

func (c *Collector) dropDuplicates(ctx context.Context, seen dedupe.Deduper, records []model.PlaceRecord) []model.PlaceRecord {
	kept := make([]model.PlaceRecord, 0, len(records))
	for _, r := range records {
		if seen.SeenAndRecord(ctx, r.ID) {
			continue
		}
		kept = append(kept, r)
	}
	if dropped := len(records) - len(kept); dropped > 0 {
		metrics.RecordDuplicatesDropped(dropped)
		c.logger.Debug(ctx, "dropped duplicate places", logger.Int("dropped", dropped))
	}
	return kept
}
