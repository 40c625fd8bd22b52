// Package places is a client for the Google Places nearby search API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/okian/boringmap/internal/domain/model"
	"github.com/okian/boringmap/pkg/logger"
	"github.com/okian/boringmap/pkg/metrics"
)

const (
	// DefaultBaseURL is the public Maps API host.
	DefaultBaseURL = "https://maps.googleapis.com"
	nearbyPath     = "/maps/api/place/nearbysearch/json"

	DefaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// nearbyResponse is the subset of the nearby search payload we consume.
type nearbyResponse struct {
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
	NextPageToken string        `json:"next_page_token"`
	Results       []nearbyPlace `json:"results"`
}

type nearbyPlace struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Vicinity string   `json:"vicinity"`
	Geometry struct {
		Location model.LatLng `json:"location"`
	} `json:"geometry"`
}

// Client fetches nearby search pages. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
	tracer     trace.Tracer
}

// New creates a Client. An API key is required.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tracer:     otel.Tracer("github.com/okian/boringmap/places"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid places base url %q: %v", model.ErrConfig, c.baseURL, err)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("places")
	}
	return c, nil
}

// FetchPage performs one nearby search request. A continuation request sends
// the original search parameters along with the page token.
func (c *Client) FetchPage(ctx context.Context, q model.Query) (model.Page, error) {
	ctx, span := c.tracer.Start(ctx, "places.nearby_search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("radius", q.RadiusMeters),
			attribute.Int("categories", len(q.Categories)),
			attribute.Bool("continuation", q.PageToken != ""),
		),
	)
	defer span.End()

	page, status, err := c.fetch(ctx, q)
	span.SetAttributes(attribute.String("status", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Page{}, err
	}
	return page, nil
}

func (c *Client) fetch(ctx context.Context, q model.Query) (model.Page, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Page{}, "", fmt.Errorf("places rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), http.NoBody)
	if err != nil {
		return model.Page{}, "", fmt.Errorf("build places request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordPageFetch("transport_error", latency)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Page{}, "", fmt.Errorf("places request: %w", ctxErr)
		}
		return model.Page{}, "", fmt.Errorf("%w: places request: %v", model.ErrUpstream, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug(ctx, "closing places response body", logger.Error(cerr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordPageFetch("transport_error", latency)
		return model.Page{}, "", fmt.Errorf("%w: read places response: %v", model.ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		metrics.RecordPageFetch("http_"+strconv.Itoa(resp.StatusCode), latency)
		return model.Page{}, "", &model.StatusError{Kind: model.ErrAuth, Status: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordPageFetch("http_"+strconv.Itoa(resp.StatusCode), latency)
		return model.Page{}, "", &model.StatusError{Kind: model.ErrUpstream, Status: resp.Status}
	}

	var payload nearbyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordPageFetch("malformed", latency)
		return model.Page{}, "", fmt.Errorf("%w: decode places response: %v", model.ErrUpstream, err)
	}

	metrics.RecordPageFetch(payload.Status, latency)
	switch payload.Status {
	case StatusOK:
	case StatusZeroResults:
		// empty result set ends the search whatever else the payload carries
		metrics.RecordRecordsFetched(0)
		c.logger.Debug(ctx, "places page empty", logger.Float64("latencyMs", latency))
		return model.Page{}, payload.Status, nil
	default:
		c.logger.Warn(ctx, "places search rejected",
			logger.String("status", payload.Status),
			logger.String("message", payload.ErrorMessage),
		)
		return model.Page{}, payload.Status, statusError(payload.Status, payload.ErrorMessage)
	}

	page := model.Page{
		Records:   make([]model.PlaceRecord, 0, len(payload.Results)),
		NextToken: payload.NextPageToken,
	}
	for _, r := range payload.Results {
		page.Records = append(page.Records, model.PlaceRecord{
			ID:       r.PlaceID,
			Name:     r.Name,
			Types:    r.Types,
			Address:  r.Vicinity,
			Location: r.Geometry.Location,
		})
	}
	metrics.RecordRecordsFetched(len(page.Records))

	c.logger.Debug(ctx, "places page fetched",
		logger.String("status", payload.Status),
		logger.Int("records", len(page.Records)),
		logger.Bool("hasNext", page.HasNext()),
		logger.Float64("latencyMs", latency),
	)
	return page, payload.Status, nil
}

func (c *Client) requestURL(q model.Query) string {
	v := url.Values{}
	v.Set("location", q.Center.String())
	v.Set("radius", strconv.Itoa(q.RadiusMeters))
	if len(q.Categories) > 0 {
		v.Set("type", strings.Join(q.Categories, "|"))
	}
	if q.PageToken != "" {
		v.Set("pagetoken", q.PageToken)
	}
	v.Set("key", c.apiKey)
	return strings.TrimRight(c.baseURL, "/") + nearbyPath + "?" + v.Encode()
}
