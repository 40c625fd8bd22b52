package survey

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/boringmap/internal/domain/types"
	"github.com/okian/boringmap/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// scoreAll scores every point with a bounded worker pool. Outcomes keep the
// order of points.
func scoreAll(ctx context.Context, config *Config, stats *Stats) []Outcome {
	log := logger.Get().Named("survey")
	log.Info(ctx, "scoring points",
		logger.Int("points", len(config.Points)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	outcomes := make([]Outcome, len(config.Points))

	var (
		scored int64
		failed int64
	)

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	indexChan := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range indexChan {
				if ctx.Err() != nil {
					outcomes[index] = Outcome{Point: config.Points[index], Err: ctx.Err().Error()}
					atomic.AddInt64(&failed, 1)
					continue
				}
				out := scoreOne(ctx, client, config.BaseURL, config.Points[index])
				outcomes[index] = out
				if out.OK() {
					atomic.AddInt64(&scored, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
				if config.Verbose {
					log.Info(ctx, "point scored",
						logger.String("point", out.Point.Name),
						logger.Int("status", out.Status),
						logger.Int("totalScore", out.Score.TotalScore),
						logger.String("error", out.Err),
						logger.Duration("took", out.Duration),
					)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range config.Points {
			indexChan <- i
		}
	}()

	wg.Wait()

	stats.PointsScored = int(atomic.LoadInt64(&scored))
	stats.PointsFailed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "scoring completed",
		logger.Int("scored", stats.PointsScored),
		logger.Int("failed", stats.PointsFailed),
	)
	return outcomes
}

// scoreOne requests the score of a single point.
func scoreOne(ctx context.Context, client *HTTPClient, baseURL string, p Point) Outcome {
	start := time.Now()
	out := Outcome{Point: p}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64))

	resp, err := client.Get(ctx, baseURL+scorePath+"?"+q.Encode())
	if err != nil {
		out.Err = fmt.Sprintf("request failed: %v", err)
		out.Duration = time.Since(start)
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	out.Status = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = fmt.Sprintf("failed to read response: %v", err)
		return out
	}

	if resp.StatusCode != StatusOK {
		var e types.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			out.Err = fmt.Sprintf("HTTP %d: %s: %s", resp.StatusCode, e.Error, e.Message)
		} else {
			out.Err = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return out
	}

	if err := json.Unmarshal(body, &out.Score); err != nil {
		out.Err = fmt.Sprintf("failed to parse response: %v", err)
	}
	return out
}
