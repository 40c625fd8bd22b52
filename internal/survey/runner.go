package survey

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/boringmap/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// Report is the JSON document written at the end of a run.
type Report struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	BaseURL     string        `json:"baseUrl"`
	Ranking     []RankedPoint `json:"ranking"`
	Failures    []Outcome     `json:"failures,omitempty"`
}

// Run executes a complete survey and returns the ranking.
func Run(ctx context.Context, config *Config) ([]RankedPoint, error) {
	if len(config.Points) == 0 {
		return nil, ErrNoPoints
	}

	stats := &Stats{
		PointsRequested: len(config.Points),
		StartTime:       time.Now(),
	}

	logger.Get().Info(ctx, "starting boringmap survey",
		logger.String("baseURL", config.BaseURL),
		logger.Int("points", len(config.Points)),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Score points concurrently
	outcomes := scoreAll(ctx, config, stats)

	// Step 3: Verify responses
	stats.Inconsistent = verifyOutcomes(outcomes)
	if stats.Inconsistent > 0 {
		stats.PointsScored -= stats.Inconsistent
		stats.PointsFailed += stats.Inconsistent
		logger.Get().Warn(ctx, "inconsistent score responses", logger.Int("count", stats.Inconsistent))
	}

	// Step 4: Rank
	ranking := Rank(outcomes)

	// Step 5: Save report
	if config.OutputFile != "" {
		if err := saveReport(ctx, config, ranking, outcomes); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayRanking(ctx, ranking)
	displayFinalStats(stats)

	if stats.PointsScored == 0 {
		return ranking, fmt.Errorf("no point could be scored (%d failed)", stats.PointsFailed)
	}
	logger.Get().Info(ctx, "survey completed successfully")
	return ranking, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+healthPath)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes the ranking and the failures to the output file.
func saveReport(ctx context.Context, config *Config, ranking []RankedPoint, outcomes []Outcome) error {
	report := Report{
		GeneratedAt: time.Now().UTC(),
		BaseURL:     config.BaseURL,
		Ranking:     ranking,
	}
	for _, o := range outcomes {
		if !o.OK() {
			report.Failures = append(report.Failures, o)
		}
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(config.OutputFile, append(data, '\n'), reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", config.OutputFile))
	return nil
}

func displayRanking(ctx context.Context, ranking []RankedPoint) {
	for _, r := range ranking {
		logger.Get().Info(ctx, "ranked",
			logger.Int("rank", r.Rank),
			logger.String("point", r.Name),
			logger.Int("totalScore", r.TotalScore),
			logger.Int("places", r.NumberOfPlaces))
	}
}

// displayFinalStats logs the final survey statistics.
func displayFinalStats(stats *Stats) {
	var successRate, pointsPerSecond float64

	if stats.PointsRequested > 0 {
		successRate = float64(stats.PointsScored) / float64(stats.PointsRequested) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		pointsPerSecond = float64(stats.PointsRequested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("pointsRequested", stats.PointsRequested),
		logger.Int("pointsScored", stats.PointsScored),
		logger.Int("pointsFailed", stats.PointsFailed),
		logger.Int("inconsistent", stats.Inconsistent),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("pointsPerSecond", pointsPerSecond))
}
