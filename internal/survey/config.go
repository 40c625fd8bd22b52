// Package survey scores a batch of coordinates against a running boringmap
// service and ranks them from most to least boring.
package survey

import (
	"time"

	"github.com/okian/boringmap/internal/domain/types"
)

// Config holds configuration for a survey run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Points     []Point       // Coordinates to score
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout, must cover page delays
	OutputFile string        // Ranking report, empty to skip
	Verbose    bool          // Log every scored point
}

// Point is a named coordinate to score.
type Point struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Outcome is the result of scoring one point.
type Outcome struct {
	Point    Point               `json:"point"`
	Score    types.ScoreResponse `json:"score"`
	Status   int                 `json:"status"`
	Err      string              `json:"error,omitempty"`
	Duration time.Duration       `json:"durationNs"`
}

// OK reports whether the point was scored.
func (o Outcome) OK() bool {
	return o.Err == "" && o.Status == StatusOK
}

// RankedPoint is one row of the final ranking.
type RankedPoint struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TotalScore     int     `json:"totalScore"`
	NumberOfPlaces int     `json:"numberOfPlaces"`
}

// Stats holds run statistics.
type Stats struct {
	PointsRequested int
	PointsScored    int
	PointsFailed    int
	Inconsistent    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
