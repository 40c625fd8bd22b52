package survey

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/boringmap/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to stdout and, when logFile is set, to
// that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the survey tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Boringmap Survey Tool
=====================

Scores many coordinates against a running boringmap service and ranks them
from most boring (lowest total score) to least.

Usage:
  go run ./cmd/survey [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:5000")
  -points string
        Points to score as "lat,lng;lat,lng"
  -file string
        JSON file with [{"name":..., "latitude":..., "longitude":...}]
  -grid string
        Score a rows x cols grid around the first point, e.g. "3x3"
  -step float
        Grid spacing in degrees (default 0.05)
  -workers int
        Number of concurrent workers (default 4)
  -timeout duration
        HTTP request timeout (default 90s)
  -output string
        Write the ranking to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Log every scored point
  -help
        Show this help message

Examples:
  # Rank two points
  go run ./cmd/survey -points "40.7128,-74.0060;51.5074,-0.1278"

  # Rank a 3x3 grid around a point and save the report
  go run ./cmd/survey -points "40.7128,-74.0060" -grid 3x3 -output ranking.json
`)
}
