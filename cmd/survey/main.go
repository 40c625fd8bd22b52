package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/boringmap/internal/survey"
)

// Default configuration constants.
const (
	defaultWorkers       = 4
	defaultTimeout       = 90 * time.Second
	defaultSurveyTimeout = 30 * time.Minute
	defaultGridStep      = 0.05
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:5000", "Base URL of the service")
		points     = flag.String("points", "", `Points to score as "lat,lng;lat,lng"`)
		pointsFile = flag.String("file", "", "JSON file with points to score")
		grid       = flag.String("grid", "", `Score a rows x cols grid around the first point, e.g. "3x3"`)
		step       = flag.Float64("step", defaultGridStep, "Grid spacing in degrees")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the ranking to this JSON file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every scored point")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		survey.ShowHelp()
		return
	}

	if err := survey.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	pts, err := collectPoints(*points, *pointsFile, *grid, *step)
	if err != nil {
		_, _ = os.Stderr.WriteString("Invalid points: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSurveyTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := &survey.Config{
		BaseURL:    *baseURL,
		Points:     pts,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := survey.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Survey failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func collectPoints(points, file, grid string, step float64) ([]survey.Point, error) {
	var pts []survey.Point
	if points != "" {
		parsed, err := survey.ParsePoints(points)
		if err != nil {
			return nil, err
		}
		pts = append(pts, parsed...)
	}
	if file != "" {
		loaded, err := survey.LoadPoints(file)
		if err != nil {
			return nil, err
		}
		pts = append(pts, loaded...)
	}
	if len(pts) == 0 {
		return nil, survey.ErrNoPoints
	}
	if grid != "" {
		var rows, cols int
		if _, err := fmt.Sscanf(grid, "%dx%d", &rows, &cols); err != nil || rows <= 0 || cols <= 0 {
			return nil, fmt.Errorf("grid %q: want ROWSxCOLS", grid)
		}
		return survey.Grid(pts[0], step, rows, cols), nil
	}
	return pts, nil
}
