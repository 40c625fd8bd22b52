package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNoPoints is returned when a survey has nothing to score.
var ErrNoPoints = errors.New("no points to survey")

// ParsePoints parses "lat,lng;lat,lng" into points named by their coordinates.
func ParsePoints(s string) ([]Point, error) {
	var points []Point
	for _, raw := range strings.Split(s, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("point %q: want lat,lng", raw)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: latitude: %w", raw, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: longitude: %w", raw, err)
		}
		points = append(points, Point{Name: raw, Latitude: lat, Longitude: lng})
	}
	return points, nil
}

// LoadPoints reads a JSON array of points from path.
func LoadPoints(path string) ([]Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}
	var points []Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to parse points file: %w", err)
	}
	for i := range points {
		if points[i].Name == "" {
			points[i].Name = strconv.FormatFloat(points[i].Latitude, 'g', -1, 64) + "," +
				strconv.FormatFloat(points[i].Longitude, 'g', -1, 64)
		}
	}
	return points, nil
}

// Grid lays out rows x cols points around a center, step degrees apart.
func Grid(center Point, step float64, rows, cols int) []Point {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	points := make([]Point, 0, rows*cols)
	top := center.Latitude + step*float64(rows-1)/2
	left := center.Longitude - step*float64(cols-1)/2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lat := top - step*float64(r)
			lng := left + step*float64(c)
			points = append(points, Point{
				Name:      fmt.Sprintf("%s[%d,%d]", center.Name, r, c),
				Latitude:  lat,
				Longitude: lng,
			})
		}
	}
	return points
}
