// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
)

// Coordinate bounds in degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate is a validated WGS 84 point used as a search center.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// NewCoordinate validates lat/lng and returns a Coordinate.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < MinLatitude || lat > MaxLatitude {
		return Coordinate{}, fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrValidation, lat)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < MinLongitude || lng > MaxLongitude {
		return Coordinate{}, fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrValidation, lng)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}

// String renders the coordinate the way the places provider expects it ("lat,lng").
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
}

// LatLng is the location of a place as reported upstream.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceRecord is a raw place returned by the provider. It is not mutated after ingestion.
type PlaceRecord struct {
	ID       string   // provider place id, may be empty
	Name     string   // display name
	Types    []string // category tags, scored or not
	Address  string   // display address (vicinity)
	Location LatLng
}

// Page is one page of search results.
type Page struct {
	Records   []PlaceRecord
	NextToken string // empty when there are no more pages
}

// HasNext reports whether the provider handed back a continuation token.
func (p Page) HasNext() bool {
	return p.NextToken != ""
}

// Query describes a single page request against the provider.
type Query struct {
	Center       Coordinate
	RadiusMeters int
	Categories   []string
	PageToken    string
}
