// Package types contains the JSON shapes shared by the HTTP API and its clients.
package types

// CategoryStat is the tally for one category in the details map.
type CategoryStat struct {
	Count int `json:"count"`
	Score int `json:"score"`
}

// LocationStat is one category row of the summary.
type LocationStat struct {
	Type         string `json:"type"`
	Count        int    `json:"count"`
	Contribution int    `json:"contribution"`
}

// Summary condenses the score breakdown.
type Summary struct {
	NumberOfPlaces int            `json:"numberOfPlaces"`
	LocationStats  []LocationStat `json:"locationStats"`
}

// Location is a point as reported by the places provider.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a place that contributed to the score.
type Place struct {
	Name     string   `json:"name"`
	Types    []string `json:"types"`
	Score    int      `json:"score"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
}

// ScoreResponse is the body of GET /api/locationBoringness.
type ScoreResponse struct {
	TotalScore int                     `json:"totalScore"`
	Details    map[string]CategoryStat `json:"details"`
	Summary    Summary                 `json:"summary"`
	Places     []Place                 `json:"places"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// InfoResponse is the body of GET /.
type InfoResponse struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// TestResponse is the body of GET /test.
type TestResponse struct {
	Message string `json:"message"`
	Env     string `json:"env"`
}
