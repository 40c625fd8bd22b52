package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/boringmap/internal/domain/model"
	"github.com/okian/boringmap/internal/domain/scoring"
	"github.com/okian/boringmap/internal/domain/types"
	"github.com/okian/boringmap/pkg/logger"
)

// ScoreHandler serves boringness scores.
type ScoreHandler struct {
	deps          Dependencies
	exposeDetails bool
	logger        logger.Logger
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies, exposeDetails bool, l logger.Logger) *ScoreHandler {
	return &ScoreHandler{deps: deps, exposeDetails: exposeDetails, logger: l}
}

// HandleLocationBoringness handles GET /api/locationBoringness?latitude=&longitude=.
func (h *ScoreHandler) HandleLocationBoringness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		notFound(w, r)
		return
	}

	q := r.URL.Query()
	rawLat, rawLng := strings.TrimSpace(q.Get("latitude")), strings.TrimSpace(q.Get("longitude"))
	if rawLat == "" || rawLng == "" {
		writeError(w, http.StatusBadRequest, labelMissingParameters, "Both latitude and longitude are required")
		return
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		writeError(w, http.StatusBadRequest, labelInvalidCoordinates, invalidCoordinatesMessage)
		return
	}
	if _, err := model.NewCoordinate(lat, lng); err != nil {
		writeError(w, http.StatusBadRequest, labelInvalidCoordinates, invalidCoordinatesMessage)
		return
	}

	result, err := h.deps.ComputeScore(r.Context(), lat, lng)
	if err != nil {
		status, label := classify(err)
		message := genericFailureMessage
		if h.exposeDetails || status == http.StatusBadRequest {
			message = err.Error()
		}
		h.logger.Error(r.Context(), "location score failed",
			logger.Float64("latitude", lat),
			logger.Float64("longitude", lng),
			logger.Int("status", status),
			logger.Error(err),
		)
		writeError(w, status, label, message)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(result))
}

const invalidCoordinatesMessage = "Latitude must be between -90 and 90, longitude between -180 and 180"

// toResponse converts a scoring result to its public JSON shape.
func toResponse(res scoring.Result) types.ScoreResponse {
	resp := types.ScoreResponse{
		TotalScore: res.TotalScore,
		Details:    make(map[string]types.CategoryStat, len(res.Details)),
		Summary: types.Summary{
			NumberOfPlaces: res.NumberOfPlaces,
			LocationStats:  make([]types.LocationStat, 0, len(res.Details)),
		},
		Places: make([]types.Place, 0, len(res.Places)),
	}
	for _, d := range res.Details {
		resp.Details[d.Category] = types.CategoryStat{Count: d.Count, Score: d.Score}
		resp.Summary.LocationStats = append(resp.Summary.LocationStats, types.LocationStat{
			Type:         d.Category,
			Count:        d.Count,
			Contribution: d.Score,
		})
	}
	for _, p := range res.Places {
		resp.Places = append(resp.Places, types.Place{
			Name:     p.Name,
			Types:    p.Types,
			Score:    p.Score,
			Address:  p.Address,
			Location: types.Location{Lat: p.Location.Lat, Lng: p.Location.Lng},
		})
	}
	return resp
}
