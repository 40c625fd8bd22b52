// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/boringmap/internal/domain/scoring"
	"github.com/okian/boringmap/internal/domain/types"
	"github.com/okian/boringmap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ComputeScore(ctx context.Context, lat, lng float64) (scoring.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	scoreHandler  *ScoreHandler
	infoHandler   *InfoHandler
	logger        logger.Logger
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	version       string
	environment   string
	exposeDetails bool
	logger        logger.Logger
}

// WithVersion sets the version reported by GET /.
func WithVersion(v string) Option {
	return func(o *serverOptions) {
		if v != "" {
			o.version = v
		}
	}
}

// WithEnvironment sets the environment reported by GET /test. The
// "development" environment also exposes error details to clients.
func WithEnvironment(env string) Option {
	return func(o *serverOptions) {
		if env != "" {
			o.environment = env
			o.exposeDetails = env == "development"
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{
		version:     "1.0.0",
		environment: "development",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("http")
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		scoreHandler:  NewScoreHandler(deps, o.exposeDetails, o.logger),
		infoHandler:   NewInfoHandler(o.version, o.environment),
		logger:        o.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/locationBoringness", MetricsMiddleware(s.scoreHandler.HandleLocationBoringness, "locationBoringness"))
	mux.HandleFunc("/test", MetricsMiddleware(s.infoHandler.HandleTest, "test"))
	mux.HandleFunc("/", MetricsMiddleware(s.infoHandler.HandleRoot, "root"))
}

// Handler wraps mux with the cross-cutting middleware.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return RecoverMiddleware(RequestIDMiddleware(CORSMiddleware(mux)), s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, label, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, types.ErrorResponse{Error: label, Message: message})
}

// notFound mirrors the "Cannot METHOD /path" reply for unknown routes.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, labelNotFound, "Cannot "+r.Method+" "+r.URL.RequestURI())
}
