package api

import (
	"net/http"
	"time"

	"github.com/okian/boringmap/internal/domain/types"
)

// InfoHandler answers the liveness routes.
type InfoHandler struct {
	version     string
	environment string
	now         func() time.Time
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(version, environment string) *InfoHandler {
	return &InfoHandler{version: version, environment: environment, now: time.Now}
}

// HandleRoot handles GET /. Any other path reaching the catch-all is a 404.
func (h *InfoHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, types.InfoResponse{
		Message:   "Server is working!",
		Version:   h.version,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// HandleTest handles GET /test.
func (h *InfoHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		notFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, types.TestResponse{
		Message: "Test endpoint working!",
		Env:     h.environment,
	})
}
