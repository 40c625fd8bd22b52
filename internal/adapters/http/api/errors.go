package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/boringmap/internal/domain/model"
)

// Error labels returned in the "error" field.
const (
	labelMissingParameters  = "Missing parameters"
	labelInvalidCoordinates = "Invalid coordinates"
	labelNotFound           = "Not Found"
	labelAuth               = "Upstream access denied"
	labelUpstream           = "Upstream error"
	labelTimeout            = "Timeout"
	labelServer             = "Server error"

	genericFailureMessage = "An error occurred while calculating location score"
)

// classify maps a scoring error to an HTTP status and error label.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, labelInvalidCoordinates
	case errors.Is(err, model.ErrAuth):
		return http.StatusBadGateway, labelAuth
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway, labelUpstream
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, labelTimeout
	default:
		return http.StatusInternalServerError, labelServer
	}
}
