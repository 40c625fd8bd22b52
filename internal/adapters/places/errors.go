package places

import (
	"fmt"

	"github.com/okian/boringmap/internal/domain/model"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = fmt.Errorf("%w: places api key is not set", model.ErrConfig)

// Provider statuses.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// statusError maps a non-success provider status to an error kind.
func statusError(status, message string) error {
	kind := model.ErrUpstream
	if status == StatusRequestDenied {
		kind = model.ErrAuth
	}
	return &model.StatusError{Kind: kind, Status: status, Message: message}
}
