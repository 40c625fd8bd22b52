package collect

import (
	"errors"
	"fmt"

	"github.com/okian/boringmap/internal/domain/model"
)

var (
	// ErrNoFetcher is returned when a Collector has nothing to fetch from.
	ErrNoFetcher = fmt.Errorf("%w: collector has no page fetcher", model.ErrConfig)

	// ErrPageLimit is returned when the provider keeps handing out
	// continuation tokens past the configured page cap.
	ErrPageLimit = fmt.Errorf("%w: page limit exceeded", model.ErrUpstream)
)

func errorsIsPageLimit(err error) bool {
	return errors.Is(err, ErrPageLimit)
}
