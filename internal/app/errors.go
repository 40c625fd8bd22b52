package service

import (
	"errors"
	"fmt"

	"github.com/okian/boringmap/internal/domain/model"
)

var (
	// ErrNotStarted is returned when ComputeScore is called before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrNoFetcher is returned by Start when no places fetcher was configured.
	ErrNoFetcher = fmt.Errorf("%w: no places fetcher configured", model.ErrConfig)
)

// fetchFailureMessage prefixes every collection failure.
const fetchFailureMessage = "scoring failed while fetching candidate places"
