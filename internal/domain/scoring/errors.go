package scoring

import "errors"

// Sentinel error kinds for score table construction.
var (
	ErrEmptyTable    = errors.New("score table has no categories")
	ErrInvalidWeight = errors.New("invalid category weight")
)
