package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the scoring core. Callers distinguish them with errors.Is.
var (
	// ErrValidation marks a bad or missing coordinate supplied by the caller.
	ErrValidation = errors.New("validation error")
	// ErrConfig marks a configuration problem detected at startup.
	ErrConfig = errors.New("config error")
	// ErrAuth marks an access denial reported by the places provider.
	ErrAuth = errors.New("places access denied")
	// ErrUpstream marks any other non-success answer from the places provider.
	ErrUpstream = errors.New("places upstream error")
)

// StatusError carries the provider status that caused a failed page fetch.
type StatusError struct {
	Kind    error
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: status %s: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%v: status %s", e.Kind, e.Status)
}

// Unwrap exposes the error kind.
func (e *StatusError) Unwrap() error {
	return e.Kind
}
