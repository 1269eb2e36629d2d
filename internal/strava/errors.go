package strava

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch is returned when an upstream payload misses a required
// field or cannot be decoded at all.
var ErrSchemaMismatch = errors.New("upstream payload schema mismatch")

// UpstreamError is a non-2xx answer from Strava.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("strava %s: unexpected status %d (%s)", e.Endpoint, e.StatusCode, e.Status)
}

func schemaMismatch(endpoint, detail string) error {
	return fmt.Errorf("strava %s: %s: %w", endpoint, detail, ErrSchemaMismatch)
}
