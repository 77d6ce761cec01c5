// Package ingest talks to the external collaborators: the postcodes.io
// location resolver and the Open-Meteo weather provider. It owns the
// boundary error taxonomy; retry and circuit-breaking live here, not in the
// analytics core.
package ingest

import "fmt"

// NotFoundError means the postcode could not be resolved to a location.
// Analysis aborts and the caller is told.
type NotFoundError struct {
	Postcode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("postcode %q not found", e.Postcode)
}

// ProviderError wraps a network failure or non-success response from an
// external provider. Analysis aborts; the core never silently retries past
// the client's own backoff.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
