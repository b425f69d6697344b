package orion

import (
	"errors"
	"fmt"
)

// FetchError represents a request the broker or the IdM rejected with
// an unexpected status. Meta carries the request body or headers that
// produced the failure (secrets redacted); Correlator is the
// Fiware-Correlator the server echoed back, when present.
type FetchError struct {
	URL        string
	Status     int
	Meta       string
	Correlator string
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Correlator != "" {
		return fmt.Sprintf("orion: URL[%s]: %d (correlator: %s)", e.URL, e.Status, e.Correlator)
	}
	return fmt.Sprintf("orion: URL[%s]: %d", e.URL, e.Status)
}

// IsAuthError returns true if the error is related to authentication
func (e *FetchError) IsAuthError() bool {
	return e.Status == 401 || e.Status == 403
}

// IsNotFound returns true if the resource was not found
func (e *FetchError) IsNotFound() bool {
	return e.Status == 404
}

// IsServerError returns true if the error is due to server issues
func (e *FetchError) IsServerError() bool {
	return e.Status >= 500
}

// IsFetchError checks if an error is a broker protocol error anywhere
// in its chain.
func IsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}
