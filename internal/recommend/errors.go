// ABOUTME: Sentinel errors for the recommendation pipeline
// ABOUTME: Boundary layers map these onto HTTP status codes
package recommend

import "errors"

var (
	// ErrNotFound means the selected id is not in the owner's embedded catalog
	ErrNotFound = errors.New("selected item not found")

	// ErrUpstreamUnavailable means an external service failed after any
	// allowed retries; surfaced as a server error, never retried here
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
