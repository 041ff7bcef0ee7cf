package domain

import (
	"errors"
)

// Failure taxonomy for shorten and probe attempts. Adapters and the dispatch
// engine wrap these sentinels so callers can branch with errors.Is and render
// distinct user-facing messages.
var (
	// ErrInvalidURL means the input failed syntactic validation; no provider
	// was contacted.
	ErrInvalidURL = errors.New("invalid url")

	// ErrUnconfigured means the provider requires a credential and none was
	// supplied. This is an expected state, not a startup failure.
	ErrUnconfigured = errors.New("api key not configured")

	// ErrTimeout means the provider did not respond within its deadline.
	ErrTimeout = errors.New("provider timeout")

	// ErrTransport means the provider could not be reached at all.
	ErrTransport = errors.New("transport error")

	// ErrProvider means the provider was reached but reported a business-logic
	// failure or returned an unparseable response.
	ErrProvider = errors.New("provider error")

	// ErrQuotaOrAuth means the provider rejected the request with an
	// authorization or quota HTTP status. Kept distinct from ErrProvider
	// because the rendered message differs.
	ErrQuotaOrAuth = errors.New("quota exceeded or invalid api key")

	// ErrCacheMiss means a cache token was not found. Callers treat this as a
	// normal outcome and ask for the URL again.
	ErrCacheMiss = errors.New("url not found in cache")
)
