package service

import (
	"context"

	"github.com/linkmux/linkmux/internal/domain"
)

// Dispatcher is the facade consumed by transports: it fans shorten requests
// out to provider adapters, fronts the link cache, and exposes the process
// counters.
type Dispatcher interface {
	// ShortenOne dispatches url to exactly one provider. Per-provider
	// failures are carried inside the outcome, never raised.
	ShortenOne(ctx context.Context, url string, provider domain.ProviderID) domain.ShortenOutcome

	// ShortenAll dispatches url to every configured provider and returns one
	// outcome per provider in declaration order. One provider's failure never
	// prevents collection of the others.
	ShortenAll(ctx context.Context, url string) domain.AggregateResult

	// CacheStore stores url in the link cache and returns its token.
	CacheStore(url string) string

	// CacheResolve resolves a cache token back to its URL, returning
	// domain.ErrCacheMiss for unknown tokens.
	CacheResolve(token string) (string, error)

	// Stats returns a snapshot of the process-wide counters.
	Stats() domain.Stats

	// ProviderHealth returns the last probed health for a provider, if any.
	ProviderHealth(provider domain.ProviderID) (domain.ProviderHealth, bool)

	// CheckAllHealth probes every provider, records the results, and returns
	// them keyed by provider.
	CheckAllHealth(ctx context.Context) map[domain.ProviderID]domain.ProviderHealth

	// History returns the most recent persisted shorten attempts, newest
	// first. Returns nil when history recording is disabled.
	History(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Close closes the dispatcher and its dependencies.
	Close() error
}
