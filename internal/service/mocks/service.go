package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linkmux/linkmux/internal/domain"
)

// Dispatcher is a mock implementation of service.Dispatcher
type Dispatcher struct {
	mock.Mock
}

// ShortenOne dispatches url to exactly one provider
func (m *Dispatcher) ShortenOne(ctx context.Context, url string, provider domain.ProviderID) domain.ShortenOutcome {
	args := m.Called(ctx, url, provider)
	return args.Get(0).(domain.ShortenOutcome)
}

// ShortenAll dispatches url to every configured provider
func (m *Dispatcher) ShortenAll(ctx context.Context, url string) domain.AggregateResult {
	args := m.Called(ctx, url)
	return args.Get(0).(domain.AggregateResult)
}

// CacheStore stores url in the link cache and returns its token
func (m *Dispatcher) CacheStore(url string) string {
	args := m.Called(url)
	return args.String(0)
}

// CacheResolve resolves a cache token back to its URL
func (m *Dispatcher) CacheResolve(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// Stats returns a snapshot of the process-wide counters
func (m *Dispatcher) Stats() domain.Stats {
	args := m.Called()
	return args.Get(0).(domain.Stats)
}

// ProviderHealth returns the last probed health for a provider
func (m *Dispatcher) ProviderHealth(provider domain.ProviderID) (domain.ProviderHealth, bool) {
	args := m.Called(provider)
	return args.Get(0).(domain.ProviderHealth), args.Bool(1)
}

// CheckAllHealth probes every provider and records the results
func (m *Dispatcher) CheckAllHealth(ctx context.Context) map[domain.ProviderID]domain.ProviderHealth {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.ProviderID]domain.ProviderHealth)
}

// History returns the most recent persisted shorten attempts
func (m *Dispatcher) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// Close closes the dispatcher and its dependencies
func (m *Dispatcher) Close() error {
	args := m.Called()
	return args.Error(0)
}
