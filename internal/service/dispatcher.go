// Package service contains the dispatch engine: validation, fan-out to
// provider adapters, stats recording, and result aggregation.
package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/cache"
	"github.com/linkmux/linkmux/internal/domain"
	"github.com/linkmux/linkmux/internal/provider"
	"github.com/linkmux/linkmux/internal/repository"
	"github.com/linkmux/linkmux/internal/stats"
	"github.com/linkmux/linkmux/internal/validator"
)

// dispatcher implements Dispatcher.
type dispatcher struct {
	adapters []provider.Adapter
	byID     map[domain.ProviderID]provider.Adapter
	cache    cache.LinkCache
	stats    *stats.Registry
	history  repository.HistoryRepository
	logger   *zap.Logger
}

// NewDispatcher creates a dispatch engine over the given adapters. Adapter
// slice order is the declaration order used for all-provider output. history
// may be nil to disable the audit trail.
func NewDispatcher(
	adapters []provider.Adapter,
	linkCache cache.LinkCache,
	registry *stats.Registry,
	history repository.HistoryRepository,
	logger *zap.Logger,
) Dispatcher {
	byID := make(map[domain.ProviderID]provider.Adapter, len(adapters))
	for _, adapter := range adapters {
		byID[adapter.ID()] = adapter
	}

	return &dispatcher{
		adapters: adapters,
		byID:     byID,
		cache:    linkCache,
		stats:    registry,
		history:  history,
		logger:   logger,
	}
}

// ShortenOne dispatches url to exactly one provider.
func (d *dispatcher) ShortenOne(ctx context.Context, url string, providerID domain.ProviderID) domain.ShortenOutcome {
	if !validator.IsValid(url) {
		return domain.ShortenOutcome{Provider: providerID, Err: domain.ErrInvalidURL}
	}

	adapter, ok := d.byID[providerID]
	if !ok {
		return domain.ShortenOutcome{
			Provider: providerID,
			Err:      fmt.Errorf("%w: unknown provider %q", domain.ErrProvider, providerID),
		}
	}

	return d.shortenWith(ctx, adapter, url)
}

// ShortenAll dispatches url to every provider concurrently. Output keeps
// declaration order regardless of completion order.
func (d *dispatcher) ShortenAll(ctx context.Context, url string) domain.AggregateResult {
	outcomes := make([]domain.ShortenOutcome, len(d.adapters))

	if !validator.IsValid(url) {
		for i, adapter := range d.adapters {
			outcomes[i] = domain.ShortenOutcome{Provider: adapter.ID(), Err: domain.ErrInvalidURL}
		}
		return domain.AggregateResult{Outcomes: outcomes}
	}

	var wg sync.WaitGroup
	for i, adapter := range d.adapters {
		wg.Add(1)
		go func(i int, adapter provider.Adapter) {
			defer wg.Done()
			outcomes[i] = d.shortenWith(ctx, adapter, url)
		}(i, adapter)
	}
	wg.Wait()

	return domain.AggregateResult{Outcomes: outcomes}
}

// shortenWith runs one adapter call, recording counters and history.
func (d *dispatcher) shortenWith(ctx context.Context, adapter provider.Adapter, url string) domain.ShortenOutcome {
	providerID := adapter.ID()
	d.logger.Info("shortening URL",
		zap.String("provider", string(providerID)),
		zap.String("url", url))

	shortURL, err := adapter.Shorten(ctx, url)
	outcome := domain.ShortenOutcome{Provider: providerID, ShortURL: shortURL, Err: err}

	d.stats.RecordShorten(providerID, outcome.OK())
	d.recordHistory(ctx, url, outcome)

	if err != nil {
		d.logger.Warn("shorten failed",
			zap.String("provider", string(providerID)),
			zap.Error(err))
	}

	return outcome
}

// recordHistory appends the outcome to the audit trail, best effort.
func (d *dispatcher) recordHistory(ctx context.Context, url string, outcome domain.ShortenOutcome) {
	if d.history == nil {
		return
	}

	err := d.history.Record(ctx, domain.HistoryEntry{
		Provider:    outcome.Provider,
		OriginalURL: url,
		ShortURL:    outcome.ShortURL,
		Succeeded:   outcome.OK(),
	})
	if err != nil {
		d.logger.Warn("failed to record history entry",
			zap.String("provider", string(outcome.Provider)),
			zap.Error(err))
	}
}

// CacheStore stores url in the link cache and returns its token.
func (d *dispatcher) CacheStore(url string) string {
	return d.cache.Store(url)
}

// CacheResolve resolves a cache token back to its URL.
func (d *dispatcher) CacheResolve(token string) (string, error) {
	return d.cache.Resolve(token)
}

// Stats returns a snapshot of the process-wide counters.
func (d *dispatcher) Stats() domain.Stats {
	return d.stats.Snapshot()
}

// ProviderHealth returns the last probed health for a provider, if any.
func (d *dispatcher) ProviderHealth(providerID domain.ProviderID) (domain.ProviderHealth, bool) {
	return d.stats.Health(providerID)
}

// CheckAllHealth probes every provider concurrently and records the results.
func (d *dispatcher) CheckAllHealth(ctx context.Context) map[domain.ProviderID]domain.ProviderHealth {
	results := make([]domain.ProviderHealth, len(d.adapters))

	var wg sync.WaitGroup
	for i, adapter := range d.adapters {
		wg.Add(1)
		go func(i int, adapter provider.Adapter) {
			defer wg.Done()
			results[i] = adapter.HealthCheck(ctx)
		}(i, adapter)
	}
	wg.Wait()

	health := make(map[domain.ProviderID]domain.ProviderHealth, len(d.adapters))
	for i, adapter := range d.adapters {
		d.stats.RecordProbe(adapter.ID(), results[i])
		health[adapter.ID()] = results[i]
	}

	return health
}

// History returns the most recent persisted shorten attempts.
func (d *dispatcher) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if d.history == nil {
		return nil, nil
	}
	return d.history.Recent(ctx, limit)
}

// Close closes the dispatcher and its dependencies.
func (d *dispatcher) Close() error {
	if d.history != nil {
		if err := d.history.Close(); err != nil {
			return fmt.Errorf("failed to close history repository: %w", err)
		}
	}
	return nil
}

// Ensure dispatcher implements Dispatcher interface
var _ Dispatcher = (*dispatcher)(nil)
