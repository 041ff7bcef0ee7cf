package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/cache/memory"
	cacheMocks "github.com/linkmux/linkmux/internal/cache/mocks"
	"github.com/linkmux/linkmux/internal/domain"
	"github.com/linkmux/linkmux/internal/provider"
	providerMocks "github.com/linkmux/linkmux/internal/provider/mocks"
	repoMocks "github.com/linkmux/linkmux/internal/repository/mocks"
	"github.com/linkmux/linkmux/internal/stats"
)

func newMockAdapter(id domain.ProviderID) *providerMocks.Adapter {
	adapter := &providerMocks.Adapter{}
	adapter.On("ID").Return(id)
	return adapter
}

type fixture struct {
	dispatcher Dispatcher
	adapters   map[domain.ProviderID]*providerMocks.Adapter
	registry   *stats.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	adapters := map[domain.ProviderID]*providerMocks.Adapter{}
	ordered := make([]provider.Adapter, 0, len(domain.AllProviderIDs))
	for _, id := range domain.AllProviderIDs {
		adapter := newMockAdapter(id)
		adapters[id] = adapter
		ordered = append(ordered, adapter)
	}

	registry := stats.New(prometheus.NewRegistry())
	dispatcher := NewDispatcher(ordered, memory.New(), registry, nil, zap.NewNop())

	return &fixture{dispatcher: dispatcher, adapters: adapters, registry: registry}
}

func TestDispatcher_ShortenOne(t *testing.T) {
	ctx := context.Background()

	t.Run("successful shorten updates counters", func(t *testing.T) {
		f := newFixture(t)
		f.adapters[domain.ProviderTinyURL].
			On("Shorten", ctx, "https://example.com/very/long/path?x=1").
			Return("http://tiny.example/abc123", nil)

		outcome := f.dispatcher.ShortenOne(ctx, "https://example.com/very/long/path?x=1", domain.ProviderTinyURL)

		require.True(t, outcome.OK())
		assert.Equal(t, "http://tiny.example/abc123", outcome.ShortURL)
		assert.Equal(t, domain.ProviderTinyURL, outcome.Provider)

		snap := f.dispatcher.Stats()
		assert.Equal(t, int64(1), snap.Total)
		assert.Equal(t, int64(1), snap.Successful)
		assert.Zero(t, snap.Failed)
	})

	t.Run("invalid URL never contacts the adapter", func(t *testing.T) {
		f := newFixture(t)

		outcome := f.dispatcher.ShortenOne(ctx, "not a url", domain.ProviderBitly)

		require.Error(t, outcome.Err)
		assert.ErrorIs(t, outcome.Err, domain.ErrInvalidURL)
		f.adapters[domain.ProviderBitly].AssertNotCalled(t, "Shorten", mock.Anything, mock.Anything)

		snap := f.dispatcher.Stats()
		assert.Zero(t, snap.Total)
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := newFixture(t)

		outcome := f.dispatcher.ShortenOne(ctx, "https://example.com", domain.ProviderID("unknown"))

		require.Error(t, outcome.Err)
		assert.ErrorIs(t, outcome.Err, domain.ErrProvider)
	})

	t.Run("adapter failure carried in outcome", func(t *testing.T) {
		f := newFixture(t)
		f.adapters[domain.ProviderGPLinks].
			On("Shorten", ctx, "https://example.com").
			Return("", fmt.Errorf("gplinks: %w", domain.ErrQuotaOrAuth))

		outcome := f.dispatcher.ShortenOne(ctx, "https://example.com", domain.ProviderGPLinks)

		require.Error(t, outcome.Err)
		assert.ErrorIs(t, outcome.Err, domain.ErrQuotaOrAuth)
		assert.False(t, outcome.OK())

		snap := f.dispatcher.Stats()
		assert.Equal(t, int64(1), snap.Total)
		assert.Equal(t, int64(1), snap.Failed)
	})
}

func TestDispatcher_ShortenAll(t *testing.T) {
	ctx := context.Background()

	t.Run("one outcome per provider in declaration order", func(t *testing.T) {
		f := newFixture(t)
		f.adapters[domain.ProviderBitly].On("Shorten", ctx, "https://example.com").Return("https://bit.ly/a", nil)
		f.adapters[domain.ProviderTinyURL].On("Shorten", ctx, "https://example.com").Return("https://tiny.one/b", nil)
		f.adapters[domain.ProviderCuttly].On("Shorten", ctx, "https://example.com").Return("", fmt.Errorf("cuttly: %w", domain.ErrUnconfigured))
		f.adapters[domain.ProviderGPLinks].On("Shorten", ctx, "https://example.com").Return("", fmt.Errorf("gplinks: %w", domain.ErrTimeout))

		result := f.dispatcher.ShortenAll(ctx, "https://example.com")

		require.Len(t, result.Outcomes, 4)
		for i, id := range domain.AllProviderIDs {
			assert.Equal(t, id, result.Outcomes[i].Provider)
		}
		assert.Equal(t, 2, result.SuccessCount())
		assert.ErrorIs(t, result.Outcomes[2].Err, domain.ErrUnconfigured)
		assert.ErrorIs(t, result.Outcomes[3].Err, domain.ErrTimeout)

		snap := f.dispatcher.Stats()
		assert.Equal(t, int64(4), snap.Total)
		assert.Equal(t, int64(2), snap.Successful)
		assert.Equal(t, int64(2), snap.Failed)
	})

	t.Run("all providers failing still yields all outcomes", func(t *testing.T) {
		f := newFixture(t)
		for _, adapter := range f.adapters {
			adapter.On("Shorten", ctx, "https://example.com").
				Return("", fmt.Errorf("%w", domain.ErrTransport))
		}

		result := f.dispatcher.ShortenAll(ctx, "https://example.com")

		require.Len(t, result.Outcomes, 4)
		assert.Zero(t, result.SuccessCount())
	})

	t.Run("invalid URL never contacts any adapter", func(t *testing.T) {
		f := newFixture(t)

		result := f.dispatcher.ShortenAll(ctx, "ftp://x")

		require.Len(t, result.Outcomes, 4)
		for _, outcome := range result.Outcomes {
			assert.ErrorIs(t, outcome.Err, domain.ErrInvalidURL)
		}
		for _, adapter := range f.adapters {
			adapter.AssertNotCalled(t, "Shorten", mock.Anything, mock.Anything)
		}
		assert.Zero(t, f.dispatcher.Stats().Total)
	})
}

func TestDispatcher_ConcurrentDispatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 50
	f.adapters[domain.ProviderTinyURL].
		On("Shorten", ctx, mock.AnythingOfType("string")).
		Return("http://tiny.example/x", nil)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://example.com/page/%d", i)
			outcome := f.dispatcher.ShortenOne(ctx, url, domain.ProviderTinyURL)
			assert.True(t, outcome.OK())
		}(i)
	}
	wg.Wait()

	snap := f.dispatcher.Stats()
	assert.Equal(t, int64(n), snap.Total)
	assert.Equal(t, int64(n), snap.Successful)
	assert.Zero(t, snap.Failed)
}

func TestDispatcher_Cache(t *testing.T) {
	f := newFixture(t)

	url := "https://example.com/very/long/path?x=1"
	token := f.dispatcher.CacheStore(url)
	assert.Len(t, token, 8)

	resolved, err := f.dispatcher.CacheResolve(token)
	require.NoError(t, err)
	assert.Equal(t, url, resolved)

	_, err = f.dispatcher.CacheResolve("00000000")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestDispatcher_CacheDelegation(t *testing.T) {
	linkCache := &cacheMocks.LinkCache{}
	linkCache.On("Store", "https://example.com").Return("abcd1234")
	linkCache.On("Resolve", "abcd1234").Return("https://example.com", nil)

	d := NewDispatcher(nil, linkCache, stats.New(prometheus.NewRegistry()), nil, zap.NewNop())

	assert.Equal(t, "abcd1234", d.CacheStore("https://example.com"))

	resolved, err := d.CacheResolve("abcd1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", resolved)

	linkCache.AssertExpectations(t)
}

func TestDispatcher_CheckAllHealth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for id, adapter := range f.adapters {
		status := domain.HealthConnected
		if id == domain.ProviderGPLinks {
			status = domain.HealthTimeout
		}
		adapter.On("HealthCheck", ctx).Return(domain.ProviderHealth{Status: status})
	}

	health := f.dispatcher.CheckAllHealth(ctx)

	require.Len(t, health, 4)
	assert.Equal(t, domain.HealthConnected, health[domain.ProviderBitly].Status)
	assert.Equal(t, domain.HealthTimeout, health[domain.ProviderGPLinks].Status)

	// Probes are recorded for later reads.
	recorded, ok := f.dispatcher.ProviderHealth(domain.ProviderGPLinks)
	require.True(t, ok)
	assert.Equal(t, domain.HealthTimeout, recorded.Status)
}

func TestDispatcher_History(t *testing.T) {
	ctx := context.Background()

	t.Run("outcomes recorded", func(t *testing.T) {
		adapter := newMockAdapter(domain.ProviderTinyURL)
		adapter.On("Shorten", ctx, "https://example.com").Return("http://tiny.example/a", nil)

		history := &repoMocks.HistoryRepository{}
		history.On("Record", ctx, mock.MatchedBy(func(entry domain.HistoryEntry) bool {
			return entry.Provider == domain.ProviderTinyURL &&
				entry.OriginalURL == "https://example.com" &&
				entry.Succeeded
		})).Return(nil)

		d := NewDispatcher([]provider.Adapter{adapter}, memory.New(), stats.New(prometheus.NewRegistry()), history, zap.NewNop())

		outcome := d.ShortenOne(ctx, "https://example.com", domain.ProviderTinyURL)
		require.True(t, outcome.OK())

		history.AssertExpectations(t)
	})

	t.Run("history errors never fail dispatch", func(t *testing.T) {
		adapter := newMockAdapter(domain.ProviderTinyURL)
		adapter.On("Shorten", ctx, "https://example.com").Return("http://tiny.example/a", nil)

		history := &repoMocks.HistoryRepository{}
		history.On("Record", ctx, mock.Anything).Return(assert.AnError)

		d := NewDispatcher([]provider.Adapter{adapter}, memory.New(), stats.New(prometheus.NewRegistry()), history, zap.NewNop())

		outcome := d.ShortenOne(ctx, "https://example.com", domain.ProviderTinyURL)
		assert.True(t, outcome.OK())
	})

	t.Run("nil repository disables history", func(t *testing.T) {
		f := newFixture(t)

		entries, err := f.dispatcher.History(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, entries)
	})
}
