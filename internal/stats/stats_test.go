package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkmux/linkmux/internal/domain"
)

func newTestRegistry() *Registry {
	return New(prometheus.NewRegistry())
}

func TestRegistry_RecordShorten(t *testing.T) {
	r := newTestRegistry()

	r.RecordShorten(domain.ProviderBitly, true)
	r.RecordShorten(domain.ProviderTinyURL, true)
	r.RecordShorten(domain.ProviderCuttly, false)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap.Total)
	assert.Equal(t, int64(2), snap.Successful)
	assert.Equal(t, int64(1), snap.Failed)
	assert.InDelta(t, 66.6, snap.SuccessRate(), 0.1)
}

func TestRegistry_SuccessRateWithNoRequests(t *testing.T) {
	r := newTestRegistry()

	assert.Zero(t, r.Snapshot().SuccessRate())
}

func TestRegistry_RecordProbeOverwrites(t *testing.T) {
	r := newTestRegistry()

	_, ok := r.Health(domain.ProviderBitly)
	assert.False(t, ok)

	first := domain.ProviderHealth{Status: domain.HealthError, LastChecked: time.Now()}
	r.RecordProbe(domain.ProviderBitly, first)

	health, ok := r.Health(domain.ProviderBitly)
	require.True(t, ok)
	assert.Equal(t, domain.HealthError, health.Status)

	second := domain.ProviderHealth{
		Status:         domain.HealthConnected,
		LastChecked:    time.Now(),
		ResponseTimeMS: 42.5,
	}
	r.RecordProbe(domain.ProviderBitly, second)

	health, ok = r.Health(domain.ProviderBitly)
	require.True(t, ok)
	assert.Equal(t, domain.HealthConnected, health.Status)
	assert.Equal(t, 42.5, health.ResponseTimeMS)
}

func TestRegistry_ConcurrentRecording(t *testing.T) {
	r := newTestRegistry()

	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				r.RecordShorten(domain.ProviderTinyURL, true)
			}
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, int64(goroutines*perGoroutine), snap.Total)
	assert.Equal(t, int64(goroutines*perGoroutine), snap.Successful)
	assert.Zero(t, snap.Failed)
}

func TestRegistry_SnapshotCopiesHealthMap(t *testing.T) {
	r := newTestRegistry()
	r.RecordProbe(domain.ProviderCuttly, domain.ProviderHealth{Status: domain.HealthConnected})

	snap := r.Snapshot()
	snap.APIStatus[domain.ProviderCuttly] = domain.ProviderHealth{Status: domain.HealthError}

	health, ok := r.Health(domain.ProviderCuttly)
	require.True(t, ok)
	assert.Equal(t, domain.HealthConnected, health.Status)
}

func TestRegistry_Uptime(t *testing.T) {
	r := newTestRegistry()

	assert.GreaterOrEqual(t, r.Uptime(), time.Duration(0))
	assert.False(t, r.Snapshot().StartTime.IsZero())
}
