// Package stats holds the process-wide dispatch counters and the last known
// per-provider health. State is owned and injected at construction rather
// than kept in package globals so tests get fresh instances.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/linkmux/linkmux/internal/domain"
)

// Registry tracks monotonic request counters and per-provider health.
// Counters use atomic increments; a snapshot is weakly consistent across
// counters. All methods are safe for concurrent use.
type Registry struct {
	startTime time.Time

	total      atomic.Int64
	successful atomic.Int64
	failed     atomic.Int64

	mu     sync.RWMutex
	health map[domain.ProviderID]domain.ProviderHealth

	promRequests  *prometheus.CounterVec
	promProbeTime *prometheus.GaugeVec
}

// New creates a Registry and registers its collectors with reg. The process
// start timestamp is captured once here.
func New(reg prometheus.Registerer) *Registry {
	return &Registry{
		startTime: time.Now(),
		health:    make(map[domain.ProviderID]domain.ProviderHealth),
		promRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "linkmux_shorten_requests_total",
			Help: "Shorten attempts by provider and result.",
		}, []string{"provider", "result"}),
		promProbeTime: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "linkmux_provider_probe_response_ms",
			Help: "Response time of the last health probe per provider.",
		}, []string{"provider"}),
	}
}

// RecordShorten counts one shorten attempt against a provider.
func (r *Registry) RecordShorten(provider domain.ProviderID, ok bool) {
	r.total.Add(1)

	result := "failure"
	if ok {
		r.successful.Add(1)
		result = "success"
	} else {
		r.failed.Add(1)
	}

	r.promRequests.WithLabelValues(string(provider), result).Inc()
}

// RecordProbe overwrites the last known health for a provider.
func (r *Registry) RecordProbe(provider domain.ProviderID, health domain.ProviderHealth) {
	r.mu.Lock()
	r.health[provider] = health
	r.mu.Unlock()

	r.promProbeTime.WithLabelValues(string(provider)).Set(health.ResponseTimeMS)
}

// Health returns the last recorded health for a provider, if any probe has
// run.
func (r *Registry) Health(provider domain.ProviderID) (domain.ProviderHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health, ok := r.health[provider]
	return health, ok
}

// Uptime returns the time elapsed since the registry was constructed.
func (r *Registry) Uptime() time.Duration {
	return time.Since(r.startTime)
}

// Snapshot returns a point-in-time read of the counters and health map.
func (r *Registry) Snapshot() domain.Stats {
	r.mu.RLock()
	apiStatus := make(map[domain.ProviderID]domain.ProviderHealth, len(r.health))
	for provider, health := range r.health {
		apiStatus[provider] = health
	}
	r.mu.RUnlock()

	return domain.Stats{
		StartTime:  r.startTime,
		Uptime:     r.Uptime(),
		Total:      r.total.Load(),
		Successful: r.successful.Load(),
		Failed:     r.failed.Load(),
		APIStatus:  apiStatus,
	}
}
