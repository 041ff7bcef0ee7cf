package domain

import (
	"time"
)

// ProviderID identifies one of the supported shortening services.
type ProviderID string

// The closed set of supported providers, in declaration order.
const (
	ProviderBitly   ProviderID = "bitly"
	ProviderTinyURL ProviderID = "tinyurl"
	ProviderCuttly  ProviderID = "cuttly"
	ProviderGPLinks ProviderID = "gplinks"
)

// AllProviderIDs lists every provider in declaration order. Dispatch output
// for an all-providers request follows this order regardless of completion
// order.
var AllProviderIDs = []ProviderID{ProviderBitly, ProviderTinyURL, ProviderCuttly, ProviderGPLinks}

// ProviderInfo holds static metadata about a provider.
type ProviderInfo struct {
	Name        string
	RequiresKey bool
}

var providerInfos = map[ProviderID]ProviderInfo{
	ProviderBitly:   {Name: "Bitly", RequiresKey: true},
	ProviderTinyURL: {Name: "TinyURL", RequiresKey: false},
	ProviderCuttly:  {Name: "Cuttly", RequiresKey: true},
	ProviderGPLinks: {Name: "GPLinks", RequiresKey: true},
}

// Info returns the static metadata for a provider ID.
func (p ProviderID) Info() ProviderInfo {
	return providerInfos[p]
}

// Valid reports whether p is a member of the closed provider set.
func (p ProviderID) Valid() bool {
	_, ok := providerInfos[p]
	return ok
}

// Target selects which providers a shorten request is dispatched to.
type Target struct {
	All      bool
	Provider ProviderID
}

// SingleProvider returns a Target addressing exactly one provider.
func SingleProvider(p ProviderID) Target {
	return Target{Provider: p}
}

// AllProviders returns a Target addressing every configured provider.
func AllProviders() Target {
	return Target{All: true}
}

// ShortenRequest is one immutable shorten command.
type ShortenRequest struct {
	OriginalURL string
	Target      Target
}

// ShortenOutcome is the per-provider result of one shorten attempt. Either
// ShortURL is set and Err is nil, or Err carries the failure classification.
type ShortenOutcome struct {
	Provider ProviderID `json:"provider"`
	ShortURL string     `json:"short_url,omitempty"`
	Err      error      `json:"-"`
}

// OK reports whether the attempt produced a short URL.
func (o ShortenOutcome) OK() bool {
	return o.Err == nil && o.ShortURL != ""
}

// AggregateResult holds one outcome per attempted provider, in provider
// declaration order.
type AggregateResult struct {
	Outcomes []ShortenOutcome `json:"outcomes"`
}

// SuccessCount returns how many outcomes carry a short URL.
func (r AggregateResult) SuccessCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// HealthStatus classifies the last known state of a provider endpoint.
type HealthStatus string

const (
	HealthConnected    HealthStatus = "connected"
	HealthError        HealthStatus = "error"
	HealthTimeout      HealthStatus = "timeout"
	HealthUnconfigured HealthStatus = "unconfigured"
)

// ProviderHealth is the result of one health probe. It is overwritten on
// every subsequent probe of the same provider.
type ProviderHealth struct {
	Status         HealthStatus `json:"status"`
	LastChecked    time.Time    `json:"last_checked"`
	ResponseTimeMS float64      `json:"response_time_ms,omitempty"`
}

// Stats is a point-in-time snapshot of the process-wide counters.
type Stats struct {
	StartTime  time.Time                     `json:"start_time"`
	Uptime     time.Duration                 `json:"uptime"`
	Total      int64                         `json:"total_requests"`
	Successful int64                         `json:"successful_shortens"`
	Failed     int64                         `json:"failed_shortens"`
	APIStatus  map[ProviderID]ProviderHealth `json:"api_status,omitempty"`
}

// SuccessRate returns the percentage of successful shortens, 0 when no
// requests have been made.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total) * 100
}

// HistoryEntry is one persisted shorten attempt in the audit log.
type HistoryEntry struct {
	ID          int        `json:"id"`
	Provider    ProviderID `json:"provider"`
	OriginalURL string     `json:"original_url"`
	ShortURL    string     `json:"short_url,omitempty"`
	Succeeded   bool       `json:"succeeded"`
	CreatedAt   time.Time  `json:"created_at"`
}
