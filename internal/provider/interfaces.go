package provider

import (
	"context"

	"github.com/linkmux/linkmux/internal/domain"
)

// Adapter translates the common shorten contract into one provider's wire
// protocol. Implementations are safe for concurrent use.
type Adapter interface {
	// ID returns the provider this adapter speaks to.
	ID() domain.ProviderID

	// Shorten submits url to the provider and returns the short URL. Failures
	// are classified against the domain error taxonomy: ErrUnconfigured,
	// ErrTimeout, ErrTransport, ErrProvider, ErrQuotaOrAuth.
	Shorten(ctx context.Context, url string) (string, error)

	// HealthCheck probes the provider endpoint and reports its reachability
	// and response time.
	HealthCheck(ctx context.Context) domain.ProviderHealth
}
