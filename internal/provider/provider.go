// Package provider contains one adapter per supported shortening service.
// Each adapter encodes that provider's auth scheme, wire format, and response
// parsing, and maps failures onto the shared error taxonomy.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/config"
	"github.com/linkmux/linkmux/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	gplinksTimeout = 15 * time.Second

	// probeURL is the known-good URL submitted by health probes of keyless
	// providers.
	probeURL = "https://www.google.com"
)

// NewAdapters builds every concrete adapter from the configuration, in
// provider declaration order.
func NewAdapters(cfg *config.Config, logger *zap.Logger) []Adapter {
	return []Adapter{
		NewBitly(cfg.BitlyEndpoint, cfg.BitlyProbeEndpoint, cfg.BitlyToken, logger),
		NewTinyURL(cfg.TinyURLEndpoint, logger),
		NewCuttly(cfg.CuttlyEndpoint, cfg.CuttlyAPIKey, logger),
		NewGPLinks(cfg.GPLinksEndpoint, cfg.GPLinksAPIKey, logger),
	}
}

// newClient creates a resty client with the given per-call timeout.
func newClient(timeout time.Duration) *resty.Client {
	return resty.New().SetTimeout(timeout)
}

// classifyRequestError maps a failed round trip onto the error taxonomy.
func classifyRequestError(provider domain.ProviderID, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", provider, domain.ErrTimeout)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", provider, domain.ErrTimeout)
	}

	return fmt.Errorf("%s: %w: %v", provider, domain.ErrTransport, err)
}

// classifyStatusError maps a non-success HTTP status onto the error taxonomy.
// Authorization and quota statuses are kept distinct from generic provider
// failures because the rendered message differs.
func classifyStatusError(provider domain.ProviderID, statusCode int) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w (status %d)", provider, domain.ErrQuotaOrAuth, statusCode)
	}
	return fmt.Errorf("%s: %w (status %d)", provider, domain.ErrProvider, statusCode)
}

// probeHealth classifies a completed probe round trip into a ProviderHealth
// record.
func probeHealth(resp *resty.Response, err error, started time.Time) domain.ProviderHealth {
	health := domain.ProviderHealth{
		LastChecked:    time.Now(),
		ResponseTimeMS: float64(time.Since(started).Microseconds()) / 1000,
	}

	switch {
	case err != nil && isTimeout(err):
		health.Status = domain.HealthTimeout
		health.ResponseTimeMS = 0
	case err != nil:
		health.Status = domain.HealthError
		health.ResponseTimeMS = 0
	case resp.StatusCode() == http.StatusOK:
		health.Status = domain.HealthConnected
	default:
		health.Status = domain.HealthError
	}

	return health
}

// unconfiguredHealth is the probe result for a provider missing its key.
func unconfiguredHealth() domain.ProviderHealth {
	return domain.ProviderHealth{
		Status:      domain.HealthUnconfigured,
		LastChecked: time.Now(),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
