package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/domain"
)

// TinyURL shortens URLs through the TinyURL create API: unauthenticated GET
// with the URL as a query parameter, plain-text response body taken directly
// as the short URL.
type TinyURL struct {
	endpoint string
	client   *resty.Client
	logger   *zap.Logger
}

// NewTinyURL creates a TinyURL adapter. TinyURL never requires a credential.
func NewTinyURL(endpoint string, logger *zap.Logger) *TinyURL {
	return &TinyURL{
		endpoint: endpoint,
		client:   newClient(defaultTimeout),
		logger:   logger,
	}
}

// ID returns the provider this adapter speaks to.
func (t *TinyURL) ID() domain.ProviderID {
	return domain.ProviderTinyURL
}

// Shorten submits url to TinyURL and returns the short URL.
func (t *TinyURL) Shorten(ctx context.Context, url string) (string, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParam("url", url).
		Get(t.endpoint)
	if err != nil {
		return "", classifyRequestError(domain.ProviderTinyURL, err)
	}

	if resp.StatusCode() != http.StatusOK {
		t.logger.Error("tinyurl API error", zap.Int("status", resp.StatusCode()))
		return "", classifyStatusError(domain.ProviderTinyURL, resp.StatusCode())
	}

	shortURL := strings.TrimSpace(resp.String())
	if shortURL == "" {
		return "", fmt.Errorf("tinyurl: %w: empty response body", domain.ErrProvider)
	}

	return shortURL, nil
}

// HealthCheck probes TinyURL by shortening a known URL.
func (t *TinyURL) HealthCheck(ctx context.Context) domain.ProviderHealth {
	started := time.Now()
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParam("url", probeURL).
		Get(t.endpoint)

	return probeHealth(resp, err, started)
}

// Ensure TinyURL implements the interface
var _ Adapter = (*TinyURL)(nil)
