package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/domain"
)

// cuttlyStatusOK is the status sentinel Cuttly sets on a successful shorten.
const cuttlyStatusOK = 7

// Cuttly shortens URLs through the Cuttly API: key-authenticated GET,
// structured JSON response whose nested status field must equal the success
// sentinel.
type Cuttly struct {
	endpoint string
	apiKey   string
	client   *resty.Client
	logger   *zap.Logger
}

// NewCuttly creates a Cuttly adapter. An empty key is a valid state that
// fails shorten calls with ErrUnconfigured.
func NewCuttly(endpoint, apiKey string, logger *zap.Logger) *Cuttly {
	return &Cuttly{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   newClient(defaultTimeout),
		logger:   logger,
	}
}

// ID returns the provider this adapter speaks to.
func (c *Cuttly) ID() domain.ProviderID {
	return domain.ProviderCuttly
}

type cuttlyResponse struct {
	URL struct {
		Status    int    `json:"status"`
		ShortLink string `json:"shortLink"`
	} `json:"url"`
}

// Shorten submits url to Cuttly and returns the short URL.
func (c *Cuttly) Shorten(ctx context.Context, url string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("cuttly: %w", domain.ErrUnconfigured)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":   c.apiKey,
			"short": url,
		}).
		Get(c.endpoint)
	if err != nil {
		return "", classifyRequestError(domain.ProviderCuttly, err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error("cuttly HTTP error", zap.Int("status", resp.StatusCode()))
		return "", classifyStatusError(domain.ProviderCuttly, resp.StatusCode())
	}

	var result cuttlyResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		c.logger.Error("cuttly response not parseable", zap.String("body", resp.String()))
		return "", fmt.Errorf("cuttly: %w: unparseable response", domain.ErrProvider)
	}

	if result.URL.Status != cuttlyStatusOK {
		// The structured payload carries the reason code, keep it for diagnosis.
		c.logger.Error("cuttly API error",
			zap.Int("api_status", result.URL.Status),
			zap.String("body", resp.String()))
		return "", fmt.Errorf("cuttly: %w: api status %d", domain.ErrProvider, result.URL.Status)
	}

	return result.URL.ShortLink, nil
}

// HealthCheck probes Cuttly by shortening a known URL.
func (c *Cuttly) HealthCheck(ctx context.Context) domain.ProviderHealth {
	if c.apiKey == "" {
		return unconfiguredHealth()
	}

	started := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":   c.apiKey,
			"short": probeURL,
		}).
		Get(c.endpoint)

	return probeHealth(resp, err, started)
}

// Ensure Cuttly implements the interface
var _ Adapter = (*Cuttly)(nil)
