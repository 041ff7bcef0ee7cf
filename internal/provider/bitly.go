package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/domain"
)

// Bitly shortens URLs through the Bitly v4 API: bearer-authenticated JSON
// POST, short URL read from the "link" field of the JSON response.
type Bitly struct {
	endpoint      string
	probeEndpoint string
	token         string
	client        *resty.Client
	logger        *zap.Logger
}

// NewBitly creates a Bitly adapter. An empty token is a valid state that
// fails shorten calls with ErrUnconfigured.
func NewBitly(endpoint, probeEndpoint, token string, logger *zap.Logger) *Bitly {
	return &Bitly{
		endpoint:      endpoint,
		probeEndpoint: probeEndpoint,
		token:         token,
		client:        newClient(defaultTimeout),
		logger:        logger,
	}
}

// ID returns the provider this adapter speaks to.
func (b *Bitly) ID() domain.ProviderID {
	return domain.ProviderBitly
}

type bitlyRequest struct {
	LongURL string `json:"long_url"`
}

type bitlyResponse struct {
	Link string `json:"link"`
}

// Shorten submits url to Bitly and returns the short URL.
func (b *Bitly) Shorten(ctx context.Context, url string) (string, error) {
	if b.token == "" {
		return "", fmt.Errorf("bitly: %w", domain.ErrUnconfigured)
	}

	var result bitlyResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		SetHeader("Content-Type", "application/json").
		SetBody(bitlyRequest{LongURL: url}).
		SetResult(&result).
		Post(b.endpoint)
	if err != nil {
		return "", classifyRequestError(domain.ProviderBitly, err)
	}

	if resp.StatusCode() != http.StatusOK {
		b.logger.Error("bitly API error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return "", classifyStatusError(domain.ProviderBitly, resp.StatusCode())
	}

	if result.Link == "" {
		b.logger.Error("bitly response missing link field", zap.String("body", resp.String()))
		return "", fmt.Errorf("bitly: %w: missing link field", domain.ErrProvider)
	}

	return result.Link, nil
}

// HealthCheck probes the authenticated Bitly user endpoint.
func (b *Bitly) HealthCheck(ctx context.Context) domain.ProviderHealth {
	if b.token == "" {
		return unconfiguredHealth()
	}

	started := time.Now()
	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.token).
		Get(b.probeEndpoint)

	return probeHealth(resp, err, started)
}

// Ensure Bitly implements the interface
var _ Adapter = (*Bitly)(nil)
