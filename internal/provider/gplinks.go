package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/domain"
)

// gplinksUserAgent mimics a browser; the GPLinks API rejects bare clients.
const gplinksUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var urlInBody = regexp.MustCompile(`https?://\S+`)

// GPLinks shortens URLs through the GPLinks API. The response contract is
// loose: the body may be a bare URL, a JSON object with a status field and
// one of two short-URL field names, or free text containing a URL. A GET
// that yields no usable result is retried once as a POST.
type GPLinks struct {
	endpoint string
	apiKey   string
	client   *resty.Client
	logger   *zap.Logger
}

// NewGPLinks creates a GPLinks adapter. An empty key is a valid state that
// fails shorten calls with ErrUnconfigured.
func NewGPLinks(endpoint, apiKey string, logger *zap.Logger) *GPLinks {
	return &GPLinks{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   newClient(gplinksTimeout),
		logger:   logger,
	}
}

// ID returns the provider this adapter speaks to.
func (g *GPLinks) ID() domain.ProviderID {
	return domain.ProviderGPLinks
}

type gplinksResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	ShortURL     string `json:"shorturl"`
}

// Shorten submits url to GPLinks and returns the short URL.
func (g *GPLinks) Shorten(ctx context.Context, url string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gplinks: %w", domain.ErrUnconfigured)
	}

	resp, err := g.request(ctx, url).Get(g.endpoint)
	if err != nil {
		return "", classifyRequestError(domain.ProviderGPLinks, err)
	}

	if shortURL, ok := g.extractShortURL(resp); ok {
		return shortURL, nil
	}

	// Quota and auth rejections are terminal, a POST will not fare better.
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		g.logger.Error("gplinks rejected request",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return "", classifyStatusError(domain.ProviderGPLinks, resp.StatusCode())
	}

	resp, err = g.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", gplinksUserAgent).
		SetHeader("Accept", "application/json").
		SetFormData(map[string]string{"api": g.apiKey, "url": url}).
		Post(g.endpoint)
	if err != nil {
		return "", classifyRequestError(domain.ProviderGPLinks, err)
	}

	if shortURL, ok := g.extractShortURL(resp); ok {
		return shortURL, nil
	}

	g.logger.Error("gplinks API failed",
		zap.Int("status", resp.StatusCode()),
		zap.String("body", resp.String()))

	if resp.StatusCode() != http.StatusOK {
		return "", classifyStatusError(domain.ProviderGPLinks, resp.StatusCode())
	}
	return "", fmt.Errorf("gplinks: %w: no short url in response", domain.ErrProvider)
}

// request builds the common GET request shape.
func (g *GPLinks) request(ctx context.Context, url string) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api": g.apiKey,
			"url": url,
		}).
		SetHeader("User-Agent", gplinksUserAgent).
		SetHeader("Accept", "application/json")
}

// extractShortURL tries every known response shape in order: bare URL body,
// JSON object, then a URL embedded in free text.
func (g *GPLinks) extractShortURL(resp *resty.Response) (string, bool) {
	if resp.StatusCode() != http.StatusOK {
		return "", false
	}

	body := strings.TrimSpace(resp.String())
	if strings.HasPrefix(body, "http") {
		return body, true
	}

	var result gplinksResponse
	if err := json.Unmarshal([]byte(body), &result); err == nil {
		if result.Status == "success" || result.ShortenedURL != "" {
			if result.ShortenedURL != "" {
				return result.ShortenedURL, true
			}
			if result.ShortURL != "" {
				return result.ShortURL, true
			}
		}
		return "", false
	}

	if match := urlInBody.FindString(body); match != "" {
		return match, true
	}
	return "", false
}

// HealthCheck probes GPLinks by shortening a known URL.
func (g *GPLinks) HealthCheck(ctx context.Context) domain.ProviderHealth {
	if g.apiKey == "" {
		return unconfiguredHealth()
	}

	started := time.Now()
	resp, err := g.request(ctx, probeURL).Get(g.endpoint)

	return probeHealth(resp, err, started)
}

// Ensure GPLinks implements the interface
var _ Adapter = (*GPLinks)(nil)
