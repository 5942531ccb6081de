package polygon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/callsight/pkg/config"
	"github.com/wonny/callsight/pkg/httputil"
	"github.com/wonny/callsight/pkg/logger"
	"github.com/wonny/callsight/pkg/redis"
)

// Client handles communication with Polygon.io
// SSOT: Polygon API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	quoteTTL   time.Duration
}

// NewClient creates a new Polygon client. The cache holds per-contract
// NBBO responses at the transport layer; screen results are never cached.
func NewClient(cfg config.PolygonConfig, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		quoteTTL:   cfg.QuoteTTL,
	}
}

// fetchJSON fetches a Polygon endpoint and returns the raw body.
// The API key always travels as a query parameter.
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
