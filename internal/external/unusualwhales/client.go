package unusualwhales

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/callsight/pkg/config"
	"github.com/wonny/callsight/pkg/httputil"
	"github.com/wonny/callsight/pkg/logger"
)

// Client handles communication with the Unusual Whales flow API
// SSOT: UW API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Unusual Whales client. A missing API key is a
// valid configuration: the flow overlay is optional and the client then
// reports no events.
func NewClient(cfg config.UWConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// Enabled reports whether flow credentials are configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// fetchJSON fetches a UW endpoint with Bearer auth and returns the raw body.
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	headers := map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", c.apiKey),
	}

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}
