package unusualwhales

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/callsight/pkg/config"
	"github.com/wonny/callsight/pkg/httputil"
	"github.com/wonny/callsight/pkg/logger"
)

func testClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()

	cfg := &config.Config{}
	log := logger.NewNop()
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(config.UWConfig{APIKey: apiKey, BaseURL: baseURL}, httpClient, log)
}

func TestFetchFlow_NoCredentialsIsEmptyNotError(t *testing.T) {
	c := testClient(t, "http://unused.invalid", "")

	events, err := c.FetchFlow(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFetchFlow_RequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "uw-key")
	events, err := c.FetchFlow(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.Equal(t, "/v1/flow", gotPath)
	assert.Equal(t, "Bearer uw-key", gotAuth)
	assert.Equal(t, []string{"AAPL"}, gotQuery["symbol"])
	assert.Equal(t, []string{"call"}, gotQuery["type"])
}

func TestFetchFlow_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "uw-key")
	_, err := c.FetchFlow(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestParseFlow_DataKey(t *testing.T) {
	body := []byte(`{"data": [
		{"text": "AAPL 100C sweep", "strike": 100, "time": "10:15:00"},
		{"type": "sweep", "premium": 500000}
	]}`)

	events, err := parseFlow(body, "aapl")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "AAPL 100C sweep", events[0].Text)
	require.NotNil(t, events[0].Strike)
	assert.Equal(t, 100.0, *events[0].Strike)
	assert.Equal(t, "10:15:00", events[0].Time)

	// Missing text falls back to a synthesized line
	assert.Equal(t, "AAPL flow sweep prem 500000", events[1].Text)
	assert.Nil(t, events[1].Strike)
	assert.NotEmpty(t, events[1].Time)
}

func TestParseFlow_ResultsKeyFallback(t *testing.T) {
	body := []byte(`{"results": [{"text": "AAPL 95C block"}]}`)

	events, err := parseFlow(body, "AAPL")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "AAPL 95C block", events[0].Text)
}

func TestParseFlow_Empty(t *testing.T) {
	events, err := parseFlow([]byte(`{}`), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, events)
}
