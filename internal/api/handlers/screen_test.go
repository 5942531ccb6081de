package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/internal/screen"
	"github.com/wonny/callsight/pkg/logger"
)

type fakeScreener struct {
	result     *contracts.ScreenResult
	err        error
	gotSymbol  string
	gotOptions screen.Options
}

func (f *fakeScreener) Run(ctx context.Context, symbol string, opts screen.Options) (*contracts.ScreenResult, error) {
	f.gotSymbol = symbol
	f.gotOptions = opts
	return f.result, f.err
}

func screenRouter(s Screener) http.Handler {
	h := NewScreenHandler(s, screen.DefaultOptions(), logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/api/screen/{symbol}", h.Screen).Methods("GET")
	return r
}

func TestScreen_OK(t *testing.T) {
	fake := &fakeScreener{
		result: &contracts.ScreenResult{
			Symbol: "AAPL",
			Ranked: []contracts.ScoredContract{
				{
					Contract: contracts.Contract{Symbol: "AAPL", Strike: 100, Expiry: "2025-01-17"},
					Score:    8.3,
					Tags:     []string{contracts.TagUnusualFlow},
				},
			},
			Advisories: []string{},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/screen/aapl", nil)
	rec := httptest.NewRecorder()
	screenRouter(fake).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", fake.gotSymbol)

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Symbol     string                    `json:"symbol"`
			Ranked     []contracts.ScoredContract `json:"ranked"`
			Advisories []string                  `json:"advisories"`
			FetchedAt  string                    `json:"fetched_at"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "AAPL", got.Data.Symbol)
	require.Len(t, got.Data.Ranked, 1)
	assert.Equal(t, 8.3, got.Data.Ranked[0].Score)
	assert.Equal(t, []string{contracts.TagUnusualFlow}, got.Data.Ranked[0].Tags)
	assert.NotEmpty(t, got.Data.FetchedAt)
}

func TestScreen_QueryOverrides(t *testing.T) {
	fake := &fakeScreener{result: &contracts.ScreenResult{Symbol: "AAPL"}}

	req := httptest.NewRequest(http.MethodGet, "/api/screen/AAPL?quotes=false&top=3&limit=50", nil)
	rec := httptest.NewRecorder()
	screenRouter(fake).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, fake.gotOptions.QuotesEnabled)
	assert.Equal(t, 3, fake.gotOptions.TopN)
	assert.Equal(t, 50, fake.gotOptions.Limit)
}

func TestScreen_InvalidParams(t *testing.T) {
	tests := []string{
		"/api/screen/AAPL?quotes=maybe",
		"/api/screen/AAPL?top=0",
		"/api/screen/AAPL?top=abc",
		"/api/screen/AAPL?limit=-5",
	}

	for _, target := range tests {
		fake := &fakeScreener{result: &contracts.ScreenResult{}}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		screenRouter(fake).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestScreen_UpstreamUnavailableIsBadGateway(t *testing.T) {
	fake := &fakeScreener{err: screen.ErrPrimaryUnavailable}

	req := httptest.NewRequest(http.MethodGet, "/api/screen/AAPL", nil)
	rec := httptest.NewRecorder()
	screenRouter(fake).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestScreen_UnexpectedErrorIsInternal(t *testing.T) {
	fake := &fakeScreener{err: errors.New("boom")}

	req := httptest.NewRequest(http.MethodGet, "/api/screen/AAPL", nil)
	rec := httptest.NewRecorder()
	screenRouter(fake).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
