package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "https://api.polygon.io", cfg.Polygon.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Polygon.QuoteTTL)
	assert.Equal(t, 8, cfg.Screen.TopN)
	assert.Equal(t, 24, cfg.Screen.BatchCap)
	assert.Equal(t, 150, cfg.Screen.Limit)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SCREEN_TOP_N", "12")
	t.Setenv("POLYGON_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 12, cfg.Screen.TopN)
	assert.Equal(t, "test-key", cfg.Polygon.APIKey)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTopN(t *testing.T) {
	t.Setenv("SCREEN_TOP_N", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestHasFlowCredentials(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.HasFlowCredentials())

	cfg.UW.APIKey = "uw-key"
	assert.True(t, cfg.HasFlowCredentials())
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "AAPL", []string{"AAPL"}},
		{"multiple with spaces", "aapl, msft ,NVDA", []string{"AAPL", "MSFT", "NVDA"}},
		{"empty entries dropped", "AAPL,,TSLA,", []string{"AAPL", "TSLA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WATCHLIST", tt.value)
			got := getEnvAsList("WATCHLIST", "AAPL")
			assert.Equal(t, tt.want, got)
		})
	}
}
