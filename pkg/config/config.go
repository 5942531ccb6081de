package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// External APIs
	Polygon PolygonConfig
	UW      UWConfig
	Stooq   StooqConfig

	// Screen defaults
	Screen ScreenConfig

	// Watchlist scheduler
	Watch WatchConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// PolygonConfig holds Polygon.io API configuration
type PolygonConfig struct {
	APIKey   string
	BaseURL  string
	QuoteTTL time.Duration // transport-level NBBO cache TTL
}

// UWConfig holds Unusual Whales flow API configuration
type UWConfig struct {
	APIKey  string
	BaseURL string
}

// StooqConfig holds Stooq quote-page configuration (sentiment panel)
type StooqConfig struct {
	BaseURL string
}

// ScreenConfig holds default screen parameters
type ScreenConfig struct {
	TopN     int // shortlist size
	BatchCap int // reference-path quote enrichment fan-out cap
	Limit    int // snapshot chain fetch limit
}

// WatchConfig holds watchlist rescan configuration
type WatchConfig struct {
	Symbols  []string
	Schedule string // cron expression (with seconds)
}

// Load reads configuration from environment variables
// SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Polygon: PolygonConfig{
			APIKey:   getEnv("POLYGON_API_KEY", ""),
			BaseURL:  getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
			QuoteTTL: getEnvAsDuration("POLYGON_QUOTE_TTL", "30s"),
		},

		UW: UWConfig{
			APIKey:  getEnv("UW_API_KEY", ""),
			BaseURL: getEnv("UW_BASE_URL", "https://api.unusualwhales.com"),
		},

		Stooq: StooqConfig{
			BaseURL: getEnv("STOOQ_BASE_URL", "https://stooq.com"),
		},

		// Screen defaults
		Screen: ScreenConfig{
			TopN:     getEnvAsInt("SCREEN_TOP_N", 8),
			BatchCap: getEnvAsInt("SCREEN_BATCH_CAP", 24),
			Limit:    getEnvAsInt("SCREEN_LIMIT", 150),
		},

		// Watchlist scheduler
		Watch: WatchConfig{
			Symbols:  getEnvAsList("WATCHLIST", "AAPL"),
			Schedule: getEnv("WATCH_SCHEDULE", "0 */5 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screen.TopN <= 0 {
		return fmt.Errorf("SCREEN_TOP_N must be positive")
	}
	if c.Screen.BatchCap <= 0 {
		return fmt.Errorf("SCREEN_BATCH_CAP must be positive")
	}
	if c.Screen.Limit <= 0 {
		return fmt.Errorf("SCREEN_LIMIT must be positive")
	}

	return nil
}

// HasFlowCredentials reports whether the Unusual Whales key is configured.
// Missing credentials are an expected state (flow overlay is optional).
func (c *Config) HasFlowCredentials() bool {
	return c.UW.APIKey != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
