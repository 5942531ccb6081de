package commands

import (
	"fmt"

	"github.com/wonny/callsight/internal/external/polygon"
	"github.com/wonny/callsight/internal/external/stooq"
	"github.com/wonny/callsight/internal/external/unusualwhales"
	"github.com/wonny/callsight/internal/screen"
	"github.com/wonny/callsight/pkg/config"
	"github.com/wonny/callsight/pkg/httputil"
	"github.com/wonny/callsight/pkg/logger"
	"github.com/wonny/callsight/pkg/redis"
)

// screenStack bundles everything a command needs to run screens.
// SSOT: 클라이언트 조립은 이 파일에서만
type screenStack struct {
	cfg          *config.Config
	log          *logger.Logger
	redisClient  *redis.Client
	orchestrator *screen.Orchestrator
	stooqClient  *stooq.Client
	uwClient     *unusualwhales.Client
}

// buildScreenStack loads config and wires clients through the shared
// rate limiter and transport cache. Each upstream gets its own HTTP
// client so per-API limits never interfere.
func buildScreenStack() (*screenStack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	limiter := redis.NewRateLimiter(redisClient, "callsight")
	cache := redis.NewCache(redisClient, "callsight")

	polygonHTTP := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.PolygonRateLimit).
		WithLocalRateLimit(float64(redis.PolygonRateLimit.Limit)/redis.PolygonRateLimit.Window.Seconds(), redis.PolygonRateLimit.Limit)
	uwHTTP := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.UWRateLimit).
		WithLocalRateLimit(1, 5)
	stooqHTTP := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.StooqRateLimit).
		WithLocalRateLimit(2, 2)

	polygonClient := polygon.NewClient(cfg.Polygon, polygonHTTP, cache, log)
	uwClient := unusualwhales.NewClient(cfg.UW, uwHTTP, log)
	stooqClient := stooq.NewClient(cfg.Stooq, stooqHTTP, log)

	if !cfg.HasFlowCredentials() {
		log.Info("UW_API_KEY not set, flow overlay disabled")
	}

	return &screenStack{
		cfg:          cfg,
		log:          log,
		redisClient:  redisClient,
		orchestrator: screen.NewOrchestrator(polygonClient, polygonClient, uwClient, log),
		stooqClient:  stooqClient,
		uwClient:     uwClient,
	}, nil
}

// screenOptions maps configured defaults to per-invocation options.
func (s *screenStack) screenOptions() screen.Options {
	return screen.Options{
		QuotesEnabled: true,
		TopN:          s.cfg.Screen.TopN,
		BatchCap:      s.cfg.Screen.BatchCap,
		Limit:         s.cfg.Screen.Limit,
	}
}

// Close releases shared resources.
func (s *screenStack) Close() {
	_ = s.redisClient.Close()
}
