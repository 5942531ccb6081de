package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/callsight/internal/alerts"
	"github.com/wonny/callsight/internal/api"
	"github.com/wonny/callsight/internal/api/handlers"
	"github.com/wonny/callsight/internal/scheduler"
	"github.com/wonny/callsight/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST/WebSocket API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 워치리스트 재스캔 스케줄러 구동
- 라이브 알림 피드 제공 (UW 미설정 시 목 알림)

Endpoints:
  GET  /health                 - Health check
  GET  /api/screen/{symbol}    - 콜 스크린 실행
  GET  /api/sentiment          - SPY/VIX 센티먼트
  GET  /api/alerts             - 최근 알림 피드
  GET  /ws/alerts              - 알림 스트림 (WebSocket)

Example:
  go run ./cmd/callsight api
  go run ./cmd/callsight api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CallSight API Server ===")

	stack, err := buildScreenStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	if apiPort != "" {
		stack.cfg.Port = apiPort
	}
	log := stack.log

	// Alert feed: hub plus the mock generator keeping it alive
	hub := alerts.NewHub(log)
	generator := alerts.NewMockGenerator(hub, firstSymbol(stack.cfg.Watch.Symbols), alerts.DefaultMockInterval, log)

	// Handlers and router
	screenHandler := handlers.NewScreenHandler(stack.orchestrator, stack.screenOptions(), log)
	sentimentHandler := handlers.NewSentimentHandler(stack.stooqClient, log)
	alertsHandler := handlers.NewAlertsHandler(hub, log)
	router := api.NewRouter(screenHandler, sentimentHandler, alertsHandler, log)

	server := api.New(stack.cfg, log, router)

	// Watchlist rescans feed the same alert hub
	sched := scheduler.New(log)
	rescan := jobs.NewWatchlistRescanJob(
		stack.orchestrator, hub,
		stack.cfg.Watch.Symbols, stack.cfg.Watch.Schedule,
		stack.screenOptions(), log,
	)
	if err := sched.AddJob(rescan); err != nil {
		return fmt.Errorf("schedule watchlist rescan: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	generator.Start(ctx)
	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	cancel()
	generator.Stop()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

func firstSymbol(symbols []string) string {
	if len(symbols) == 0 {
		return "AAPL"
	}
	return symbols[0]
}
