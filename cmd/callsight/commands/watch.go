package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/callsight/internal/alerts"
	"github.com/wonny/callsight/internal/scheduler"
	"github.com/wonny/callsight/internal/scheduler/jobs"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "워치리스트 스케줄 재스캔",
	Long: `서버 없이 워치리스트 재스캔 스케줄러만 구동합니다.

이 명령어는:
- WATCHLIST 종목을 WATCH_SCHEDULE 주기로 재스캔
- 종목별 상위 계약을 콘솔 피드로 출력
- 시작 직후 1회 즉시 실행

Example:
  go run ./cmd/callsight watch
  WATCHLIST=AAPL,TSLA go run ./cmd/callsight watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CallSight Watchlist ===")

	stack, err := buildScreenStack()
	if err != nil {
		return err
	}
	defer stack.Close()
	log := stack.log

	hub := alerts.NewHub(log)

	// Mirror the feed to the console
	feedCh, cancelFeed := hub.Subscribe()
	defer cancelFeed()
	go func() {
		for alert := range feedCh {
			fmt.Printf("[%s] %s\n", alert.Time, alert.Text)
		}
	}()

	sched := scheduler.New(log)
	rescan := jobs.NewWatchlistRescanJob(
		stack.orchestrator, hub,
		stack.cfg.Watch.Symbols, stack.cfg.Watch.Schedule,
		stack.screenOptions(), log,
	)
	if err := sched.AddJob(rescan); err != nil {
		return fmt.Errorf("schedule watchlist rescan: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("Watching %s (%s)\n", strings.Join(stack.cfg.Watch.Symbols, ", "), stack.cfg.Watch.Schedule)

	// First pass right away; after that the cron schedule takes over
	if err := sched.RunJob(rescan.Name()); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nStopping watchlist")
	return nil
}
