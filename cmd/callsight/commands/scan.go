package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/callsight/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [symbol]",
	Short: "단일 종목 콜 스크린 실행",
	Long: `한 종목의 콜 옵션 체인을 수집하고 스코어링해 상위 계약을 출력합니다.

이 명령어는:
- Polygon 스냅샷 체인 수집 (실패 시 레퍼런스 폴백)
- NBBO 호가 보강 (레퍼런스 경로, --quotes=false로 비활성화)
- Unusual Whales 플로우 매칭 (UW_API_KEY 설정 시)
- 스코어 내림차순 상위 N개 출력

Example:
  go run ./cmd/callsight scan AAPL
  go run ./cmd/callsight scan TSLA --top 5 --quotes=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanQuotes bool
	scanTopN   int
	scanLimit  int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanQuotes, "quotes", true, "레퍼런스 경로에서 NBBO 호가 보강")
	scanCmd.Flags().IntVar(&scanTopN, "top", 0, "상위 N개 (기본: SCREEN_TOP_N)")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "스냅샷 체인 수집 한도 (기본: SCREEN_LIMIT)")
}

func runScan(cmd *cobra.Command, args []string) error {
	symbol := "AAPL"
	if len(args) > 0 {
		symbol = strings.ToUpper(args[0])
	}

	stack, err := buildScreenStack()
	if err != nil {
		return err
	}
	defer stack.Close()

	opts := stack.screenOptions()
	opts.QuotesEnabled = scanQuotes
	if scanTopN > 0 {
		opts.TopN = scanTopN
	}
	if scanLimit > 0 {
		opts.Limit = scanLimit
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  CallSight Scan · %s\n", symbol)
	fmt.Println("───────────────────────────────────────────────────────────")

	start := time.Now()
	result, err := stack.orchestrator.Run(cmd.Context(), symbol, opts)
	if err != nil {
		return fmt.Errorf("screen failed: %w", err)
	}

	printShortlist(result)
	fmt.Printf("\n✅ Scan completed in %.2fs\n", time.Since(start).Seconds())
	return nil
}

func printShortlist(result *contracts.ScreenResult) {
	if len(result.Ranked) == 0 {
		fmt.Println("  No call contracts found")
	}

	for i, sc := range result.Ranked {
		tags := ""
		if len(sc.Tags) > 0 {
			tags = " [" + strings.Join(sc.Tags, ", ") + "]"
		}
		fmt.Printf("  %2d. %sC %s · Score %s · IV %s · Bid %s / Ask %s%s\n",
			i+1, formatStrike(sc.Strike), sc.Expiry, sc.ScoreString(),
			formatOpt(sc.IV, "%.1f"), formatOpt(sc.Bid, "%.2f"), formatOpt(sc.Ask, "%.2f"), tags)
	}

	for _, advisory := range result.Advisories {
		fmt.Printf("  ⚠ %s\n", advisory)
	}
}

func formatStrike(strike float64) string {
	if strike == float64(int64(strike)) {
		return fmt.Sprintf("%d", int64(strike))
	}
	return fmt.Sprintf("%.1f", strike)
}

func formatOpt(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
