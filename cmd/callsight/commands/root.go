package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "callsight",
	Short: "CallSight - 콜 옵션 스크리너",
	Long: `CallSight Unified CLI

콜 옵션 체인을 수집해 스코어링하고 상위 계약을 추려내는 스크리너.
Polygon 스냅샷/레퍼런스 체인 + Unusual Whales 플로우 오버레이.

Usage:
  go run ./cmd/callsight [command]

Examples:
  go run ./cmd/callsight scan AAPL
  go run ./cmd/callsight api
  go run ./cmd/callsight watch
  go run ./cmd/callsight test-logger`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
