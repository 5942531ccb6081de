package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/callsight/pkg/config"
	"github.com/wonny/callsight/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 기능을 테스트합니다.

이 명령어는:
- JSON/Console 포맷 테스트
- 로그 레벨 테스트
- 구조화된 필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/callsight test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CallSight Logger Test ===")

	fmt.Println("1. JSON Format (Production)")
	fmt.Println("--------------------------------")
	exerciseLogger(logger.New(&config.Config{Env: "production", LogLevel: "debug", LogFormat: "json"}))
	fmt.Println()

	fmt.Println("2. Console Format (Development)")
	fmt.Println("--------------------------------")
	exerciseLogger(logger.New(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"}))
	fmt.Println()

	fmt.Println("✅ Logger test completed")
	return nil
}

func exerciseLogger(log *logger.Logger) {
	log.Debug("Debug message")
	log.Info("Info message")
	log.Warn("Warn message")

	log.WithField("symbol", "AAPL").Info("Single field")

	log.WithFields(map[string]interface{}{
		"symbol": "AAPL",
		"ranked": 8,
		"mode":   "snapshot",
	}).Info("Structured fields")

	log.WithError(errors.New("quote endpoint not entitled")).Warn("Error context")
}
