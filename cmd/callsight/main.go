package main

import (
	"os"

	"github.com/wonny/callsight/cmd/callsight/commands"
)

// main is the entry point for the CallSight CLI
// 통합 CLI 진입점: go run ./cmd/callsight [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
