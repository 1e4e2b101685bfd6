package main

import (
	"os"

	"github.com/wonny/liquidity/cmd/liquidity/commands"
)

// main is the entry point for the liquidity CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/liquidity [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
