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
	Use:   "engine",
	Short: "Capital Growth Engine - 3단계 투자 리서치 파이프라인",
	Long: `Capital Growth Engine Unified CLI

Librarian → Architect → Trader

각 단계:
- Librarian: 재무 데이터/뉴스 수집
- Architect: 지표 파생, 필터링, 랭킹
- Trader:    포지션 사이징, 휴먼 승인 게이트

Usage:
  go run ./cmd/engine [command]

Examples:
  go run ./cmd/engine run
  go run ./cmd/engine run --dry-run
  go run ./cmd/engine approve "YES NVDA"
  go run ./cmd/engine api
  go run ./cmd/engine scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
