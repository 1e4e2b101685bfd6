package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile  string
	scoringPath string
	env         string
	verbose     bool
	jsonOutput  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Global Liquidity Monitor - 글로벌 유동성 모니터",
	Long: `Global Liquidity Monitor CLI

미국/달러/중국/일본/신흥국 5개 요인으로 글로벌 유동성 점수를 계산하고
이력 저장, 알림, 머니마켓 모니터링, 엑셀 내보내기를 제공합니다.

Usage:
  go run ./cmd/liquidity [command]

Examples:
  go run ./cmd/liquidity analyze
  go run ./cmd/liquidity backfill --start 2024-01-01
  go run ./cmd/liquidity alerts check
  go run ./cmd/liquidity scheduler start
  go run ./cmd/liquidity api`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// 플래그가 환경변수보다 우선
		if configFile != "" {
			os.Setenv("ENV_FILE", configFile)
		}
		if cmd.Flags().Changed("env") {
			os.Setenv("ENV", env)
		}
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
		if scoringPath != "" {
			os.Setenv("SCORING_CONFIG_PATH", scoringPath)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&scoringPath, "scoring", "", "scoring YAML (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}
