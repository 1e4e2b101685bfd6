package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "시계열 캐시 관리",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "메모리 + Redis 캐시 삭제",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(30 * time.Second)
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.fetcher.ClearCache(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Cache cleared (%d entries)", n))
	return nil
}
