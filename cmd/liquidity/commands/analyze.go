package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/liquidity/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "현재 글로벌 유동성 점수 계산 및 저장",
	Long: `최근 두 기준일(Fed 대차대조표 발표일)의 스냅샷으로 점수를 계산하고
global_history / global_latest에 저장합니다.

일간 지표(DXY, USD/JPY, EM 통화)도 마지막 WALCL 기준일 시점의 값을 사용합니다.
기준일 이후의 최신 관측치는 다음 WALCL 발표 전까지(최대 6일) 반영되지 않습니다.

Example:
  go run ./cmd/liquidity analyze
  go run ./cmd/liquidity analyze --no-store --json`,
	RunE: runAnalyze,
}

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "과거 이력 재구성",
	Long: `시작일부터 모든 기준일에 대해 점수를 재계산합니다.
--dry-run 없이 실행하면 결과를 한 번에 저장하고 global_latest를 갱신합니다.

Example:
  go run ./cmd/liquidity backfill --start 2020-01-01
  go run ./cmd/liquidity backfill --start 2024-01-01 --dry-run`,
	RunE: runBackfill,
}

var (
	analyzeNoStore bool
	backfillStart  string
	backfillDryRun bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(backfillCmd)

	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "계산만 하고 저장하지 않음")

	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "시작일 (YYYY-MM-DD)")
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "저장하지 않음")
	backfillCmd.MarkFlagRequired("start")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(5 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, !analyzeNoStore)
	if err != nil {
		return err
	}
	defer a.Close()

	var result contracts.CompositeResult
	if analyzeNoStore {
		result, err = a.monitor.Compute(ctx)
	} else {
		result, err = a.monitor.Analyze(ctx)
	}
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if jsonOutput {
		return PrintJSON(result)
	}
	PrintResult(result)
	return nil
}

func runBackfill(cmd *cobra.Command, args []string) error {
	start, err := time.Parse(contracts.DateLayout, backfillStart)
	if err != nil {
		return fmt.Errorf("invalid --start %q (expected YYYY-MM-DD)", backfillStart)
	}

	ctx, cancel := commandContext(30 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, !backfillDryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	startedAt := time.Now()
	report, err := a.monitor.Backfill(ctx, start, backfillDryRun)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	if jsonOutput {
		return PrintJSON(report)
	}

	PrintHeader("📚 Backfill")
	PrintKeyValue("Run ID", report.RunID, 10)
	PrintKeyValue("Start", report.Start.Format(contracts.DateLayout), 10)
	PrintKeyValue("Rows", fmt.Sprintf("%d", report.Count), 10)
	if report.Count > 0 {
		PrintKeyValue("Range", fmt.Sprintf("%s ~ %s",
			report.First.Format(contracts.DateLayout), report.Last.Format(contracts.DateLayout)), 10)
	}
	PrintSeparator()

	widths := []int{12, 6, 24}
	PrintTableHeader([]string{"Date", "Score", "Signal"}, widths)
	for _, r := range tail(report.Results, 10) {
		PrintTableRow([]string{r.Timestamp.Format(contracts.DateLayout), fmt.Sprintf("%d", r.Score), r.Signal.Label()}, widths)
	}
	fmt.Println()

	if report.DryRun {
		PrintInfo("Dry run, nothing stored")
	} else {
		PrintSuccess(fmt.Sprintf("Stored %d rows in %.2fs", report.Count, time.Since(startedAt).Seconds()))
	}
	return nil
}

// tail returns the last n elements
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
