package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "이력을 엑셀로 내보내기",
	Long: `global_history와 알림 이력을 .xlsx 파일로 저장합니다.

Example:
  go run ./cmd/liquidity export --out liquidity.xlsx
  go run ./cmd/liquidity export --from 2024-01-01 --out 2024.xlsx`,
	RunE: runExport,
}

var (
	exportOut  string
	exportFrom string
	exportTo   string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "liquidity.xlsx", "출력 파일")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "시작일 (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "종료일 (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, args []string) error {
	from, err := parseOptionalDate(exportFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseOptionalDate(exportTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	ctx, cancel := commandContext(2 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.repo.History(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	alerts, err := a.repo.Alerts(ctx, 1000)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	if err := export.Save(exportOut, results, alerts); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Exported %d results and %d alerts to %s", len(results), len(alerts), exportOut))
	return nil
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(contracts.DateLayout, raw)
}
