package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/monitor"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "미국 머니마켓 모니터 (SOFR/IORB/RRP/SRF)",
	Long: `SOFR-IORB 스프레드, 역레포, Fed 대차대조표, SRF 사용량으로
머니마켓 상태(EXCESS/TIGHT/EASING/NEUTRAL)를 판정하고 저장합니다.

Example:
  go run ./cmd/liquidity monitor`,
	RunE: runMonitor,
}

// detailCmd represents the detail command
var detailCmd = &cobra.Command{
	Use:       "detail [china|japan|tga|dxy|em]",
	Short:     "지역별 상세 지표",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"china", "japan", "tga", "dxy", "em"},
	RunE:      runDetail,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(detailCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(2 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	reading, err := a.monitor.MoneyMarket(ctx)
	if err != nil {
		return fmt.Errorf("money market: %w", err)
	}

	if jsonOutput {
		return PrintJSON(reading)
	}

	PrintHeader("🏦 US Money Market")
	PrintKeyValue("As of", reading.Date.Format(contracts.DateLayout), 16)
	PrintKeyValue("SOFR", fmt.Sprintf("%.2f%%", reading.SOFR), 16)
	PrintKeyValue("EFFR", fmt.Sprintf("%.2f%%", reading.EFFR), 16)
	PrintKeyValue("IORB", fmt.Sprintf("%.2f%%", reading.IORB), 16)
	PrintKeyValue("SOFR-IORB", fmt.Sprintf("%+.1f bp", reading.SpreadBP), 16)
	PrintKeyValue("ON RRP", fmt.Sprintf("%.0f M", reading.ReverseRepo), 16)
	PrintKeyValue("TGA", fmt.Sprintf("%.0f M", reading.TGA), 16)
	PrintKeyValue("Balance sheet", fmt.Sprintf("%.0f M (WoW %+.0f)", reading.BalanceSheet, reading.BalanceWoW), 16)
	PrintKeyValue("SRF accepted", fmt.Sprintf("%.0f M", reading.SRFAccepted), 16)
	PrintSeparator()
	PrintKeyValue("Condition", string(reading.Condition), 16)
	if len(reading.Errors) > 0 {
		PrintWarning("Missing inputs: " + strings.Join(reading.Errors, "; "))
	}
	return nil
}

func runDetail(cmd *cobra.Command, args []string) error {
	region, err := monitor.ParseRegion(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(2 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.monitor.Detail(ctx, region)
	if err != nil {
		return fmt.Errorf("detail: %w", err)
	}

	if jsonOutput {
		return PrintJSON(detail)
	}

	PrintHeader(fmt.Sprintf("🔎 %s detail (%s)", strings.ToUpper(string(detail.Region)), detail.AsOf.Format(contracts.DateLayout)))
	for _, m := range detail.Metrics {
		PrintKeyValue(m.Name, strings.TrimSpace(fmt.Sprintf("%.2f %s", m.Value, m.Unit)), 14)
	}
	PrintSeparator()
	PrintKeyValue("Assessment", detail.Assessment, 14)
	if detail.Secondary != "" {
		PrintKeyValue("Also", detail.Secondary, 14)
	}
	if len(detail.Errors) > 0 {
		PrintWarning("Missing inputs: " + strings.Join(detail.Errors, "; "))
	}
	return nil
}
