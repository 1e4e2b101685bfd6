package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "알림 관리",
	Long: `알림 규칙을 평가하거나 저장된 알림을 조회합니다.

Subcommands:
  check  - 규칙 평가, 저장, 이메일 발송
  list   - 최근 알림 조회

Example:
  go run ./cmd/liquidity alerts check
  go run ./cmd/liquidity alerts list --limit 20`,
}

var (
	alertsCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "알림 규칙 평가",
		RunE:  runAlertCheck,
	}

	alertsListCmd = &cobra.Command{
		Use:   "list",
		Short: "최근 알림 조회",
		RunE:  runAlertList,
	}

	alertsLimit int
)

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsCheckCmd)
	alertsCmd.AddCommand(alertsListCmd)

	alertsListCmd.Flags().IntVar(&alertsLimit, "limit", 20, "조회 개수")
}

func runAlertCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(5 * time.Minute)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.monitor.CheckAlerts(ctx)
	if err != nil {
		return fmt.Errorf("check alerts: %w", err)
	}

	if jsonOutput {
		return PrintJSON(report)
	}

	PrintHeader("🔔 Alert Check")
	PrintKeyValue("Score", fmt.Sprintf("%d (%s)", report.Result.Score, report.Result.Signal.Label()), 8)
	PrintKeyValue("Batch", report.BatchID, 8)
	PrintSeparator()
	PrintAlerts(report.Alerts)
	if report.Notified {
		PrintSuccess("Notification sent to " + a.cfg.Alerts.Recipient)
	}
	return nil
}

func runAlertList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(time.Minute)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.repo.Alerts(ctx, alertsLimit)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}

	if jsonOutput {
		return PrintJSON(records)
	}

	widths := []int{17, 6, 14, 50}
	PrintTableHeader([]string{"Time", "Score", "Type", "Message"}, widths)
	for _, rec := range records {
		PrintTableRow([]string{
			rec.Timestamp.In(a.location).Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", rec.Score),
			string(rec.Alert.Type),
			rec.Alert.Message,
		}, widths)
	}
	if len(records) == 0 {
		PrintInfo("No alerts stored")
	}
	return nil
}
