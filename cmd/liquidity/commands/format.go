package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/wonny/liquidity/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintResult prints a composite result with its factor breakdown
func PrintResult(r contracts.CompositeResult) {
	PrintHeader("🌐 Global Liquidity Score")
	PrintKeyValue("Date", r.Timestamp.Format(contracts.DateLayout), 14)
	PrintKeyValue("Score", fmt.Sprintf("%d", r.Score), 14)
	PrintKeyValue("Signal", r.Signal.Label(), 14)
	PrintKeyValue("Action", r.Recommendation, 14)
	if r.IsDegraded() {
		PrintWarning("Computation failed, result is degraded")
		return
	}

	PrintSeparator()
	c := r.Components
	PrintKeyValue("US", fmt.Sprintf("%+d (Fed %+d, TGA %+d, RRP %+d)", c.US, c.BalanceSheet, c.Treasury, c.ReverseRepo), 14)
	PrintKeyValue("Dollar", fmt.Sprintf("%+d (DXY WoW %+.2f%%)", c.Dollar, r.Derived.DollarIndexWoW), 14)
	PrintKeyValue("China", fmt.Sprintf("%+d", c.China), 14)
	PrintKeyValue("Japan", fmt.Sprintf("%+d", c.Japan), 14)
	PrintKeyValue("EM", fmt.Sprintf("%+d (index %+.2f%%)", c.EM, r.Derived.EMIndex), 14)
	PrintDoubleSeparator()
}

// PrintAlerts prints an alert list
func PrintAlerts(alerts []contracts.Alert) {
	if len(alerts) == 0 {
		PrintInfo("No alerts")
		return
	}
	for _, a := range alerts {
		fmt.Printf("%s  %s\n", a.Level, a.Message)
		fmt.Printf("   → %s\n", a.Action)
	}
}

// maskPassword masks the password in the database URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
