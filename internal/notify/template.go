package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wonny/liquidity/internal/contracts"
)

const alertHTML = `<div style="font-family: Arial; background-color: #f5f5f5; padding: 20px;">
  <h2 style="color: #1f77b4;">🌐 글로벌 유동성 알림</h2>
  <p><strong>시간:</strong> <span class="timestamp">{{.Timestamp}}</span></p>
  <p><strong>유동성 점수:</strong> <span class="score">{{.Score}}</span></p>
  <p><strong>신호:</strong> <span class="signal">{{.Signal}}</span></p>

  <h3>📊 주요 지표</h3>
  <table class="indicators" style="border-collapse: collapse; width: 100%; background: white;">
    {{range .Indicators}}<tr>
      <td style="border: 1px solid #ddd; padding: 8px;"><strong>{{.Name}}</strong></td>
      <td style="border: 1px solid #ddd; padding: 8px;">{{.Value}}</td>
    </tr>{{end}}
  </table>

  <h3>🚨 알림 내역</h3>
  <table class="alerts" style="border-collapse: collapse; width: 100%; margin: 20px 0;">
    <tr style="background-color: #d3d3d3;">
      <th style="border: 1px solid #999; padding: 10px;">레벨</th>
      <th style="border: 1px solid #999; padding: 10px;">메시지</th>
      <th style="border: 1px solid #999; padding: 10px;">권장 조치</th>
    </tr>
    {{range .Alerts}}<tr class="alert" data-type="{{.Type}}" style="background-color: white;">
      <td style="border: 1px solid #999; padding: 10px;"><strong>{{.Level}}</strong></td>
      <td style="border: 1px solid #999; padding: 10px;">{{.Message}}</td>
      <td style="border: 1px solid #999; padding: 10px;"><em>{{.Action}}</em></td>
    </tr>{{end}}
  </table>
</div>
`

var alertTemplate = template.Must(template.New("alert").Parse(alertHTML))

type indicatorRow struct {
	Name  string
	Value string
}

type alertView struct {
	Timestamp  string
	Score      int
	Signal     string
	Indicators []indicatorRow
	Alerts     []contracts.Alert
}

func keyIndicators(r contracts.CompositeResult) []indicatorRow {
	snap := r.Snapshot
	return []indicatorRow{
		{"DXY", fmt.Sprintf("%.2f (%+.2f)", snap.Get(contracts.DollarIndex), r.Derived.DollarIndexWoW)},
		{"WALCL WoW", fmt.Sprintf("%.0fM$", r.Derived.BalanceSheetWoW)},
		{"중국 M2", fmt.Sprintf("%.1f%%", snap.Get(contracts.MoneySupplyGrowth))},
		{"USD/JPY", fmt.Sprintf("%.2f", snap.Get(contracts.CarryPair))},
	}
}

// RenderHTML renders the alert e-mail body
func RenderHTML(alerts []contracts.Alert, r contracts.CompositeResult, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	view := alertView{
		Timestamp:  r.Timestamp.In(loc).Format("2006-01-02 15:04 MST"),
		Score:      r.Score,
		Signal:     r.Signal.Label(),
		Indicators: keyIndicators(r),
		Alerts:     alerts,
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render alert email: %w", err)
	}
	return buf.String(), nil
}

// RenderText renders the plain-text alternative
func RenderText(alerts []contracts.Alert, r contracts.CompositeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "글로벌 유동성 알림\n점수: %d\n신호: %s\n\n", r.Score, r.Signal.Label())
	for _, row := range keyIndicators(r) {
		fmt.Fprintf(&b, "%s: %s\n", row.Name, row.Value)
	}
	b.WriteString("\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "[%s] %s\n  → %s\n", a.Level, a.Message, a.Action)
	}
	return b.String()
}
