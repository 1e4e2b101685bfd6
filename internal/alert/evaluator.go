// Package alert decides which alert rules a composite result triggers.
package alert

import (
	"fmt"
	"math"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoringconfig"
)

// Evaluator applies threshold rules to a CompositeResult
type Evaluator struct {
	rules scoringconfig.AlertRules
}

// New creates an Evaluator
func New(rules scoringconfig.AlertRules) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate returns the triggered alerts in rule order.
// A degraded result triggers nothing.
func (e *Evaluator) Evaluate(r contracts.CompositeResult) []contracts.Alert {
	if r.IsDegraded() {
		return nil
	}

	var alerts []contracts.Alert

	// 극단적 신호 (둘 중 하나만)
	switch {
	case r.Score >= e.rules.OpportunityMin:
		alerts = append(alerts, contracts.Alert{
			Type:     contracts.AlertOpportunity,
			Severity: contracts.SeverityOpportunity,
			Level:    "🚀 OPPORTUNITY",
			Message:  "글로벌 유동성 급증",
			Action:   r.Recommendation,
		})
	case r.Score <= e.rules.WarningMax:
		alerts = append(alerts, contracts.Alert{
			Type:     contracts.AlertWarning,
			Severity: contracts.SeverityWarning,
			Level:    "🔴 WARNING",
			Message:  "글로벌 유동성 급감",
			Action:   r.Recommendation,
		})
	}

	if r.Snapshot.Get(contracts.MoneySupplyGrowth) < e.rules.ChinaM2Min {
		alerts = append(alerts, contracts.Alert{
			Type:     contracts.AlertChinaRisk,
			Severity: contracts.SeverityRisk,
			Level:    "🇨🇳 CHINA RISK",
			Message:  "중국 유동성 경색",
			Action:   "신흥국/원자재 노출 축소",
		})
	}

	if r.Snapshot.Get(contracts.CarryPair) > e.rules.CarryPairMax {
		alerts = append(alerts, contracts.Alert{
			Type:     contracts.AlertYenRisk,
			Severity: contracts.SeverityRisk,
			Level:    "🇯🇵 YEN RISK",
			Message:  "엔캐리 언와인드 임박",
			Action:   "변동성 헤지",
		})
	}

	change := r.Derived.DollarIndexWoW
	if math.Abs(change) > e.rules.DollarMoveAbs {
		direction, action := "급락", "Risk-ON 기회"
		if change > 0 {
			direction, action = "급등", "Risk-OFF 준비"
		}
		alerts = append(alerts, contracts.Alert{
			Type:     contracts.AlertDXYMove,
			Severity: contracts.SeverityRisk,
			Level:    "💵 DXY MOVE",
			Message:  fmt.Sprintf("달러 %s (%+.2f)", direction, change),
			Action:   action,
		})
	}

	return alerts
}
