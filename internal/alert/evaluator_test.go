package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoringconfig"
)

func result(score int, m2, usdjpy, dxyWoW float64) contracts.CompositeResult {
	at := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	return contracts.CompositeResult{
		Score:          score,
		Signal:         contracts.SignalNeutral,
		Recommendation: "포트폴리오 균형 유지",
		Timestamp:      at,
		Snapshot: contracts.NewSnapshot(at).
			With(contracts.MoneySupplyGrowth, m2).
			With(contracts.CarryPair, usdjpy),
		Derived: contracts.Derived{DollarIndexWoW: dxyWoW},
	}
}

func types(alerts []contracts.Alert) []contracts.AlertType {
	out := make([]contracts.AlertType, len(alerts))
	for i, a := range alerts {
		out[i] = a.Type
	}
	return out
}

func TestEvaluate(t *testing.T) {
	e := New(scoringconfig.Default().Alerts)

	tests := []struct {
		name string
		in   contracts.CompositeResult
		want []contracts.AlertType
	}{
		{"quiet", result(0, 9, 140, 0.5), []contracts.AlertType{}},
		{"opportunity at threshold", result(60, 9, 140, 0), []contracts.AlertType{contracts.AlertOpportunity}},
		{"just below opportunity", result(59, 9, 140, 0), []contracts.AlertType{}},
		{"warning at threshold", result(-30, 9, 140, 0), []contracts.AlertType{contracts.AlertWarning}},
		{"just above warning", result(-29, 9, 140, 0), []contracts.AlertType{}},
		{"china risk", result(0, 6.9, 140, 0), []contracts.AlertType{contracts.AlertChinaRisk}},
		{"china at threshold", result(0, 7, 140, 0), []contracts.AlertType{}},
		{"yen risk", result(0, 9, 155.1, 0), []contracts.AlertType{contracts.AlertYenRisk}},
		{"yen at threshold", result(0, 9, 155, 0), []contracts.AlertType{}},
		{"dollar surge", result(0, 9, 140, 2.1), []contracts.AlertType{contracts.AlertDXYMove}},
		{"dollar drop", result(0, 9, 140, -2.1), []contracts.AlertType{contracts.AlertDXYMove}},
		{"dollar exactly 2", result(0, 9, 140, 2), []contracts.AlertType{}},
		{
			"everything",
			result(-45, 5, 158, -3),
			[]contracts.AlertType{contracts.AlertWarning, contracts.AlertChinaRisk, contracts.AlertYenRisk, contracts.AlertDXYMove},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(e.Evaluate(tt.in)))
		})
	}
}

func TestEvaluate_ActionsAndMessages(t *testing.T) {
	e := New(scoringconfig.Default().Alerts)

	alerts := e.Evaluate(result(70, 9, 140, 2.5))
	require.Len(t, alerts, 2)

	assert.Equal(t, "포트폴리오 균형 유지", alerts[0].Action, "score alerts carry the recommendation")
	assert.Equal(t, contracts.SeverityOpportunity, alerts[0].Severity)
	assert.Equal(t, "달러 급등 (+2.50)", alerts[1].Message)
	assert.Equal(t, "Risk-OFF 준비", alerts[1].Action)

	drop := e.Evaluate(result(0, 9, 140, -2.25))
	require.Len(t, drop, 1)
	assert.Equal(t, "달러 급락 (-2.25)", drop[0].Message)
	assert.Equal(t, "Risk-ON 기회", drop[0].Action)
}

func TestEvaluate_DegradedResult(t *testing.T) {
	e := New(scoringconfig.Default().Alerts)

	degraded := contracts.Degraded(time.Now(), assert.AnError)
	assert.Empty(t, e.Evaluate(degraded))
}
