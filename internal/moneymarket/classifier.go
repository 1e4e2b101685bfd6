package moneymarket

import "github.com/wonny/liquidity/internal/contracts"

// Thresholds. Spread in basis points, balances in millions USD.
const (
	SpreadTightBP     = 10.0
	SpreadEasingBP    = 5.0
	ReverseRepoExcess = 300000.0
	ReverseRepoTight  = 200000.0
	BalanceSheetFloor = 6500000.0
	excessVotesNeeded = 2
	tightVotesNeeded  = 3
)

// Votes is the per-regime tally behind a classification
type Votes struct {
	Tight  int `json:"tight"`
	Easing int `json:"easing"`
	Excess int `json:"excess"`
}

// Tally scores the four money-market inputs
func Tally(spreadBP, reverseRepo, balanceWoW, balanceSheet float64) Votes {
	var v Votes

	switch {
	case spreadBP >= SpreadTightBP:
		v.Tight += 2
	case spreadBP < SpreadEasingBP:
		v.Easing++
	}

	switch {
	case reverseRepo >= ReverseRepoExcess:
		v.Excess += 2
	case reverseRepo >= ReverseRepoTight:
		v.Tight++
	default:
		v.Easing++
	}

	switch {
	case balanceWoW < 0:
		v.Tight += 2
	case balanceWoW > 0:
		v.Easing += 2
	}

	if balanceSheet < BalanceSheetFloor {
		v.Tight++
	}

	return v
}

// Condition maps a tally to a regime. Excess wins outright.
func (v Votes) Condition() contracts.MarketCondition {
	switch {
	case v.Excess >= excessVotesNeeded:
		return contracts.ConditionExcess
	case v.Tight >= v.Easing && v.Tight >= tightVotesNeeded:
		return contracts.ConditionTight
	case v.Easing > v.Tight:
		return contracts.ConditionEasing
	default:
		return contracts.ConditionNeutral
	}
}

// Classify is Tally(...).Condition()
func Classify(spreadBP, reverseRepo, balanceWoW, balanceSheet float64) contracts.MarketCondition {
	return Tally(spreadBP, reverseRepo, balanceWoW, balanceSheet).Condition()
}

// SpreadBP converts a SOFR-IORB rate difference (percent) to basis points
func SpreadBP(sofr, iorb float64) float64 {
	return (sofr - iorb) * 100
}
