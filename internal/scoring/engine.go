// Package scoring maps an aligned snapshot pair to a composite liquidity
// score and signal. All functions are pure.
package scoring

import (
	"fmt"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoringconfig"
)

// Engine scores snapshots under one immutable configuration
// ⭐ SSOT: 유동성 점수 계산은 여기서만
type Engine struct {
	cfg  *scoringconfig.Config
	hash string
}

// New validates cfg and creates an Engine
func New(cfg *scoringconfig.Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scoring config is nil")
	}
	if err := scoringconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}

	hash, err := scoringconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash scoring config: %w", err)
	}

	return &Engine{cfg: cfg, hash: hash}, nil
}

// Config returns the engine's configuration
func (e *Engine) Config() *scoringconfig.Config {
	return e.cfg
}

// ConfigHash returns the sha256 of the configuration
func (e *Engine) ConfigHash() string {
	return e.hash
}

// Score computes the composite result for current against previous.
// previous is the snapshot at the prior reference date; pass current itself
// when there is none (all WoW deltas become 0).
// Missing values read as 0 and are scored like any other value.
func (e *Engine) Score(current, previous contracts.Snapshot) contracts.CompositeResult {
	f := e.cfg.Factors

	derived := contracts.Derived{
		BalanceSheetWoW: wow(current, previous, contracts.BalanceSheet),
		TreasuryWoW:     wow(current, previous, contracts.TreasuryAccount),
		DollarIndexWoW:  wow(current, previous, contracts.DollarIndex),
	}
	derived.EMIndex, derived.EMChanges = EMIndex(current, previous, e.cfg.EMPairs)

	var c contracts.ScoreComponents
	c.BalanceSheet = f.BalanceSheet.Score(input(f.BalanceSheet, current, previous, contracts.BalanceSheet))
	c.Treasury = f.TreasuryAccount.Score(input(f.TreasuryAccount, current, previous, contracts.TreasuryAccount))
	c.ReverseRepo = f.ReverseRepo.Score(input(f.ReverseRepo, current, previous, contracts.ReverseRepo))
	c.US = c.BalanceSheet + c.Treasury + c.ReverseRepo
	c.Dollar = f.DollarIndex.Score(input(f.DollarIndex, current, previous, contracts.DollarIndex))
	c.China = f.MoneySupplyGrowth.Score(input(f.MoneySupplyGrowth, current, previous, contracts.MoneySupplyGrowth))
	c.Japan = f.CarryPair.Score(input(f.CarryPair, current, previous, contracts.CarryPair))
	c.EM = f.EMIndex.Score(derived.EMIndex)

	score := c.Total()
	signal, recommendation := e.Classify(score)

	return contracts.CompositeResult{
		Score:          score,
		Signal:         signal,
		Recommendation: recommendation,
		Timestamp:      current.Date,
		Snapshot:       current,
		Components:     c,
		Derived:        derived,
		ConfigHash:     e.hash,
	}
}

// Classify maps a score to its signal band (first band with score >= min)
func (e *Engine) Classify(score int) (contracts.Signal, string) {
	for _, b := range e.cfg.Signals {
		if b.Matches(score) {
			return b.Signal, b.Recommendation
		}
	}
	// unreachable with a validated config: the last band is a catch-all
	return contracts.SignalError, "no signal band matched"
}

// EMIndex returns the EM currency strength index: the negated mean of the
// pairs' WoW percent changes. A pair whose previous value is not positive
// contributes a 0% change.
func EMIndex(current, previous contracts.Snapshot, pairs []contracts.Indicator) (float64, map[contracts.Indicator]float64) {
	changes := make(map[contracts.Indicator]float64, len(pairs))
	if len(pairs) == 0 {
		return 0, changes
	}

	sum := 0.0
	for _, pair := range pairs {
		pct := PercentChange(current.Get(pair), previous.Get(pair))
		changes[pair] = pct
		sum += pct
	}

	// FX 상승 = 현지 통화 약세 → 부호 반전
	return -sum / float64(len(pairs)), changes
}

// PercentChange returns (cur-prev)/prev*100, or 0 when prev <= 0
func PercentChange(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

func wow(current, previous contracts.Snapshot, ind contracts.Indicator) float64 {
	return current.Get(ind) - previous.Get(ind)
}

func input(item scoringconfig.LineItem, current, previous contracts.Snapshot, ind contracts.Indicator) float64 {
	if item.Input == scoringconfig.InputWoW {
		return wow(current, previous, ind)
	}
	return current.Get(ind)
}
