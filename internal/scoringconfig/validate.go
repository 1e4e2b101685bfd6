package scoringconfig

import (
	"fmt"

	"github.com/wonny/liquidity/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Symbols ===
	seen := make(map[contracts.Indicator]bool, len(cfg.Symbols))
	for i, s := range cfg.Symbols {
		field := fmt.Sprintf("symbols[%d]", i)
		if !s.Indicator.IsKnown() {
			return ValidationError{field + ".indicator", fmt.Sprintf("unknown indicator %q", s.Indicator)}
		}
		if s.SeriesID == "" {
			return ValidationError{field + ".series_id", "required"}
		}
		if seen[s.Indicator] {
			return ValidationError{field + ".indicator", fmt.Sprintf("duplicate indicator %q", s.Indicator)}
		}
		seen[s.Indicator] = true
	}

	if cfg.Anchor == "" {
		return ValidationError{"anchor", "required"}
	}
	if !seen[cfg.Anchor] {
		return ValidationError{"anchor", fmt.Sprintf("%q has no symbol", cfg.Anchor)}
	}

	if len(cfg.EMPairs) == 0 {
		return ValidationError{"em_pairs", "must not be empty"}
	}
	for _, ind := range cfg.ScoredIndicators() {
		if !seen[ind] {
			return ValidationError{"symbols", fmt.Sprintf("scored indicator %q has no symbol", ind)}
		}
	}

	// === Factors ===
	items := []struct {
		field string
		item  LineItem
		input bool // input mode required
	}{
		{"factors.balance_sheet", cfg.Factors.BalanceSheet, true},
		{"factors.treasury_account", cfg.Factors.TreasuryAccount, true},
		{"factors.reverse_repo", cfg.Factors.ReverseRepo, true},
		{"factors.dollar_index", cfg.Factors.DollarIndex, true},
		{"factors.money_supply_growth", cfg.Factors.MoneySupplyGrowth, true},
		{"factors.carry_pair", cfg.Factors.CarryPair, true},
		{"factors.em_index", cfg.Factors.EMIndex, false},
	}
	for _, it := range items {
		if err := validateLineItem(it.field, it.item, it.input); err != nil {
			return err
		}
	}

	// === Signals ===
	if err := validateSignals(cfg.Signals); err != nil {
		return err
	}

	// === Alerts ===
	if cfg.Alerts.OpportunityMin <= cfg.Alerts.WarningMax {
		return ValidationError{"alerts", "opportunity_min must be > warning_max"}
	}
	if cfg.Alerts.DollarMoveAbs <= 0 {
		return ValidationError{"alerts.dollar_move_abs", "must be > 0"}
	}

	return nil
}

// validateLineItem checks operators and that bands are reachable and disjoint:
// ">" thresholds strictly descending, "<" thresholds strictly ascending,
// and every "<" threshold <= every ">" threshold (no value matches both sides).
func validateLineItem(field string, item LineItem, requireInput bool) error {
	if requireInput && item.Input != InputWoW && item.Input != InputLevel {
		return ValidationError{field + ".input", "must be 'wow' or 'level'"}
	}
	if !requireInput && item.Input != "" {
		return ValidationError{field + ".input", "not allowed on a derived factor"}
	}
	if len(item.Bands) == 0 {
		return ValidationError{field + ".bands", "must not be empty"}
	}

	var gts, lts []float64
	for i, b := range item.Bands {
		switch b.Op {
		case OpGreater:
			if n := len(gts); n > 0 && b.Threshold >= gts[n-1] {
				return ValidationError{fmt.Sprintf("%s.bands[%d]", field, i), "'>' thresholds must be strictly descending"}
			}
			gts = append(gts, b.Threshold)
		case OpLess:
			if n := len(lts); n > 0 && b.Threshold <= lts[n-1] {
				return ValidationError{fmt.Sprintf("%s.bands[%d]", field, i), "'<' thresholds must be strictly ascending"}
			}
			lts = append(lts, b.Threshold)
		default:
			return ValidationError{fmt.Sprintf("%s.bands[%d].op", field, i), fmt.Sprintf("unsupported operator %q", b.Op)}
		}
	}

	if len(gts) > 0 && len(lts) > 0 {
		lowestGT := gts[len(gts)-1]
		highestLT := lts[len(lts)-1]
		if highestLT > lowestGT {
			return ValidationError{field + ".bands", fmt.Sprintf("'<' %.4g overlaps '>' %.4g", highestLT, lowestGT)}
		}
	}

	return nil
}

func validateSignals(bands []SignalBand) error {
	if len(bands) == 0 {
		return ValidationError{"signals", "must not be empty"}
	}

	seen := make(map[contracts.Signal]bool, len(bands))
	for i, b := range bands {
		field := fmt.Sprintf("signals[%d]", i)
		if b.Signal == contracts.SignalError {
			return ValidationError{field + ".signal", "ERROR is reserved for degraded results"}
		}
		if seen[b.Signal] {
			return ValidationError{field + ".signal", fmt.Sprintf("duplicate signal %s", b.Signal)}
		}
		seen[b.Signal] = true

		if b.Recommendation == "" {
			return ValidationError{field + ".recommendation", "required"}
		}

		last := i == len(bands)-1
		if last && b.Min != nil {
			return ValidationError{field + ".min", "last band must be the catch-all (no min)"}
		}
		if !last && b.Min == nil {
			return ValidationError{field + ".min", "only the last band may omit min"}
		}
		if i > 0 && b.Min != nil && *b.Min >= *bands[i-1].Min {
			return ValidationError{field + ".min", "must be strictly below the previous band"}
		}
	}

	return nil
}
