package scoringconfig

import "github.com/wonny/liquidity/internal/contracts"

// Config는 유동성 점수 계산의 전체 설정 (불변 값으로 엔진에 전달)
type Config struct {
	Meta    Meta                  `yaml:"meta" json:"meta"`
	Anchor  contracts.Indicator   `yaml:"anchor" json:"anchor"`
	Symbols []Symbol              `yaml:"symbols" json:"symbols"`
	EMPairs []contracts.Indicator `yaml:"em_pairs" json:"em_pairs"`
	Factors Factors               `yaml:"factors" json:"factors"`
	Signals []SignalBand          `yaml:"signals" json:"signals"`
	Alerts  AlertRules            `yaml:"alerts" json:"alerts"`
}

// Meta 메타 정보
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Symbol maps a short indicator name to its provider series id
type Symbol struct {
	Indicator contracts.Indicator `yaml:"indicator" json:"indicator"`
	SeriesID  string              `yaml:"series_id" json:"series_id"`
}

// Input selects what a line item scores: the week-over-week delta or the level
type Input string

const (
	InputWoW   Input = "wow"
	InputLevel Input = "level"
)

// Band is one ordered range check. Op is ">" or "<" (strict).
type Band struct {
	Op        string  `yaml:"op" json:"op"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Score     int     `yaml:"score" json:"score"`
}

// Matches reports whether v falls in the band
func (b Band) Matches(v float64) bool {
	switch b.Op {
	case OpGreater:
		return v > b.Threshold
	case OpLess:
		return v < b.Threshold
	default:
		return false
	}
}

// Band operators
const (
	OpGreater = ">"
	OpLess    = "<"
)

// LineItem is a step function: bands top-down, first match wins, else Default
type LineItem struct {
	Input   Input  `yaml:"input,omitempty" json:"input,omitempty"`
	Bands   []Band `yaml:"bands" json:"bands"`
	Default int    `yaml:"default" json:"default"`
}

// Score evaluates the step function at v
func (l LineItem) Score(v float64) int {
	for _, b := range l.Bands {
		if b.Matches(v) {
			return b.Score
		}
	}
	return l.Default
}

// Factors groups the seven scored line items
type Factors struct {
	BalanceSheet      LineItem `yaml:"balance_sheet" json:"balance_sheet"`
	TreasuryAccount   LineItem `yaml:"treasury_account" json:"treasury_account"`
	ReverseRepo       LineItem `yaml:"reverse_repo" json:"reverse_repo"`
	DollarIndex       LineItem `yaml:"dollar_index" json:"dollar_index"`
	MoneySupplyGrowth LineItem `yaml:"money_supply_growth" json:"money_supply_growth"`
	CarryPair         LineItem `yaml:"carry_pair" json:"carry_pair"`
	EMIndex           LineItem `yaml:"em_index" json:"em_index"`
}

// SignalBand maps scores >= Min to Signal. A nil Min is the catch-all (last band only).
type SignalBand struct {
	Signal         contracts.Signal `yaml:"signal" json:"signal"`
	Min            *float64         `yaml:"min,omitempty" json:"min,omitempty"`
	Recommendation string           `yaml:"recommendation" json:"recommendation"`
}

// Matches reports whether score falls in the band
func (b SignalBand) Matches(score int) bool {
	return b.Min == nil || float64(score) >= *b.Min
}

// AlertRules 알림 임계값
type AlertRules struct {
	OpportunityMin int     `yaml:"opportunity_min" json:"opportunity_min"` // score >= → OPPORTUNITY
	WarningMax     int     `yaml:"warning_max" json:"warning_max"`         // score <= → WARNING
	ChinaM2Min     float64 `yaml:"china_m2_min" json:"china_m2_min"`       // M2 YoY < → CHINA_RISK
	CarryPairMax   float64 `yaml:"carry_pair_max" json:"carry_pair_max"`   // USD/JPY > → YEN_RISK
	DollarMoveAbs  float64 `yaml:"dollar_move_abs" json:"dollar_move_abs"` // |DXY WoW| > → DXY_MOVE
}

// SeriesID returns the provider series id for ind
func (c *Config) SeriesID(ind contracts.Indicator) (string, bool) {
	for _, s := range c.Symbols {
		if s.Indicator == ind {
			return s.SeriesID, true
		}
	}
	return "", false
}

// Indicators returns every configured indicator in declaration order
func (c *Config) Indicators() []contracts.Indicator {
	out := make([]contracts.Indicator, len(c.Symbols))
	for i, s := range c.Symbols {
		out[i] = s.Indicator
	}
	return out
}

// ScoredIndicators returns the indicators the engine reads
func (c *Config) ScoredIndicators() []contracts.Indicator {
	out := []contracts.Indicator{
		contracts.BalanceSheet,
		contracts.TreasuryAccount,
		contracts.ReverseRepo,
		contracts.DollarIndex,
		contracts.MoneySupplyGrowth,
		contracts.CarryPair,
	}
	return append(out, c.EMPairs...)
}

// Recommendation returns the text tied to sig ("" if the signal has no band)
func (c *Config) Recommendation(sig contracts.Signal) string {
	for _, b := range c.Signals {
		if b.Signal == sig {
			return b.Recommendation
		}
	}
	return ""
}
