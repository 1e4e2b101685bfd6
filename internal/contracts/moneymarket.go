package contracts

import "time"

// MarketCondition is the US money-market regime
type MarketCondition string

const (
	ConditionExcess  MarketCondition = "EXCESS"
	ConditionTight   MarketCondition = "TIGHT"
	ConditionEasing  MarketCondition = "EASING"
	ConditionNeutral MarketCondition = "NEUTRAL"
)

// Operation is a single central-bank market operation result
type Operation struct {
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Accepted float64   `json:"accepted"` // millions USD
}

// MoneyMarketReading is one US money-market monitor row.
// Rates in percent, balances in millions USD.
type MoneyMarketReading struct {
	Timestamp    time.Time       `json:"timestamp"`
	Date         time.Time       `json:"date"` // latest balance sheet observation
	SOFR         float64         `json:"sofr"`
	EFFR         float64         `json:"effr"`
	IORB         float64         `json:"iorb"`
	SpreadBP     float64         `json:"spread_bp"` // (SOFR - IORB) in basis points
	ReverseRepo  float64         `json:"reverse_repo"`
	TGA          float64         `json:"tga"`
	BalanceSheet float64         `json:"balance_sheet"`
	BalanceWoW   float64         `json:"balance_wow"`
	SRFAccepted  float64         `json:"srf_accepted"`
	Condition    MarketCondition `json:"condition"`
	Errors       []string        `json:"errors,omitempty"`
}
