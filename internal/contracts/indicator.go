package contracts

// Indicator is the short name of a macro series.
// Provider series ids live in configuration (scoringconfig symbols), never here.
// ⭐ SSOT: 지표 이름은 여기서만 정의
type Indicator string

const (
	// Scored indicators
	BalanceSheet      Indicator = "balance_sheet"       // Fed total assets (WALCL), anchor
	TreasuryAccount   Indicator = "treasury_account"    // TGA (WTREGEN)
	ReverseRepo       Indicator = "reverse_repo"        // ON RRP (RRPONTSYD)
	DollarIndex       Indicator = "dollar_index"        // broad dollar index (DTWEXBGS)
	MoneySupplyGrowth Indicator = "money_supply_growth" // China M2 YoY %
	CarryPair         Indicator = "carry_pair"          // USD/JPY
	USDKRW            Indicator = "usdkrw"
	USDBRL            Indicator = "usdbrl"
	USDMXN            Indicator = "usdmxn"

	// Detail / money-market indicators
	SOFR          Indicator = "sofr"
	EFFR          Indicator = "effr"
	IORB          Indicator = "iorb"
	ChinaLoans    Indicator = "china_loans"
	ChinaReserves Indicator = "china_reserves"
	JGB10Y        Indicator = "jgb_10y"
	US10Y         Indicator = "us_10y"
	VIX           Indicator = "vix"
)

// String returns the short name
func (i Indicator) String() string {
	return string(i)
}

// AllIndicators lists every indicator the monitor knows about
func AllIndicators() []Indicator {
	return []Indicator{
		BalanceSheet, TreasuryAccount, ReverseRepo, DollarIndex, MoneySupplyGrowth, CarryPair,
		USDKRW, USDBRL, USDMXN,
		SOFR, EFFR, IORB, ChinaLoans, ChinaReserves, JGB10Y, US10Y, VIX,
	}
}

// IsKnown reports whether i is one of AllIndicators
func (i Indicator) IsKnown() bool {
	for _, known := range AllIndicators() {
		if i == known {
			return true
		}
	}
	return false
}
