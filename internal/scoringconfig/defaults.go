package scoringconfig

import "github.com/wonny/liquidity/internal/contracts"

func minScore(v float64) *float64 {
	return &v
}

// Default returns the built-in configuration.
// config/scoring/liquidity.yaml carries the same values.
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "global_liquidity",
			Version:  "1.0.0",
		},
		Anchor: contracts.BalanceSheet,
		Symbols: []Symbol{
			{contracts.BalanceSheet, "WALCL"},
			{contracts.TreasuryAccount, "WTREGEN"},
			{contracts.ReverseRepo, "RRPONTSYD"},
			{contracts.DollarIndex, "DTWEXBGS"},
			{contracts.MoneySupplyGrowth, "MABMM301CNM657S"},
			{contracts.CarryPair, "DEXJPUS"},
			{contracts.USDKRW, "DEXKOUS"},
			{contracts.USDBRL, "DEXBZUS"},
			{contracts.USDMXN, "DEXMXUS"},
			{contracts.SOFR, "SOFR"},
			{contracts.EFFR, "EFFR"},
			{contracts.IORB, "IORB"},
			{contracts.ChinaLoans, "QCNLOANTOPRIV"},
			{contracts.ChinaReserves, "TRESEGCNM052N"},
			{contracts.JGB10Y, "IRLTLT01JPM156N"},
			{contracts.US10Y, "DGS10"},
			{contracts.VIX, "VIXCLS"},
		},
		EMPairs: []contracts.Indicator{contracts.USDKRW, contracts.USDBRL, contracts.USDMXN},
		Factors: Factors{
			// 백만 달러 단위
			BalanceSheet: LineItem{
				Input: InputWoW,
				Bands: []Band{
					{OpGreater, 50000, 20},
					{OpGreater, 10000, 10},
					{OpLess, -50000, -20},
					{OpLess, -10000, -10},
				},
			},
			TreasuryAccount: LineItem{
				Input: InputWoW,
				Bands: []Band{
					{OpLess, -100000, 10},
					{OpLess, -50000, 5},
					{OpGreater, 100000, -10},
					{OpGreater, 50000, -5},
				},
			},
			ReverseRepo: LineItem{
				Input: InputLevel,
				Bands: []Band{
					{OpGreater, 500000, -15},
					{OpGreater, 300000, -10},
					{OpGreater, 200000, 0},
					{OpGreater, 100000, 5},
				},
				Default: 10,
			},
			DollarIndex: LineItem{
				Input: InputWoW,
				Bands: []Band{
					{OpLess, -2, 25},
					{OpLess, -1, 20},
					{OpGreater, 2, -25},
					{OpGreater, 1, -20},
				},
			},
			MoneySupplyGrowth: LineItem{
				Input: InputLevel,
				Bands: []Band{
					{OpGreater, 12, 20},
					{OpGreater, 10, 15},
					{OpLess, 6, -20},
					{OpLess, 8, -10},
				},
			},
			CarryPair: LineItem{
				Input: InputLevel,
				Bands: []Band{
					{OpGreater, 155, -15},
					{OpGreater, 150, -10},
					{OpGreater, 145, -5},
					{OpLess, 130, 5},
				},
			},
			EMIndex: LineItem{
				Bands: []Band{
					{OpGreater, 2, 15},
					{OpGreater, 1, 10},
					{OpLess, -2, -15},
					{OpLess, -1, -10},
				},
			},
		},
		Signals: []SignalBand{
			{contracts.SignalSuperHighLiquidity, minScore(80), "공격적 위험자산 확대: 성장주, 신흥국, 원자재"},
			{contracts.SignalExtremeLiquidity, minScore(50), "성장주, 신흥국, 원자재 비중 확대"},
			{contracts.SignalHighLiquidity, minScore(20), "위험자산 비중 유지/확대"},
			{contracts.SignalNeutral, minScore(-20), "포트폴리오 균형 유지"},
			{contracts.SignalTight, minScore(-50), "현금/채권 비중 증대"},
			{contracts.SignalExtremeTight, minScore(-80), "방어적 포지션, 달러/금 선호"},
			{contracts.SignalCrisis, nil, "현금 최대화, 레버리지 축소"},
		},
		Alerts: AlertRules{
			OpportunityMin: 60,
			WarningMax:     -30,
			ChinaM2Min:     7,
			CarryPairMax:   155,
			DollarMoveAbs:  2,
		},
	}
}
