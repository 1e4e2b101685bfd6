package scoring

// Regional detail classifiers. Display-only: none of these feed the composite score.

// ChinaSignal classifies China M2 YoY growth
type ChinaSignal string

const (
	ChinaExcess   ChinaSignal = "🔴 과잉 유동성"
	ChinaHealthy  ChinaSignal = "✅ 적정 성장"
	ChinaNeutral  ChinaSignal = "⚖️ 중립"
	ChinaSlowing  ChinaSignal = "⚠️ 성장 둔화"
	ChinaShortage ChinaSignal = "🔵 유동성 부족"
)

// ClassifyChina maps M2 YoY % to a signal
func ClassifyChina(m2Growth float64) ChinaSignal {
	switch {
	case m2Growth > 12:
		return ChinaExcess
	case m2Growth > 10:
		return ChinaHealthy
	case m2Growth > 8:
		return ChinaNeutral
	case m2Growth > 6:
		return ChinaSlowing
	default:
		return ChinaShortage
	}
}

// CarryRisk classifies yen carry-trade risk
type CarryRisk string

const (
	CarryExtreme   CarryRisk = "🔴 극도의 리스크"
	CarryHigh      CarryRisk = "⚠️ 높은 리스크"
	CarryMedium    CarryRisk = "⚖️ 중간 리스크"
	CarryUnwinding CarryRisk = "💨 언와인드 진행"
	CarryStable    CarryRisk = "✅ 안정적"
)

// ClassifyCarry maps USD/JPY and the US10Y-JGB10Y spread (%p) to a risk level
func ClassifyCarry(usdjpy, spread float64) CarryRisk {
	switch {
	case usdjpy > 150 && spread > 4:
		return CarryExtreme
	case usdjpy > 145 && spread > 3.5:
		return CarryHigh
	case usdjpy > 140:
		return CarryMedium
	case usdjpy < 130:
		return CarryUnwinding
	default:
		return CarryStable
	}
}

// TGAImpact classifies the liquidity effect of the Treasury balance change
type TGAImpact string

const (
	TGALargeInjection TGAImpact = "🚀 대규모 유동성 공급"
	TGAInjection      TGAImpact = "✅ 유동성 공급중"
	TGALargeDrain     TGAImpact = "🔴 대규모 유동성 흡수"
	TGADrain          TGAImpact = "⚠️ 유동성 흡수중"
	TGANeutral        TGAImpact = "⚖️ 중립"
)

// ClassifyTGA maps the 30-day TGA change (millions USD) to an impact.
// Larger bands are checked first.
func ClassifyTGA(monthChange float64) TGAImpact {
	switch {
	case monthChange < -100000:
		return TGALargeInjection
	case monthChange < -50000:
		return TGAInjection
	case monthChange > 100000:
		return TGALargeDrain
	case monthChange > 50000:
		return TGADrain
	default:
		return TGANeutral
	}
}

// DebtCeilingRisk classifies the TGA balance cushion
type DebtCeilingRisk string

const (
	DebtCeilingRisky    DebtCeilingRisk = "🔴 부채한도 리스크"
	DebtCeilingCaution  DebtCeilingRisk = "⚠️ 주의 필요"
	DebtCeilingAdequate DebtCeilingRisk = "✅ 충분"
)

// ClassifyDebtCeiling maps the TGA balance (millions USD) to a risk level
func ClassifyDebtCeiling(tga float64) DebtCeilingRisk {
	switch {
	case tga < 100000:
		return DebtCeilingRisky
	case tga < 200000:
		return DebtCeilingCaution
	default:
		return DebtCeilingAdequate
	}
}

// EMSignal classifies the EM currency strength index
type EMSignal string

const (
	EMStrong  EMSignal = "✅ EM 강세"
	EMWeak    EMSignal = "⚠️ EM 약세"
	EMNeutral EMSignal = "⚖️ 중립"
)

// ClassifyEM maps the EM strength index to a signal
func ClassifyEM(index float64) EMSignal {
	switch {
	case index > 1:
		return EMStrong
	case index < -1:
		return EMWeak
	default:
		return EMNeutral
	}
}

// SharpDollarMove reports whether a weekly dollar-index change exceeds limit in magnitude
func SharpDollarMove(weekChange, limit float64) bool {
	return weekChange > limit || weekChange < -limit
}
