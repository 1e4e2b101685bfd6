package contracts

import "fmt"

// Signal is the categorical liquidity regime derived from the composite score.
// Ordered from tightest to loosest; SignalError marks a degraded result.
type Signal int

const (
	SignalError Signal = iota
	SignalCrisis
	SignalExtremeTight
	SignalTight
	SignalNeutral
	SignalHighLiquidity
	SignalExtremeLiquidity
	SignalSuperHighLiquidity
)

var signalNames = map[Signal]string{
	SignalError:              "ERROR",
	SignalCrisis:             "crisis",
	SignalExtremeTight:       "extreme_tight",
	SignalTight:              "tight",
	SignalNeutral:            "neutral",
	SignalHighLiquidity:      "high_liquidity",
	SignalExtremeLiquidity:   "extreme_liquidity",
	SignalSuperHighLiquidity: "super_high_liquidity",
}

var signalLabels = map[Signal]string{
	SignalError:              "⛔ ERROR",
	SignalCrisis:             "🆘 CRISIS",
	SignalExtremeTight:       "🔴 EXTREME TIGHT",
	SignalTight:              "⚠️ TIGHT",
	SignalNeutral:            "⚖️ NEUTRAL",
	SignalHighLiquidity:      "✅ HIGH LIQUIDITY",
	SignalExtremeLiquidity:   "🚀 EXTREME LIQUIDITY",
	SignalSuperHighLiquidity: "🌊 SUPER-HIGH LIQUIDITY",
}

// Signals lists the scoring bands from loosest to tightest (SignalError excluded)
func Signals() []Signal {
	return []Signal{
		SignalSuperHighLiquidity,
		SignalExtremeLiquidity,
		SignalHighLiquidity,
		SignalNeutral,
		SignalTight,
		SignalExtremeTight,
		SignalCrisis,
	}
}

// String returns the machine name (used in storage and config)
func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return fmt.Sprintf("signal(%d)", int(s))
}

// Label returns the display text
func (s Signal) Label() string {
	if label, ok := signalLabels[s]; ok {
		return label
	}
	return s.String()
}

// ParseSignal parses a machine name
func ParseSignal(name string) (Signal, error) {
	for s, n := range signalNames {
		if n == name {
			return s, nil
		}
	}
	return SignalError, fmt.Errorf("unknown signal %q", name)
}

// MarshalText encodes the machine name
func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a machine name
func (s *Signal) UnmarshalText(text []byte) error {
	parsed, err := ParseSignal(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
