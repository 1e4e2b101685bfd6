package contracts

import (
	"sort"
	"time"
)

// Snapshot holds every indicator's value as of one reference date.
// A missing indicator reads as 0 (zero sentinel).
type Snapshot struct {
	Date   time.Time             `json:"date"`
	Values map[Indicator]float64 `json:"values"`
}

// NewSnapshot creates an empty snapshot for date
func NewSnapshot(date time.Time) Snapshot {
	return Snapshot{Date: Day(date), Values: make(map[Indicator]float64)}
}

// Get returns the value for ind, or 0 if absent
func (s Snapshot) Get(ind Indicator) float64 {
	return s.Values[ind]
}

// With returns a copy of s with ind set to v
func (s Snapshot) With(ind Indicator, v float64) Snapshot {
	values := make(map[Indicator]float64, len(s.Values)+1)
	for k, val := range s.Values {
		values[k] = val
	}
	values[ind] = v
	return Snapshot{Date: s.Date, Values: values}
}

// Indicators returns the indicators present, sorted by name
func (s Snapshot) Indicators() []Indicator {
	out := make([]Indicator, 0, len(s.Values))
	for ind := range s.Values {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ScoreComponents is the per-factor breakdown of a composite score.
// US = BalanceSheet + Treasury + ReverseRepo.
type ScoreComponents struct {
	BalanceSheet int `json:"balance_sheet"`
	Treasury     int `json:"treasury"`
	ReverseRepo  int `json:"reverse_repo"`

	US     int `json:"us"`
	Dollar int `json:"dollar"`
	China  int `json:"china"`
	Japan  int `json:"japan"`
	EM     int `json:"em"`
}

// Total returns the composite score (sum of the five factors)
func (c ScoreComponents) Total() int {
	return c.US + c.Dollar + c.China + c.Japan + c.EM
}

// Factors returns the five factor scores keyed by name
func (c ScoreComponents) Factors() map[string]float64 {
	return map[string]float64{
		"us":     float64(c.US),
		"dollar": float64(c.Dollar),
		"china":  float64(c.China),
		"japan":  float64(c.Japan),
		"em":     float64(c.EM),
	}
}

// Derived holds the quantities the engine computed from the snapshot pair
type Derived struct {
	BalanceSheetWoW float64               `json:"balance_sheet_wow"`
	TreasuryWoW     float64               `json:"treasury_wow"`
	DollarIndexWoW  float64               `json:"dollar_index_wow"`
	EMIndex         float64               `json:"em_index"`
	EMChanges       map[Indicator]float64 `json:"em_changes"` // WoW % per pair
}

// CompositeResult is one scored analysis. Never mutated after creation.
// ⭐ SSOT: 분석 결과 단일 구조
type CompositeResult struct {
	Score          int             `json:"score"`
	Signal         Signal          `json:"signal"`
	Recommendation string          `json:"recommendation"`
	Timestamp      time.Time       `json:"timestamp"`
	Snapshot       Snapshot        `json:"snapshot"`
	Components     ScoreComponents `json:"components"`
	Derived        Derived         `json:"derived"`
	ConfigHash     string          `json:"config_hash,omitempty"`
}

// IsDegraded reports whether the result stands in for a failed computation
func (r CompositeResult) IsDegraded() bool {
	return r.Signal == SignalError
}

// Degraded builds the score-0 ERROR result returned when a computation fails
func Degraded(at time.Time, cause error) CompositeResult {
	msg := "computation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return CompositeResult{
		Score:          0,
		Signal:         SignalError,
		Recommendation: msg,
		Timestamp:      at,
		Snapshot:       NewSnapshot(at),
	}
}
