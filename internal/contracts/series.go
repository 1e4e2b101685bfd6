package contracts

import (
	"encoding/json"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in storage
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date at UTC midnight.
// The calendar date is taken in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Observation is one dated value of an indicator.
// Err marks a fetch failure; Value is then the zero sentinel.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Err   error     `json:"-"`
}

// Failed reports whether the observation is a fetch-failure fallback
func (o Observation) Failed() bool {
	return o.Err != nil
}

// Series is an indicator time series: calendar dates ascending and unique.
// Gaps are expected and never zero-filled.
// ⭐ SSOT: 시계열은 생성 시 한 번만 정렬
type Series struct {
	obs []Observation
}

// NewSeries builds a Series from observations in any order.
// Dates are truncated to the calendar day; for duplicate dates the later
// element in the input wins.
func NewSeries(obs []Observation) Series {
	if len(obs) == 0 {
		return Series{}
	}

	sorted := make([]Observation, len(obs))
	for i, o := range obs {
		sorted[i] = Observation{Date: Day(o.Date), Value: o.Value}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// stable sort keeps input order within a date: keep the last one
	out := sorted[:0]
	for _, o := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(o.Date) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}

	return Series{obs: out}
}

// SeriesFromMap builds a Series from a date → value mapping
func SeriesFromMap(m map[time.Time]float64) Series {
	obs := make([]Observation, 0, len(m))
	for d, v := range m {
		obs = append(obs, Observation{Date: d, Value: v})
	}
	return NewSeries(obs)
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s.obs)
}

// IsEmpty reports whether the series has no observations
func (s Series) IsEmpty() bool {
	return len(s.obs) == 0
}

// At returns the i-th observation in date order
func (s Series) At(i int) Observation {
	return s.obs[i]
}

// Observations returns a copy of the observations in date order
func (s Series) Observations() []Observation {
	out := make([]Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Dates returns the observation dates in ascending order
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Date
	}
	return out
}

// Last returns the most recent observation
func (s Series) Last() (Observation, bool) {
	if len(s.obs) == 0 {
		return Observation{}, false
	}
	return s.obs[len(s.obs)-1], true
}

// Since returns the observations dated on or after start
func (s Series) Since(start time.Time) Series {
	start = Day(start)
	i := sort.Search(len(s.obs), func(i int) bool {
		return !s.obs[i].Date.Before(start)
	})
	return Series{obs: s.obs[i:]}
}

// MarshalJSON encodes the series as an array of observations
func (s Series) MarshalJSON() ([]byte, error) {
	if s.obs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.obs)
}

// UnmarshalJSON decodes an array of observations, re-establishing ordering
func (s *Series) UnmarshalJSON(data []byte) error {
	var obs []Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return err
	}
	*s = NewSeries(obs)
	return nil
}
