// Package align performs as-of (last observation carried forward) lookups
// of indicator series onto a reference date calendar.
package align

import (
	"sort"
	"time"

	"github.com/wonny/liquidity/internal/contracts"
)

// ClosestValue returns the value observed on target, else the value at the
// greatest date before target, else 0. No interpolation.
func ClosestValue(s contracts.Series, target time.Time) float64 {
	target = contracts.Day(target)
	n := s.Len()

	// first index with date > target
	i := sort.Search(n, func(i int) bool {
		return s.At(i).Date.After(target)
	})
	if i == 0 {
		return 0
	}
	return s.At(i - 1).Value
}

// ReferenceDates returns the anchor's observation dates on or after start.
// Series dates are already sorted and unique.
func ReferenceDates(anchor contracts.Series, start time.Time) []time.Time {
	return anchor.Since(start).Dates()
}

// Cursor answers ClosestValue queries for a non-decreasing sequence of
// targets in amortized O(1). A target earlier than the previous one falls
// back to binary search.
type Cursor struct {
	series contracts.Series
	pos    int // number of observations with date <= last target
	last   time.Time
}

// NewCursor creates a cursor positioned before the first observation
func NewCursor(s contracts.Series) *Cursor {
	return &Cursor{series: s}
}

// Value returns ClosestValue(series, target)
func (c *Cursor) Value(target time.Time) float64 {
	target = contracts.Day(target)

	if target.Before(c.last) {
		c.pos = sort.Search(c.series.Len(), func(i int) bool {
			return c.series.At(i).Date.After(target)
		})
	} else {
		for c.pos < c.series.Len() && !c.series.At(c.pos).Date.After(target) {
			c.pos++
		}
	}
	c.last = target

	if c.pos == 0 {
		return 0
	}
	return c.series.At(c.pos - 1).Value
}

// Aligner builds snapshots for a fixed indicator set
type Aligner struct {
	indicators []contracts.Indicator
}

// New creates an Aligner for the given indicators
func New(indicators []contracts.Indicator) *Aligner {
	inds := make([]contracts.Indicator, len(indicators))
	copy(inds, indicators)
	return &Aligner{indicators: inds}
}

// Snapshot aligns every indicator onto date. Indicators without a series,
// or without an observation at/before date, read as 0.
func (a *Aligner) Snapshot(series map[contracts.Indicator]contracts.Series, date time.Time) contracts.Snapshot {
	snap := contracts.NewSnapshot(date)
	for _, ind := range a.indicators {
		snap.Values[ind] = ClosestValue(series[ind], date)
	}
	return snap
}

// Walk aligns every indicator onto each date (ascending) using one cursor per
// series, calling fn with each snapshot. fn returning false stops the walk.
func (a *Aligner) Walk(series map[contracts.Indicator]contracts.Series, dates []time.Time, fn func(contracts.Snapshot) bool) {
	cursors := make(map[contracts.Indicator]*Cursor, len(a.indicators))
	for _, ind := range a.indicators {
		cursors[ind] = NewCursor(series[ind])
	}

	for _, date := range dates {
		snap := contracts.NewSnapshot(date)
		for _, ind := range a.indicators {
			snap.Values[ind] = cursors[ind].Value(date)
		}
		if !fn(snap) {
			return
		}
	}
}
