// Package history rebuilds the composite score over a date range by
// aligning every series onto the anchor's reference dates.
package history

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/wonny/liquidity/internal/align"
	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoring"
)

// ErrInsufficientData is returned when the anchor series has no observation
// on or after the start date. Nothing must be persisted in that case.
var ErrInsufficientData = errors.New("insufficient data")

// Reconstructor drives the aligner and the scoring engine over a date range
type Reconstructor struct {
	engine  *scoring.Engine
	aligner *align.Aligner
	anchor  contracts.Indicator
}

// New creates a Reconstructor aligning every scored indicator
func New(engine *scoring.Engine) *Reconstructor {
	cfg := engine.Config()
	return &Reconstructor{
		engine:  engine,
		aligner: align.New(cfg.ScoredIndicators()),
		anchor:  cfg.Anchor,
	}
}

// ReferenceDates returns the anchor dates on or after start
func (r *Reconstructor) ReferenceDates(series map[contracts.Indicator]contracts.Series, start time.Time) []time.Time {
	return align.ReferenceDates(series[r.anchor], start)
}

// Results returns a lazy sequence of results, one per reference date in
// ascending order. Each iteration recomputes from start; identical inputs
// yield identical sequences. WoW deltas compare against the previous
// reference date; the first date compares against itself.
func (r *Reconstructor) Results(series map[contracts.Indicator]contracts.Series, start time.Time) iter.Seq[contracts.CompositeResult] {
	return func(yield func(contracts.CompositeResult) bool) {
		dates := r.ReferenceDates(series, start)

		var prev contracts.Snapshot
		first := true
		r.aligner.Walk(series, dates, func(cur contracts.Snapshot) bool {
			if first {
				prev = cur
				first = false
			}
			result := r.engine.Score(cur, prev)
			prev = cur
			return yield(result)
		})
	}
}

// Reconstruct materializes Results. It fails with ErrInsufficientData when
// there is no reference date, and with ctx.Err() when cancelled.
func (r *Reconstructor) Reconstruct(ctx context.Context, series map[contracts.Indicator]contracts.Series, start time.Time) ([]contracts.CompositeResult, error) {
	dates := r.ReferenceDates(series, start)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no %s observations on or after %s",
			ErrInsufficientData, r.anchor, contracts.Day(start).Format(contracts.DateLayout))
	}

	results := make([]contracts.CompositeResult, 0, len(dates))
	for result := range r.Results(series, start) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}
