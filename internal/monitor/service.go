// Package monitor is the application layer: live analysis, backfill,
// alert checks and the money-market reading, each persisted through
// contracts.HistoryStore. CLI commands, cron jobs and HTTP handlers all
// call into this package.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/liquidity/internal/alert"
	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/history"
	"github.com/wonny/liquidity/internal/moneymarket"
	"github.com/wonny/liquidity/internal/scoring"
	"github.com/wonny/liquidity/pkg/logger"
	"github.com/wonny/liquidity/pkg/metrics"
)

// ErrComputation wraps a recovered panic
var ErrComputation = errors.New("computation failed")

// SeriesFetcher is the fetcher surface the service needs (fetcher.Service)
type SeriesFetcher interface {
	contracts.Fetcher
	FetchSeriesSet(ctx context.Context, inds []contracts.Indicator, start time.Time) map[contracts.Indicator]contracts.Series
}

// Options holds optional collaborators
type Options struct {
	Notifier    contracts.Notifier
	Recipient   string
	MoneyMarket *moneymarket.Monitor
	Metrics     *metrics.Recorder
	Lookback    time.Duration // live analysis window, default 180 days
	WarmUp      time.Duration // fetched before the first reference date, default 90 days
}

// RunRecorder writes a run's history rows and replaces the latest row in one
// transaction (storage.Repository). Stores without it get two separate writes.
type RunRecorder interface {
	RecordRun(ctx context.Context, runID string, results []contracts.CompositeResult) error
}

// Service runs the liquidity use cases
// ⭐ SSOT: 분석/백필/알림 흐름은 여기서만
type Service struct {
	fetcher       SeriesFetcher
	engine        *scoring.Engine
	reconstructor *history.Reconstructor
	evaluator     *alert.Evaluator
	store         contracts.HistoryStore
	opts          Options
	logger        *logger.Logger
	now           func() time.Time

	mu        sync.RWMutex
	listeners []func(contracts.CompositeResult)
}

// NewService creates the service. store may be nil for read-only use.
func NewService(
	fetcher SeriesFetcher,
	engine *scoring.Engine,
	store contracts.HistoryStore,
	opts Options,
	log *logger.Logger,
) *Service {
	if opts.Lookback <= 0 {
		opts.Lookback = 180 * 24 * time.Hour
	}
	if opts.WarmUp <= 0 {
		opts.WarmUp = 90 * 24 * time.Hour
	}
	return &Service{
		fetcher:       fetcher,
		engine:        engine,
		reconstructor: history.New(engine),
		evaluator:     alert.New(engine.Config().Alerts),
		store:         store,
		opts:          opts,
		logger:        log.WithField("module", "monitor"),
		now:           time.Now,
	}
}

// Subscribe registers fn to receive every new live result
func (s *Service) Subscribe(fn func(contracts.CompositeResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) publish(r contracts.CompositeResult) {
	s.mu.RLock()
	listeners := append([]func(contracts.CompositeResult){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(r)
	}
}

// fetchFrom fetches every scored indicator from start minus the warm-up, so
// monthly and daily series carry an observation dated before start into the
// first reference dates.
func (s *Service) fetchFrom(ctx context.Context, start time.Time) map[contracts.Indicator]contracts.Series {
	return s.fetcher.FetchSeriesSet(ctx, s.engine.Config().ScoredIndicators(), start.Add(-s.opts.WarmUp))
}

// persistRun appends results under runID and makes the last one the latest row
func (s *Service) persistRun(ctx context.Context, runID string, results []contracts.CompositeResult) error {
	if rr, ok := s.store.(RunRecorder); ok {
		if err := rr.RecordRun(ctx, runID, results); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		return nil
	}

	if err := s.store.AppendResults(ctx, runID, results); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	// history rows are committed at this point
	if err := s.store.UpsertLatest(ctx, results[len(results)-1]); err != nil {
		return fmt.Errorf("upsert latest: %w", err)
	}
	return nil
}

// recoverDegraded turns a panic into a degraded result
func (s *Service) recoverDegraded(op string, result *contracts.CompositeResult) {
	if rec := recover(); rec != nil {
		err := fmt.Errorf("%w: %v", ErrComputation, rec)
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"operation": op,
			"stack":     string(debug.Stack()),
		}).Error("Recovered panic")
		*result = contracts.Degraded(s.now(), err)
	}
}

// Compute scores the latest reference date against the previous one without
// persisting anything. No anchor data yields ErrInsufficientData.
func (s *Service) Compute(ctx context.Context) (result contracts.CompositeResult, err error) {
	defer s.recoverDegraded("compute", &result)

	start := contracts.Day(s.now().Add(-s.opts.Lookback))
	series := s.fetchFrom(ctx, start)

	dates := s.reconstructor.ReferenceDates(series, start)
	if len(dates) == 0 {
		err := fmt.Errorf("%w: no %s data since %s",
			history.ErrInsufficientData, s.engine.Config().Anchor, start.Format(contracts.DateLayout))
		return contracts.Degraded(s.now(), err), err
	}

	// 마지막 두 기준일만 계산 (WoW)
	from := dates[max(0, len(dates)-2)]
	for r := range s.reconstructor.Results(series, from) {
		result = r
	}
	return result, nil
}

// Analyze runs a live analysis, appends it to history and replaces the latest row
func (s *Service) Analyze(ctx context.Context) (result contracts.CompositeResult, err error) {
	defer s.recoverDegraded("analyze", &result)

	result, err = s.Compute(ctx)
	if err != nil || result.IsDegraded() {
		return result, err
	}

	s.opts.Metrics.RecordScore(float64(result.Score), result.Components.Factors())
	s.logger.WithFields(map[string]interface{}{
		"date":   result.Timestamp.Format(contracts.DateLayout),
		"score":  result.Score,
		"signal": result.Signal.String(),
	}).Info("Live analysis complete")

	if s.store != nil {
		if err := s.persistRun(ctx, uuid.NewString(), []contracts.CompositeResult{result}); err != nil {
			return result, err
		}
	}

	s.publish(result)
	return result, nil
}

// BackfillReport summarizes a backfill run
type BackfillReport struct {
	RunID   string                      `json:"run_id"`
	Start   time.Time                   `json:"start"`
	Count   int                         `json:"count"`
	DryRun  bool                        `json:"dry_run"`
	First   time.Time                   `json:"first,omitempty"`
	Last    time.Time                   `json:"last,omitempty"`
	Results []contracts.CompositeResult `json:"results,omitempty"`
}

// Backfill reconstructs history from start. Series are fetched from before
// start so the first rows see the last earlier observation. History rows and
// the latest row are written in one transaction when the store supports it;
// ErrInsufficientData (no anchor dates) writes nothing.
// dryRun computes without writing and returns the rows.
func (s *Service) Backfill(ctx context.Context, start time.Time, dryRun bool) (report BackfillReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrComputation, rec)
			s.logger.WithError(err).Error("Recovered panic in backfill")
		}
	}()

	start = contracts.Day(start)
	report = BackfillReport{RunID: uuid.NewString(), Start: start, DryRun: dryRun}

	series := s.fetchFrom(ctx, start)
	results, err := s.reconstructor.Reconstruct(ctx, series, start)
	if err != nil {
		return report, err
	}

	report.Count = len(results)
	report.First = results[0].Timestamp
	report.Last = results[len(results)-1].Timestamp

	if dryRun || s.store == nil {
		report.Results = results
		return report, nil
	}

	if err := s.persistRun(ctx, report.RunID, results); err != nil {
		return report, fmt.Errorf("backfill: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id": report.RunID,
		"start":  start.Format(contracts.DateLayout),
		"count":  report.Count,
	}).Info("Backfill complete")

	return report, nil
}

// AlertReport is the outcome of one alert check
type AlertReport struct {
	BatchID  string                    `json:"batch_id"`
	Result   contracts.CompositeResult `json:"result"`
	Alerts   []contracts.Alert         `json:"alerts"`
	Notified bool                      `json:"notified"`
}

// CheckAlerts computes the current result, evaluates the alert rules, records
// one row per alert and e-mails the bundle. Delivery failures are logged only.
func (s *Service) CheckAlerts(ctx context.Context) (report AlertReport, err error) {
	defer s.recoverDegraded("check_alerts", &report.Result)

	result, err := s.Compute(ctx)
	if err != nil {
		return AlertReport{Result: result}, err
	}

	report = AlertReport{
		BatchID: uuid.NewString(),
		Result:  result,
		Alerts:  s.evaluator.Evaluate(result),
	}
	if len(report.Alerts) == 0 {
		s.logger.WithField("score", result.Score).Info("No alerts triggered")
		return report, nil
	}

	at := s.now()
	records := make([]contracts.AlertRecord, len(report.Alerts))
	for i, a := range report.Alerts {
		records[i] = contracts.AlertRecord{
			BatchID:   report.BatchID,
			Timestamp: at,
			Score:     result.Score,
			Signal:    result.Signal,
			Alert:     a,
		}
		s.opts.Metrics.RecordAlert(string(a.Type))
	}

	if s.store != nil {
		if err := s.store.AppendAlerts(ctx, records); err != nil {
			return report, fmt.Errorf("append alerts: %w", err)
		}
	}

	if s.opts.Notifier != nil && s.opts.Recipient != "" {
		if err := s.opts.Notifier.Send(ctx, s.opts.Recipient, report.Alerts, result); err != nil {
			s.logger.WithError(err).Warn("Alert delivery failed")
		} else {
			report.Notified = true
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"batch_id": report.BatchID,
		"alerts":   len(report.Alerts),
		"notified": report.Notified,
	}).Info("Alert check complete")

	return report, nil
}

// MoneyMarket takes a US money-market reading and persists it
func (s *Service) MoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error) {
	if s.opts.MoneyMarket == nil {
		return contracts.MoneyMarketReading{}, errors.New("money market monitor not configured")
	}

	reading, err := s.opts.MoneyMarket.Read(ctx)
	if err != nil {
		return reading, err
	}

	if s.store != nil {
		if err := s.store.AppendMoneyMarket(ctx, reading); err != nil {
			return reading, fmt.Errorf("append money market: %w", err)
		}
	}
	return reading, nil
}
