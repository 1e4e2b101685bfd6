package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoringconfig"
	"github.com/wonny/liquidity/pkg/logger"
	"github.com/wonny/liquidity/pkg/metrics"
	"github.com/wonny/liquidity/pkg/redis"
)

// latestWindow bounds GetLatest downloads. Covers monthly series with publication lag.
const latestWindow = 400 * 24 * time.Hour

// ErrUnknownIndicator is returned for indicators without a configured series id
var ErrUnknownIndicator = errors.New("no series id configured")

// SeriesSource downloads one provider series (fred.Client)
type SeriesSource interface {
	FetchSeries(ctx context.Context, seriesID string, start time.Time) (contracts.Series, error)
}

// OperationSource reads the latest standing repo operation (nyfed.Client)
type OperationSource interface {
	LatestSRF(ctx context.Context) (contracts.Operation, error)
}

// Config holds fetcher tuning
type Config struct {
	Workers      int
	SeriesTTL    time.Duration
	OperationTTL time.Duration
}

// Service implements contracts.Fetcher over FRED and the NY Fed with a
// two-layer cache (in-process, then Redis). Failures never escape as errors.
// ⭐ SSOT: 외부 지표 조회는 이 서비스를 통해서만
type Service struct {
	series  SeriesSource
	ops     OperationSource
	symbols *scoringconfig.Config
	memory  *SeriesCache
	shared  *redis.Cache
	metrics *metrics.Recorder
	logger  *logger.Logger
	cfg     Config
	now     func() time.Time

	opMu     sync.Mutex
	lastOp   *contracts.Operation
	lastOpAt time.Time
}

var _ contracts.Fetcher = (*Service)(nil)

// NewService creates a fetcher. shared and rec may be nil.
func NewService(
	series SeriesSource,
	ops OperationSource,
	symbols *scoringconfig.Config,
	shared *redis.Cache,
	rec *metrics.Recorder,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log = log.WithField("module", "fetcher")
	return &Service{
		series:  series,
		ops:     ops,
		symbols: symbols,
		memory:  NewSeriesCache(cfg.SeriesTTL, log),
		shared:  shared,
		metrics: rec,
		logger:  log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// GetSeries returns ind from start. Empty on any failure (logged, counted).
func (s *Service) GetSeries(ctx context.Context, ind contracts.Indicator, start time.Time) contracts.Series {
	series, err := s.fetchSeries(ctx, ind, start)
	if err != nil {
		s.logger.WithError(err).WithField("indicator", ind).Warn("Series fetch failed, using empty series")
		return contracts.Series{}
	}
	return series
}

// GetLatest returns the last observation of ind. On failure the value is the
// zero sentinel and Err is set.
func (s *Service) GetLatest(ctx context.Context, ind contracts.Indicator) contracts.Observation {
	start := contracts.Day(s.now().Add(-latestWindow))
	series, err := s.fetchSeries(ctx, ind, start)
	if err != nil {
		s.logger.WithError(err).WithField("indicator", ind).Warn("Latest value unavailable, using 0")
		return contracts.Observation{Date: contracts.Day(s.now()), Err: err}
	}

	last, ok := series.Last()
	if !ok {
		err := fmt.Errorf("%s: no observations", ind)
		return contracts.Observation{Date: contracts.Day(s.now()), Err: err}
	}
	return last
}

// FetchSeriesSet downloads every indicator concurrently and joins the results.
// Failed indicators map to empty series.
func (s *Service) FetchSeriesSet(ctx context.Context, inds []contracts.Indicator, start time.Time) map[contracts.Indicator]contracts.Series {
	var mu sync.Mutex
	out := make(map[contracts.Indicator]contracts.Series, len(inds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, ind := range inds {
		g.Go(func() error {
			series := s.GetSeries(gctx, ind, start)
			mu.Lock()
			out[ind] = series
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	failed := 0
	for _, series := range out {
		if series.IsEmpty() {
			failed++
		}
	}
	s.logger.WithFields(map[string]interface{}{
		"indicators": len(inds),
		"failed":     failed,
		"start":      start.Format(contracts.DateLayout),
	}).Info("Series set fetched")

	return out
}

// LatestSRF returns the latest Standing Repo Facility operation, cached for OperationTTL.
// On failure Accepted is 0 and the error is returned for the caller's error list.
func (s *Service) LatestSRF(ctx context.Context) (contracts.Operation, error) {
	s.opMu.Lock()
	if s.lastOp != nil && s.now().Sub(s.lastOpAt) <= s.cfg.OperationTTL {
		op := *s.lastOp
		s.opMu.Unlock()
		s.metrics.RecordCacheLookup("memory", true)
		return op, nil
	}
	s.opMu.Unlock()

	key := redis.OperationKey("srf")
	var op contracts.Operation
	if hit, err := s.shared.Get(ctx, key, &op); err != nil {
		s.logger.WithError(err).Debug("Shared cache read failed")
	} else if hit {
		s.metrics.RecordCacheLookup("redis", true)
		s.rememberOp(op)
		return op, nil
	}

	if s.ops == nil {
		return contracts.Operation{}, errors.New("no operation source configured")
	}

	started := time.Now()
	op, err := s.ops.LatestSRF(ctx)
	s.metrics.RecordFetchLatency("nyfed", time.Since(started).Seconds())
	if err != nil {
		s.metrics.RecordFetch("SRF", "error")
		return contracts.Operation{}, err
	}
	s.metrics.RecordFetch("SRF", "ok")

	s.rememberOp(op)
	if err := s.shared.Set(ctx, key, op, s.cfg.OperationTTL); err != nil {
		s.logger.WithError(err).Debug("Shared cache write failed")
	}
	return op, nil
}

// ClearCache drops every cached series from both layers
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	n := s.memory.Clear()

	s.opMu.Lock()
	s.lastOp = nil
	s.opMu.Unlock()

	shared, err := s.shared.Clear(ctx)
	if err != nil {
		return n, fmt.Errorf("clear shared cache: %w", err)
	}
	return n + shared, nil
}

// Cleanup evicts expired in-process entries
func (s *Service) Cleanup() int {
	return s.memory.CleanExpired()
}

// CacheStats reports the in-process cache
func (s *Service) CacheStats() CacheStats {
	return s.memory.Stats()
}

func (s *Service) rememberOp(op contracts.Operation) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.lastOp = &op
	s.lastOpAt = s.now()
}

func (s *Service) fetchSeries(ctx context.Context, ind contracts.Indicator, start time.Time) (contracts.Series, error) {
	seriesID, ok := s.symbols.SeriesID(ind)
	if !ok {
		return contracts.Series{}, fmt.Errorf("%s: %w", ind, ErrUnknownIndicator)
	}

	start = contracts.Day(start)
	key := cacheKey(seriesID, start)

	// 1. in-process
	if series, hit := s.memory.Get(key); hit {
		s.metrics.RecordCacheLookup("memory", true)
		s.metrics.RecordFetch(seriesID, "cached")
		return series, nil
	}
	s.metrics.RecordCacheLookup("memory", false)

	// 2. shared (Redis)
	if s.shared.Enabled() {
		var series contracts.Series
		hit, err := s.shared.Get(ctx, key, &series)
		if err != nil {
			s.logger.WithError(err).WithField("series_id", seriesID).Debug("Shared cache read failed")
		}
		s.metrics.RecordCacheLookup("redis", hit)
		if hit && !series.IsEmpty() {
			s.memory.Set(key, series)
			s.metrics.RecordFetch(seriesID, "cached")
			return series, nil
		}
	}

	// 3. provider
	started := time.Now()
	series, err := s.series.FetchSeries(ctx, seriesID, start)
	s.metrics.RecordFetchLatency("fred", time.Since(started).Seconds())
	if err != nil {
		s.metrics.RecordFetch(seriesID, "error")
		return contracts.Series{}, err
	}
	s.metrics.RecordFetch(seriesID, "ok")

	s.memory.Set(key, series)
	if err := s.shared.Set(ctx, key, series, s.cfg.SeriesTTL); err != nil {
		s.logger.WithError(err).WithField("series_id", seriesID).Debug("Shared cache write failed")
	}

	return series, nil
}

func cacheKey(seriesID string, start time.Time) string {
	if start.IsZero() {
		return redis.SeriesKey(seriesID)
	}
	return redis.SeriesKey(seriesID) + ":" + start.Format(contracts.DateLayout)
}
