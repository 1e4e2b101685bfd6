package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/external/fred"
	"github.com/wonny/liquidity/internal/external/nyfed"
	"github.com/wonny/liquidity/internal/fetcher"
	"github.com/wonny/liquidity/internal/moneymarket"
	"github.com/wonny/liquidity/internal/monitor"
	"github.com/wonny/liquidity/internal/notify"
	"github.com/wonny/liquidity/internal/scoring"
	"github.com/wonny/liquidity/internal/scoringconfig"
	"github.com/wonny/liquidity/internal/storage"
	"github.com/wonny/liquidity/pkg/config"
	"github.com/wonny/liquidity/pkg/database"
	"github.com/wonny/liquidity/pkg/httputil"
	"github.com/wonny/liquidity/pkg/logger"
	"github.com/wonny/liquidity/pkg/metrics"
	"github.com/wonny/liquidity/pkg/redis"
)

// app bundles the wired components a command needs
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	location *time.Location
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	redis    *redis.Client
	db       *database.DB
	repo     *storage.Repository
	engine   *scoring.Engine
	fetcher  *fetcher.Service
	monitor  *monitor.Service
}

// newApp wires every component. withDB=false skips PostgreSQL (nothing is persisted).
// ⭐ SSOT: 의존성 조립은 여기서만
func newApp(ctx context.Context, withDB bool) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	a := &app{cfg: cfg, log: log, location: loc}

	// 3. Metrics registry
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if cfg.MetricsEnabled {
		a.metrics = metrics.New(a.registry)
	}

	// 4. Redis (optional, 실패 시 메모리 캐시만 사용)
	a.redis, err = redis.NewWithContext(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without shared cache")
		disabled := *cfg
		disabled.Redis.Enabled = false
		a.redis, _ = redis.New(&disabled)
	}
	shared := redis.NewCache(a.redis, "liquidity")

	// 5. HTTP clients (FRED는 분당 요청 수 제한)
	fredHTTP := httputil.NewWithTimeout(cfg, log, cfg.FRED.Timeout).
		WithRateLimiter(a.fredLimiter())
	nyfedHTTP := httputil.NewWithTimeout(cfg, log, cfg.NYFed.Timeout)

	// 6. External API clients
	fredClient := fred.NewClient(fredHTTP, log, cfg.FRED.BaseURL)
	nyfedClient := nyfed.NewClient(nyfedHTTP, log, cfg.NYFed.BaseURL)

	// 7. Scoring config + engine
	scoringCfg, err := scoringconfig.LoadOrDefault(cfg.Scoring.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	a.engine, err = scoring.New(scoringCfg)
	if err != nil {
		return nil, fmt.Errorf("create scoring engine: %w", err)
	}

	// 8. Fetcher
	a.fetcher = fetcher.NewService(fredClient, nyfedClient, scoringCfg, shared, a.metrics, fetcher.Config{
		Workers:      cfg.FRED.Workers,
		SeriesTTL:    cfg.FRED.CacheTTL,
		OperationTTL: cfg.NYFed.CacheTTL,
	}, log)

	// 9. Database
	var store contracts.HistoryStore
	if withDB {
		a.db, err = database.New(cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.repo = storage.NewRepository(a.db)
		store = a.repo
	}

	// 10. Notifier
	var notifier contracts.Notifier
	if cfg.Alerts.Enabled {
		if cfg.MailConfigured() {
			notifier = notify.NewMailer(cfg.SMTP, loc, log)
		} else {
			log.Warn("ALERTS_ENABLED set but SMTP is not configured, alerts will be stored only")
		}
	}

	// 11. Monitor service
	a.monitor = monitor.NewService(a.fetcher, a.engine, store, monitor.Options{
		Notifier:    notifier,
		Recipient:   cfg.Alerts.Recipient,
		MoneyMarket: moneymarket.NewMonitor(a.fetcher, log),
		Metrics:     a.metrics,
		Lookback:    cfg.Scoring.LiveLookback,
		WarmUp:      cfg.Scoring.WarmUp,
	}, log)

	return a, nil
}

// fredLimiter shares the budget across processes when Redis is up
func (a *app) fredLimiter() httputil.Limiter {
	perMin := a.cfg.FRED.RequestsPerMin
	if perMin < 1 {
		perMin = 60
	}
	if a.redis.Enabled() {
		return redis.NewRateLimiter(a.redis, "liquidity").For(redis.RateLimitConfig{
			Key:    "fred",
			Limit:  perMin,
			Window: time.Minute,
		})
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), a.cfg.FRED.Workers)
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// commandContext returns a context bounded by timeout
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
