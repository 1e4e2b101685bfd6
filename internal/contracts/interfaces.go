package contracts

import (
	"context"
	"time"
)

// Fetcher retrieves indicator data. Failures never surface as errors:
// GetLatest returns a zero Observation with Err set, GetSeries an empty Series.
// ⭐ SSOT: 외부 데이터 조회 인터페이스
type Fetcher interface {
	GetLatest(ctx context.Context, ind Indicator) Observation
	GetSeries(ctx context.Context, ind Indicator, start time.Time) Series
}

// HistoryStore persists results. History is append-only;
// the latest tables hold exactly one row that is overwritten.
// ⭐ SSOT: 저장 인터페이스
type HistoryStore interface {
	AppendResults(ctx context.Context, runID string, results []CompositeResult) error
	UpsertLatest(ctx context.Context, result CompositeResult) error
	AppendMoneyMarket(ctx context.Context, reading MoneyMarketReading) error
	AppendAlerts(ctx context.Context, records []AlertRecord) error
}

// Notifier delivers an alert bundle. Callers log failures and continue.
type Notifier interface {
	Send(ctx context.Context, recipient string, alerts []Alert, result CompositeResult) error
}
