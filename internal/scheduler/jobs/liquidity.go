package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/monitor"
	"github.com/wonny/liquidity/pkg/logger"
)

// Analyzer runs the live composite analysis (monitor.Service)
type Analyzer interface {
	Analyze(ctx context.Context) (contracts.CompositeResult, error)
}

// MoneyMarketReader takes a money-market reading (monitor.Service)
type MoneyMarketReader interface {
	MoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error)
}

// AlertChecker evaluates and delivers alerts (monitor.Service)
type AlertChecker interface {
	CheckAlerts(ctx context.Context) (monitor.AlertReport, error)
}

// LiveUpdateJob refreshes the composite score once a day
type LiveUpdateJob struct {
	analyzer    Analyzer
	moneyMarket MoneyMarketReader
	schedule    string
	logger      *logger.Logger
}

// NewLiveUpdateJob creates the daily update job. moneyMarket may be nil.
func NewLiveUpdateJob(analyzer Analyzer, moneyMarket MoneyMarketReader, schedule string, log *logger.Logger) *LiveUpdateJob {
	return &LiveUpdateJob{
		analyzer:    analyzer,
		moneyMarket: moneyMarket,
		schedule:    schedule,
		logger:      log.WithField("job", "live_update"),
	}
}

// Name returns the job name
func (j *LiveUpdateJob) Name() string {
	return "live_update"
}

// Schedule returns the cron schedule
func (j *LiveUpdateJob) Schedule() string {
	return j.schedule
}

// Run executes the job
func (j *LiveUpdateJob) Run(ctx context.Context) error {
	result, err := j.analyzer.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":     result.Timestamp.Format("2006-01-02"),
		"score":    result.Score,
		"signal":   result.Signal.String(),
		"degraded": result.IsDegraded(),
	}).Info("Live update complete")

	// 머니마켓은 부가 정보: 실패해도 작업은 성공
	if j.moneyMarket != nil {
		reading, err := j.moneyMarket.MoneyMarket(ctx)
		if err != nil {
			j.logger.WithField("error", err.Error()).Warn("Money market reading failed")
			return nil
		}
		j.logger.WithField("condition", string(reading.Condition)).Info("Money market reading stored")
	}

	return nil
}

// AlertCheckJob evaluates alert rules every couple of hours
type AlertCheckJob struct {
	checker  AlertChecker
	schedule string
	logger   *logger.Logger
}

// NewAlertCheckJob creates the alert check job
func NewAlertCheckJob(checker AlertChecker, schedule string, log *logger.Logger) *AlertCheckJob {
	return &AlertCheckJob{
		checker:  checker,
		schedule: schedule,
		logger:   log.WithField("job", "alert_check"),
	}
}

// Name returns the job name
func (j *AlertCheckJob) Name() string {
	return "alert_check"
}

// Schedule returns the cron schedule
func (j *AlertCheckJob) Schedule() string {
	return j.schedule
}

// Run executes the job
func (j *AlertCheckJob) Run(ctx context.Context) error {
	report, err := j.checker.CheckAlerts(ctx)
	if err != nil {
		return fmt.Errorf("check alerts: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"alerts":   len(report.Alerts),
		"notified": report.Notified,
	}).Debug("Alert check finished")

	return nil
}
