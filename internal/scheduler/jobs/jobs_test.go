package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/monitor"
	"github.com/wonny/liquidity/pkg/logger"
)

type stubMonitor struct {
	analyzeErr error
	mmErr      error
	alertErr   error

	analyzed int
	read     int
	checked  int
}

func (s *stubMonitor) Analyze(ctx context.Context) (contracts.CompositeResult, error) {
	s.analyzed++
	if s.analyzeErr != nil {
		return contracts.Degraded(time.Now(), s.analyzeErr), s.analyzeErr
	}
	return contracts.CompositeResult{Score: 12, Signal: contracts.SignalNeutral}, nil
}

func (s *stubMonitor) MoneyMarket(ctx context.Context) (contracts.MoneyMarketReading, error) {
	s.read++
	return contracts.MoneyMarketReading{Condition: contracts.ConditionNeutral}, s.mmErr
}

func (s *stubMonitor) CheckAlerts(ctx context.Context) (monitor.AlertReport, error) {
	s.checked++
	return monitor.AlertReport{}, s.alertErr
}

type stubCache struct{ calls int }

func (c *stubCache) Cleanup() int {
	c.calls++
	return 3
}

func TestLiveUpdateJob(t *testing.T) {
	tests := []struct {
		name       string
		analyzeErr error
		mmErr      error
		wantErr    bool
		wantReads  int
	}{
		{"both succeed", nil, nil, false, 1},
		{"money market failure is tolerated", nil, errors.New("nyfed down"), false, 1},
		{"analysis failure fails the job", errors.New("fred down"), nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &stubMonitor{analyzeErr: tt.analyzeErr, mmErr: tt.mmErr}
			job := NewLiveUpdateJob(m, m, "0 0 17 * * *", logger.Nop())

			err := job.Run(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, m.analyzed)
			assert.Equal(t, tt.wantReads, m.read)
		})
	}
}

func TestLiveUpdateJob_WithoutMoneyMarket(t *testing.T) {
	m := &stubMonitor{}
	job := NewLiveUpdateJob(m, nil, "@daily", logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "live_update", job.Name())
	assert.Equal(t, "@daily", job.Schedule())
	assert.Zero(t, m.read)
}

func TestAlertCheckJob(t *testing.T) {
	m := &stubMonitor{}
	job := NewAlertCheckJob(m, "0 0 */2 * * *", logger.Nop())
	assert.Equal(t, "alert_check", job.Name())
	require.NoError(t, job.Run(context.Background()))

	m.alertErr = errors.New("store unavailable")
	assert.Error(t, job.Run(context.Background()))
	assert.Equal(t, 2, m.checked)
}

func TestCacheCleanupJob(t *testing.T) {
	c := &stubCache{}
	job := NewCacheCleanupJob(c, "", logger.Nop())

	assert.Equal(t, "cache_cleanup", job.Name())
	assert.Equal(t, "0 */5 * * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, c.calls)
}
