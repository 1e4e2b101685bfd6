package moneymarket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/logger"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		spreadBP    float64
		reverseRepo float64
		wow         float64
		balance     float64
		want        contracts.MarketCondition
	}{
		{"large RRP is excess", 12, 350000, -1000, 6000000, contracts.ConditionExcess},
		{"wide spread and shrinking", 10, 150000, -5000, 7000000, contracts.ConditionTight},
		{"tight needs three votes", 5, 250000, -1, 7000000, contracts.ConditionTight},
		{"tight ties easing", 10, 100000, 0, 7000000, contracts.ConditionNeutral},
		{"easing", 2, 100000, 5000, 7000000, contracts.ConditionEasing},
		{"flat everything", 7, 250000, 0, 7000000, contracts.ConditionNeutral},
		{"small balance sheet adds tight", 7, 250000, -1, 6000000, contracts.ConditionTight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.spreadBP, tt.reverseRepo, tt.wow, tt.balance)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s (votes %+v)", got, tt.want,
					Tally(tt.spreadBP, tt.reverseRepo, tt.wow, tt.balance))
			}
		})
	}
}

func TestTally(t *testing.T) {
	v := Tally(10, 200000, -1, 6000000)
	assert.Equal(t, Votes{Tight: 6, Easing: 0, Excess: 0}, v)

	v = Tally(4.99, 199999, 1, 6500000)
	assert.Equal(t, Votes{Tight: 0, Easing: 4, Excess: 0}, v)
}

func TestSpreadBP(t *testing.T) {
	assert.InDelta(t, -7.0, SpreadBP(5.33, 5.40), 1e-9)
	assert.InDelta(t, 0.0, SpreadBP(0, 0), 1e-9)
}

type stubSource struct {
	series map[contracts.Indicator]contracts.Series
	latest map[contracts.Indicator]float64
	srf    contracts.Operation
	srfErr error
}

func (s *stubSource) GetSeries(ctx context.Context, ind contracts.Indicator, start time.Time) contracts.Series {
	return s.series[ind]
}

func (s *stubSource) GetLatest(ctx context.Context, ind contracts.Indicator) contracts.Observation {
	v, ok := s.latest[ind]
	if !ok {
		return contracts.Observation{Err: errors.New("unavailable")}
	}
	return contracts.Observation{Value: v}
}

func (s *stubSource) LatestSRF(ctx context.Context) (contracts.Operation, error) {
	return s.srf, s.srfErr
}

func day(s string) time.Time {
	d, _ := contracts.ParseDay(s)
	return d
}

func balanceSeries() contracts.Series {
	return contracts.NewSeries([]contracts.Observation{
		{Date: day("2024-12-18"), Value: 6900000},
		{Date: day("2024-12-25"), Value: 6885000},
	})
}

func TestMonitor_Read(t *testing.T) {
	src := &stubSource{
		series: map[contracts.Indicator]contracts.Series{contracts.BalanceSheet: balanceSeries()},
		latest: map[contracts.Indicator]float64{
			contracts.SOFR:            4.49,
			contracts.EFFR:            4.33,
			contracts.IORB:            4.40,
			contracts.ReverseRepo:     250000,
			contracts.TreasuryAccount: 720000,
		},
		srf: contracts.Operation{Accepted: 5500},
	}
	m := NewMonitor(src, logger.Nop())

	r, err := m.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day("2024-12-25"), r.Date)
	assert.Equal(t, 6885000.0, r.BalanceSheet)
	assert.Equal(t, -15000.0, r.BalanceWoW)
	assert.InDelta(t, 9.0, r.SpreadBP, 1e-9)
	assert.Equal(t, 5500.0, r.SRFAccepted)
	assert.Empty(t, r.Errors)
	// RRP tight+1, WoW tight+2, spread neutral
	assert.Equal(t, contracts.ConditionTight, r.Condition)
}

func TestMonitor_ReadPartial(t *testing.T) {
	src := &stubSource{
		series: map[contracts.Indicator]contracts.Series{contracts.BalanceSheet: balanceSeries()},
		latest: map[contracts.Indicator]float64{contracts.ReverseRepo: 400000},
		srfErr: errors.New("no standing repo operation"),
	}
	m := NewMonitor(src, logger.Nop())

	r, err := m.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.SOFR)
	assert.Equal(t, 0.0, r.SRFAccepted)
	assert.Len(t, r.Errors, 5) // sofr, effr, iorb, tga, srf
	assert.Equal(t, contracts.ConditionExcess, r.Condition)
}

func TestMonitor_NoBalanceSheet(t *testing.T) {
	src := &stubSource{
		series: map[contracts.Indicator]contracts.Series{
			contracts.BalanceSheet: contracts.NewSeries([]contracts.Observation{{Date: day("2024-12-25"), Value: 1}}),
		},
	}
	m := NewMonitor(src, logger.Nop())

	_, err := m.Read(context.Background())
	assert.ErrorIs(t, err, ErrBalanceSheetUnavailable)
}
