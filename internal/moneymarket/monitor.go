package moneymarket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/logger"
)

// balanceLookback covers at least two weekly balance sheet releases
const balanceLookback = 60 * 24 * time.Hour

// ErrBalanceSheetUnavailable means fewer than two balance sheet observations were returned
var ErrBalanceSheetUnavailable = errors.New("balance sheet history unavailable")

// Source is what the monitor reads from (fetcher.Service)
type Source interface {
	contracts.Fetcher
	LatestSRF(ctx context.Context) (contracts.Operation, error)
}

// Monitor builds US money-market readings
// ⭐ SSOT: 미국 단기자금시장 판단은 여기서만
type Monitor struct {
	source Source
	logger *logger.Logger
	now    func() time.Time
}

// NewMonitor creates a new money-market monitor
func NewMonitor(source Source, log *logger.Logger) *Monitor {
	return &Monitor{
		source: source,
		logger: log.WithField("module", "moneymarket"),
		now:    time.Now,
	}
}

// Read takes one reading. Missing rates or balances fall back to 0 and are
// listed in Errors; only a missing balance sheet history fails the reading.
func (m *Monitor) Read(ctx context.Context) (contracts.MoneyMarketReading, error) {
	now := m.now()

	// 1. balance sheet: last two observations give WoW
	balance := m.source.GetSeries(ctx, contracts.BalanceSheet, now.Add(-balanceLookback))
	if balance.Len() < 2 {
		return contracts.MoneyMarketReading{}, ErrBalanceSheetUnavailable
	}
	current := balance.At(balance.Len() - 1)
	weekAgo := balance.At(balance.Len() - 2)

	reading := contracts.MoneyMarketReading{
		Timestamp:    now,
		Date:         current.Date,
		BalanceSheet: current.Value,
		BalanceWoW:   current.Value - weekAgo.Value,
	}

	// 2. rates and balances
	latest := func(ind contracts.Indicator) float64 {
		obs := m.source.GetLatest(ctx, ind)
		if obs.Failed() {
			reading.Errors = append(reading.Errors, fmt.Sprintf("%s: %v", ind, obs.Err))
		}
		return obs.Value
	}
	reading.SOFR = latest(contracts.SOFR)
	reading.EFFR = latest(contracts.EFFR)
	reading.IORB = latest(contracts.IORB)
	reading.ReverseRepo = latest(contracts.ReverseRepo)
	reading.TGA = latest(contracts.TreasuryAccount)

	// 3. standing repo facility
	op, err := m.source.LatestSRF(ctx)
	if err != nil {
		reading.Errors = append(reading.Errors, fmt.Sprintf("srf: %v", err))
	} else {
		reading.SRFAccepted = op.Accepted
	}

	// 4. 신호 판단
	reading.SpreadBP = SpreadBP(reading.SOFR, reading.IORB)
	reading.Condition = Classify(reading.SpreadBP, reading.ReverseRepo, reading.BalanceWoW, reading.BalanceSheet)

	m.logger.WithFields(map[string]interface{}{
		"date":      reading.Date.Format(contracts.DateLayout),
		"spread_bp": reading.SpreadBP,
		"condition": reading.Condition,
		"errors":    len(reading.Errors),
	}).Info("Money market reading")

	return reading, nil
}
