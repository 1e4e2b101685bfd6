package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/liquidity/internal/align"
	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoring"
)

// Region names a detail view
type Region string

const (
	RegionChina Region = "china"
	RegionJapan Region = "japan"
	RegionTGA   Region = "tga"
	RegionDXY   Region = "dxy"
	RegionEM    Region = "em"
)

// Regions lists the supported detail views
func Regions() []Region {
	return []Region{RegionChina, RegionJapan, RegionTGA, RegionDXY, RegionEM}
}

// ParseRegion validates a region name
func ParseRegion(name string) (Region, error) {
	for _, r := range Regions() {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q (china, japan, tga, dxy, em)", name)
}

const detailWindow = 400 * 24 * time.Hour

// Metric is one displayed number
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Detail is a regional drill-down. Display only.
type Detail struct {
	Region     Region    `json:"region"`
	AsOf       time.Time `json:"as_of"`
	Metrics    []Metric  `json:"metrics"`
	Assessment string    `json:"assessment"`
	Secondary  string    `json:"secondary,omitempty"`
	Errors     []string  `json:"errors,omitempty"`
}

// Detail builds the drill-down for region. Missing data reads as 0 and is listed in Errors.
func (s *Service) Detail(ctx context.Context, region Region) (detail Detail, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrComputation, rec)
			s.logger.WithError(err).Error("Recovered panic in detail")
		}
	}()

	now := s.now()
	detail = Detail{Region: region, AsOf: contracts.Day(now)}

	latest := func(ind contracts.Indicator) float64 {
		obs := s.fetcher.GetLatest(ctx, ind)
		if obs.Failed() {
			detail.Errors = append(detail.Errors, fmt.Sprintf("%s: %v", ind, obs.Err))
		}
		return obs.Value
	}

	// 현재값과 N일 전 값의 차이
	change := func(ind contracts.Indicator, days int) (current, delta float64) {
		series := s.fetcher.GetSeries(ctx, ind, now.Add(-detailWindow))
		last, ok := series.Last()
		if !ok {
			detail.Errors = append(detail.Errors, fmt.Sprintf("%s: no data", ind))
			return 0, 0
		}
		past := align.ClosestValue(series, contracts.Day(now.AddDate(0, 0, -days)))
		return last.Value, last.Value - past
	}

	switch region {
	case RegionChina:
		m2 := latest(contracts.MoneySupplyGrowth)
		detail.Metrics = []Metric{
			{"M2 성장률", m2, "% YoY"},
			{"총 신용", latest(contracts.ChinaLoans), "bn CNY"},
			{"외환보유고", latest(contracts.ChinaReserves), "M USD"},
		}
		detail.Assessment = string(scoring.ClassifyChina(m2))

	case RegionJapan:
		usdjpy := latest(contracts.CarryPair)
		jgb := latest(contracts.JGB10Y)
		us := latest(contracts.US10Y)
		spread := us - jgb
		detail.Metrics = []Metric{
			{"USD/JPY", usdjpy, ""},
			{"일본 10Y", jgb, "%"},
			{"미국 10Y", us, "%"},
			{"미-일 금리차", spread, "%p"},
		}
		detail.Assessment = string(scoring.ClassifyCarry(usdjpy, spread))

	case RegionTGA:
		current, week := change(contracts.TreasuryAccount, 7)
		_, month := change(contracts.TreasuryAccount, 30)
		detail.Metrics = []Metric{
			{"현재 잔고", current, "M USD"},
			{"주간 변화", week, "M USD"},
			{"월간 변화", month, "M USD"},
		}
		detail.Assessment = string(scoring.ClassifyTGA(month))
		detail.Secondary = string(scoring.ClassifyDebtCeiling(current))

	case RegionDXY:
		current, week := change(contracts.DollarIndex, 7)
		_, month := change(contracts.DollarIndex, 30)
		detail.Metrics = []Metric{
			{"현재", current, ""},
			{"주간 변화", week, ""},
			{"월간 변화", month, ""},
		}
		if scoring.SharpDollarMove(week, s.engine.Config().Alerts.DollarMoveAbs) {
			detail.Assessment = "⚠️ 급격한 변동 주의"
		} else {
			detail.Assessment = "✅ 정상 범위"
		}

	case RegionEM:
		pairs := s.engine.Config().EMPairs
		sum := 0.0
		for _, pair := range pairs {
			current, week := change(pair, 7)
			pct := scoring.PercentChange(current, current-week)
			sum += pct
			detail.Metrics = append(detail.Metrics, Metric{strings.ToUpper(string(pair)) + " 주간", pct, "%"})
		}
		index := 0.0
		if len(pairs) > 0 {
			index = -sum / float64(len(pairs))
		}
		detail.Metrics = append(detail.Metrics, Metric{"EM 통화 강도", index, "%"})
		detail.Assessment = string(scoring.ClassifyEM(index))

	default:
		return detail, fmt.Errorf("unknown region %q", region)
	}

	return detail, nil
}
