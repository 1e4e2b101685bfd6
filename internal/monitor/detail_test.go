package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/internal/scoring"
)

func TestParseRegion(t *testing.T) {
	for _, r := range Regions() {
		got, err := ParseRegion(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRegion("europe")
	assert.Error(t, err)
}

func TestDetail(t *testing.T) {
	f := &stubFetcher{
		series: map[contracts.Indicator]contracts.Series{
			contracts.TreasuryAccount: series(map[string]float64{
				"2023-12-12": 900_000,
				"2024-01-04": 800_000,
				"2024-01-11": 650_000,
			}),
			contracts.USDKRW: series(map[string]float64{
				"2024-01-05": 1300,
				"2024-01-12": 1274,
			}),
			contracts.USDBRL: series(map[string]float64{
				"2024-01-05": 5.0,
				"2024-01-12": 4.95,
			}),
			contracts.USDMXN: series(map[string]float64{
				"2024-01-05": 17.0,
				"2024-01-12": 16.83,
			}),
			contracts.DollarIndex: series(map[string]float64{
				"2023-12-13": 118,
				"2024-01-05": 120,
				"2024-01-12": 122.5,
			}),
		},
		latest: map[contracts.Indicator]float64{
			contracts.CarryPair:         152,
			contracts.JGB10Y:            0.6,
			contracts.US10Y:             4.8,
			contracts.MoneySupplyGrowth: 8.7,
		},
	}
	svc := newTestService(t, f, nil, Options{})
	ctx := context.Background()

	tests := []struct {
		region     Region
		assessment string
		secondary  string
		metric     string
		value      float64
	}{
		{RegionChina, string(scoring.ChinaNeutral), "", "M2 성장률", 8.7},
		{RegionJapan, string(scoring.CarryExtreme), "", "미-일 금리차", 4.2},
		// now 2024-01-12: week ago 01-05 → 800000, month ago 12-13 → 900000
		{RegionTGA, string(scoring.TGALargeInjection), string(scoring.DebtCeilingAdequate), "월간 변화", -250_000},
		{RegionDXY, "⚠️ 급격한 변동 주의", "", "주간 변화", 2.5},
		// KRW -2%, BRL -1%, MXN -1% → index +1.333
		{RegionEM, string(scoring.EMStrong), "", "EM 통화 강도", 4.0 / 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.region), func(t *testing.T) {
			d, err := svc.Detail(ctx, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.assessment, d.Assessment)
			assert.Equal(t, tt.secondary, d.Secondary)

			found := false
			for _, m := range d.Metrics {
				if m.Name == tt.metric {
					assert.InDelta(t, tt.value, m.Value, 1e-9)
					found = true
				}
			}
			assert.True(t, found, "metric %s", tt.metric)
		})
	}
}

func TestDetail_MissingDataIsListed(t *testing.T) {
	svc := newTestService(t, &stubFetcher{}, nil, Options{})

	d, err := svc.Detail(context.Background(), RegionChina)
	require.NoError(t, err)
	assert.Len(t, d.Errors, 3)
	assert.Equal(t, string(scoring.ChinaShortage), d.Assessment)
}

func TestDetail_UnknownRegion(t *testing.T) {
	svc := newTestService(t, &stubFetcher{}, nil, Options{})
	_, err := svc.Detail(context.Background(), Region("europe"))
	assert.Error(t, err)
}
