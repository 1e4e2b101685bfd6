package scoringconfig

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
)

func TestLoad(t *testing.T) {
	// 테스트용 YAML 경로
	path := "../../config/scoring/liquidity.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, yamlData)

	// YAML과 내장 기본값은 동일해야 함
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	defaultHash, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, defaultHash, hash)
}

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestHash_Deterministic(t *testing.T) {
	hash, err := Hash(Default())
	require.NoError(t, err)
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(Default())
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	// 임계값 변경 → 다른 해시
	changed := Default()
	changed.Factors.CarryPair.Bands[0].Threshold = 160
	hash3, _ := Hash(changed)
	if hash == hash3 {
		t.Error("hash did not change with threshold")
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("meta:\n  config_id: x\n  versoin: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "versoin")
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLineItem_Score(t *testing.T) {
	item := Default().Factors.BalanceSheet

	tests := []struct {
		v    float64
		want int
	}{
		{60000, 20},
		{50000, 10}, // boundary falls to the next band
		{50000.01, 20},
		{10000, 0},
		{-10000, 0},
		{-10000.5, -10},
		{-50000, -10},
		{-50001, -20},
		{0, 0},
	}

	for _, tt := range tests {
		if got := item.Score(tt.v); got != tt.want {
			t.Errorf("Score(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{
			name:   "unknown indicator",
			mutate: func(c *Config) { c.Symbols[0].Indicator = "walcl" },
			field:  "symbols[0].indicator",
		},
		{
			name:   "empty series id",
			mutate: func(c *Config) { c.Symbols[1].SeriesID = "" },
			field:  "symbols[1].series_id",
		},
		{
			name:   "duplicate symbol",
			mutate: func(c *Config) { c.Symbols[1].Indicator = contracts.BalanceSheet },
			field:  "symbols[1].indicator",
		},
		{
			name:   "anchor without symbol",
			mutate: func(c *Config) { c.Symbols = c.Symbols[1:] },
			field:  "anchor",
		},
		{
			name:   "missing em pairs",
			mutate: func(c *Config) { c.EMPairs = nil },
			field:  "em_pairs",
		},
		{
			name:   "bad input mode",
			mutate: func(c *Config) { c.Factors.DollarIndex.Input = "pct" },
			field:  "factors.dollar_index.input",
		},
		{
			name:   "input on derived factor",
			mutate: func(c *Config) { c.Factors.EMIndex.Input = InputLevel },
			field:  "factors.em_index.input",
		},
		{
			name:   "unsupported operator",
			mutate: func(c *Config) { c.Factors.CarryPair.Bands[0].Op = ">=" },
			field:  "factors.carry_pair.bands[0].op",
		},
		{
			name: "unreachable greater band",
			mutate: func(c *Config) {
				c.Factors.ReverseRepo.Bands[1].Threshold = 600000
			},
			field: "factors.reverse_repo.bands[1]",
		},
		{
			name: "unreachable less band",
			mutate: func(c *Config) {
				c.Factors.MoneySupplyGrowth.Bands[3].Threshold = 5
			},
			field: "factors.money_supply_growth.bands[3]",
		},
		{
			name: "overlapping sides",
			mutate: func(c *Config) {
				c.Factors.CarryPair.Bands[3].Threshold = 150
			},
			field: "factors.carry_pair.bands",
		},
		{
			name:   "error signal band",
			mutate: func(c *Config) { c.Signals[0].Signal = contracts.SignalError },
			field:  "signals[0].signal",
		},
		{
			name:   "duplicate signal",
			mutate: func(c *Config) { c.Signals[1].Signal = c.Signals[0].Signal },
			field:  "signals[1].signal",
		},
		{
			name:   "missing recommendation",
			mutate: func(c *Config) { c.Signals[3].Recommendation = "" },
			field:  "signals[3].recommendation",
		},
		{
			name:   "no catch-all",
			mutate: func(c *Config) { c.Signals[6].Min = minScore(-100) },
			field:  "signals[6].min",
		},
		{
			name:   "catch-all not last",
			mutate: func(c *Config) { c.Signals[2].Min = nil },
			field:  "signals[2].min",
		},
		{
			name:   "mins not descending",
			mutate: func(c *Config) { c.Signals[2].Min = minScore(50) },
			field:  "signals[2].min",
		},
		{
			name:   "alert thresholds inverted",
			mutate: func(c *Config) { c.Alerts.OpportunityMin = -40 },
			field:  "alerts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.field, verr.Field, verr.Message)
		})
	}
}

func TestConfig_Lookups(t *testing.T) {
	cfg := Default()

	id, ok := cfg.SeriesID(contracts.CarryPair)
	require.True(t, ok)
	assert.Equal(t, "DEXJPUS", id)

	_, ok = cfg.SeriesID("unknown")
	assert.False(t, ok)

	assert.Len(t, cfg.ScoredIndicators(), 9)
	assert.Len(t, cfg.Indicators(), len(contracts.AllIndicators()))
	assert.True(t, strings.Contains(cfg.Recommendation(contracts.SignalNeutral), "균형"))
	assert.Empty(t, cfg.Recommendation(contracts.SignalError))
}
