package config

import (
	"os"
	"path/filepath"
	"testing"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
data:
  source: csv
  prices_path: testdata/prices.csv
  supply_path: testdata/supply.csv
strategy:
  factor_type: volatility
  window_length: 30
  strategy_direction: low_long
  rebalance_interval_days: 7
  bucket_rule: quantile:5
  weighting_method: inverse_vol
  start_date: "2023-01-01"
  end_date: "2023-12-31"
  min_universe_size_per_side: 2
  transaction_cost_bps: 10
output:
  dir: out
  plot: true
`

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads file and fills defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleConfig))
		require.NoError(t, err)

		require.Equal(t, DataSource_Csv, cfg.Data.Source)
		require.Equal(t, "testdata/prices.csv", cfg.Data.PricesPath)
		require.Equal(t, "out", cfg.Output.Dir)
		require.True(t, cfg.Output.Plot)
		require.Equal(t, 3009, cfg.Api.Port)
		require.Equal(t, 0.5, cfg.Strategy.LongAllocation)
		require.Equal(t, 35, cfg.Strategy.MaxSnapshotStalenessDays)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("FACTOR_STRATEGY_WINDOW_LENGTH", "60")
		t.Setenv("FACTOR_API_PORT", "8080")
		cfg, err := Load(writeConfig(t, sampleConfig))
		require.NoError(t, err)
		require.Equal(t, 60, cfg.Strategy.Window)
		require.Equal(t, 8080, cfg.Api.Port)
	})

	t.Run("unknown data source", func(t *testing.T) {
		_, err := Load(writeConfig(t, "data:\n  source: parquet\n"))
		require.ErrorContains(t, err, "unknown data source")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestStrategyConfig_ToParams(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	params, err := cfg.Strategy.ToParams()
	require.NoError(t, err)

	expected := domain.Params{
		Factor: domain.FactorOptions{
			Type:                     domain.FactorType_Volatility,
			Window:                   30,
			ReturnKind:               domain.ReturnKind_Simple,
			Benchmark:                "BTC",
			FundingSource:            domain.FundingSource_Daily,
			SupplyField:              domain.SupplyField_Circulating,
			MaxSnapshotStalenessDays: 35,
		},
		Direction:             domain.Direction_LowLong,
		RebalanceIntervalDays: 7,
		BucketRule:            domain.BucketRule{Kind: domain.BucketRule_Quantile, Param: 5},
		Weighting:             domain.WeightingMethod_InverseVol,
		VolWindow:             30,
		LongAllocation:        0.5,
		ShortAllocation:       0.5,
		StartDate:             util.NewDate(2023, 1, 1),
		EndDate:               util.NewDate(2023, 12, 31),
		MinPerSide:            2,
		TransactionCostBps:    10,
		InitialCapital:        10000,
		UniversePolicy:        domain.UniversePolicy_Flatten,
	}
	require.Equal(t, "", cmp.Diff(expected, params))

	t.Run("invalid bucket rule", func(t *testing.T) {
		s := cfg.Strategy
		s.BucketRule = "quantile:1"
		_, err := s.ToParams()
		require.Error(t, err)
	})

	t.Run("missing dates", func(t *testing.T) {
		s := cfg.Strategy
		s.StartDate = ""
		_, err := s.ToParams()
		require.ErrorContains(t, err, "invalid start date")
	})
}
