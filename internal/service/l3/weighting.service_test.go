package l3_service

import (
	"errors"
	"math"
	"testing"
	"time"

	"cryptofactor/internal/domain"

	"github.com/stretchr/testify/require"
)

func volTable(vols map[string]float64) VolatilityLookup {
	return func(symbol string, date time.Time) (float64, error) {
		v, ok := vols[symbol]
		if !ok {
			return 0, domain.ErrInsufficientHistory
		}
		return v, nil
	}
}

func sideSums(w domain.Weights) (float64, float64) {
	long, short := 0.0, 0.0
	for _, v := range w {
		if v > 0 {
			long += v
		} else {
			short += math.Abs(v)
		}
	}
	return long, short
}

func TestAllocateWeights(t *testing.T) {
	t.Run("equal weight", func(t *testing.T) {
		got, err := AllocateWeights(AllocateWeightsInput{
			Date:            d(0),
			Long:            []string{"A", "B"},
			Short:           []string{"C"},
			Method:          domain.WeightingMethod_Equal,
			LongAllocation:  0.5,
			ShortAllocation: 0.5,
			MinPerSide:      1,
		})
		require.NoError(t, err)
		require.Equal(t, domain.Weights{"A": 0.25, "B": 0.25, "C": -0.5}, got.Weights)
		require.False(t, got.InsufficientUniverse)
	})

	t.Run("inverse vol with exclusions keeps side sums", func(t *testing.T) {
		got, err := AllocateWeights(AllocateWeightsInput{
			Date:            d(0),
			Long:            []string{"A", "B", "C"},
			Short:           []string{"D", "E"},
			Method:          domain.WeightingMethod_InverseVol,
			LongAllocation:  1,
			ShortAllocation: 0.5,
			MinPerSide:      1,
			Volatility:      volTable(map[string]float64{"A": 0.1, "B": 0.3, "C": 0, "E": 0.2}),
		})
		require.NoError(t, err)
		require.InDelta(t, 0.75, got.Weights["A"], 1e-12)
		require.InDelta(t, 0.25, got.Weights["B"], 1e-12)
		require.InDelta(t, -0.5, got.Weights["E"], 1e-12)
		require.NotContains(t, got.Weights, "C")
		require.NotContains(t, got.Weights, "D")
		require.Equal(t, 2, got.InverseVolExclusions)

		long, short := sideSums(got.Weights)
		require.InDelta(t, 1, long, 1e-9)
		require.InDelta(t, 0.5, short, 1e-9)

		require.Equal(t, []domain.Concentration{
			{Date: d(0), Side: domain.Side_Long, Count: 2, Expected: 3, Stage: "weighting"},
			{Date: d(0), Side: domain.Side_Short, Count: 1, Expected: 2, Stage: "weighting"},
		}, got.Concentration)
	})

	t.Run("exclusions below the minimum make the date insufficient", func(t *testing.T) {
		got, err := AllocateWeights(AllocateWeightsInput{
			Long:            []string{"A", "B"},
			Short:           []string{"C", "D"},
			Method:          domain.WeightingMethod_InverseVol,
			LongAllocation:  0.5,
			ShortAllocation: 0.5,
			MinPerSide:      2,
			Volatility:      volTable(map[string]float64{"A": 0.1, "B": 0.2, "C": 0.3}),
		})
		require.NoError(t, err)
		require.True(t, got.InsufficientUniverse)
		require.Empty(t, got.Weights)
	})

	t.Run("zero allocation side is not held", func(t *testing.T) {
		got, err := AllocateWeights(AllocateWeightsInput{
			Long:            []string{"A"},
			Short:           []string{"B"},
			Method:          domain.WeightingMethod_Equal,
			LongAllocation:  1,
			ShortAllocation: 0,
			MinPerSide:      1,
		})
		require.NoError(t, err)
		require.Equal(t, domain.Weights{"A": 1}, got.Weights)
	})

	t.Run("volatility failures abort", func(t *testing.T) {
		_, err := AllocateWeights(AllocateWeightsInput{
			Long:            []string{"A"},
			Short:           []string{"B"},
			Method:          domain.WeightingMethod_InverseVol,
			LongAllocation:  1,
			ShortAllocation: 1,
			MinPerSide:      1,
			Volatility: func(string, time.Time) (float64, error) {
				return 0, errors.New("boom")
			},
		})
		require.ErrorContains(t, err, "boom")
	})
}

func TestValidateWeights(t *testing.T) {
	require.NoError(t, validateWeights(domain.Weights{"A": 0.5, "B": -0.5}, 0.5, 0.5))
	require.Error(t, validateWeights(domain.Weights{"A": 0.4, "B": -0.5}, 0.5, 0.5))
	require.Error(t, validateWeights(domain.Weights{"A": math.NaN()}, 1, 0))
}
