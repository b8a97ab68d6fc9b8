package l3_service

import (
	"testing"

	"cryptofactor/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func points(values map[string]float64) []domain.FactorPoint {
	out := []domain.FactorPoint{}
	for symbol, v := range values {
		out = append(out, domain.FactorPoint{Date: d(0), Symbol: symbol, Value: v})
	}
	return out
}

func TestGenerateSignals(t *testing.T) {
	topBottom := func(n float64) domain.BucketRule {
		return domain.BucketRule{Kind: domain.BucketRule_TopBottom, Param: n}
	}

	t.Run("ranks ascending with symbol tie break", func(t *testing.T) {
		got := GenerateSignals(GenerateSignalsInput{
			Date:       d(0),
			Points:     points(map[string]float64{"C": 1, "A": 1, "B": 0.5, "D": 3}),
			Rule:       topBottom(1),
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		})

		expected := []domain.SignalPoint{
			{Date: d(0), Symbol: "B", Side: domain.Side_Long, Rank: 1, Percentile: 0.25, Value: 0.5},
			{Date: d(0), Symbol: "A", Side: domain.Side_Neutral, Rank: 2, Percentile: 0.5, Value: 1},
			{Date: d(0), Symbol: "C", Side: domain.Side_Neutral, Rank: 3, Percentile: 0.75, Value: 1},
			{Date: d(0), Symbol: "D", Side: domain.Side_Short, Rank: 4, Percentile: 1, Value: 3},
		}
		require.Equal(t, "", cmp.Diff(expected, got.Signals))
		require.Equal(t, []string{"B"}, got.Long)
		require.Equal(t, []string{"D"}, got.Short)
		require.False(t, got.InsufficientUniverse)
		require.Empty(t, got.Concentration)
	})

	t.Run("high long flips the sides", func(t *testing.T) {
		got := GenerateSignals(GenerateSignalsInput{
			Points:     points(map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4}),
			Rule:       topBottom(2),
			Direction:  domain.Direction_HighLong,
			MinPerSide: 1,
		})
		require.Equal(t, []string{"C", "D"}, got.Long)
		require.Equal(t, []string{"A", "B"}, got.Short)
	})

	t.Run("universe boundary at twice the minimum", func(t *testing.T) {
		in := GenerateSignalsInput{
			Points:     points(map[string]float64{"A": 1, "B": 2, "C": 3}),
			Rule:       domain.BucketRule{Kind: domain.BucketRule_Quantile, Param: 5},
			Direction:  domain.Direction_LowLong,
			MinPerSide: 2,
		}
		got := GenerateSignals(in)
		require.True(t, got.InsufficientUniverse)
		require.Empty(t, got.Signals)
		require.Empty(t, got.Long)

		in.Points = points(map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4})
		got = GenerateSignals(in)
		require.False(t, got.InsufficientUniverse)
		require.Equal(t, []string{"A", "B"}, got.Long)
		require.Equal(t, []string{"C", "D"}, got.Short)
	})

	t.Run("bucket sizes", func(t *testing.T) {
		ten := map[string]float64{}
		for i, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
			ten[s] = float64(i)
		}
		for _, tc := range []struct {
			rule     string
			expected int
		}{
			{"quantile:3", 3},
			{"quantile:10", 1},
			{"percentile:20", 2},
			{"percentile:50", 5},
			{"percentile:5", 1},
			{"top_bottom:4", 4},
		} {
			rule, err := domain.NewBucketRule(tc.rule)
			require.NoError(t, err)
			got := GenerateSignals(GenerateSignalsInput{
				Points:     points(ten),
				Rule:       rule,
				Direction:  domain.Direction_LowLong,
				MinPerSide: 1,
			})
			require.Len(t, got.Long, tc.expected, tc.rule)
			require.Len(t, got.Short, tc.expected, tc.rule)
		}
	})

	t.Run("percentile keeps ties at the threshold", func(t *testing.T) {
		values := map[string]float64{
			"A": 1, "B": 1, "C": 1, "D": 1, "E": 2, "F": 3, "G": 4, "H": 5, "I": 6, "J": 7,
		}
		percentile, err := domain.NewBucketRule("percentile:20")
		require.NoError(t, err)
		got := GenerateSignals(GenerateSignalsInput{
			Date:       d(0),
			Points:     points(values),
			Rule:       percentile,
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		})
		require.Equal(t, []string{"A", "B", "C", "D"}, got.Long)
		require.Equal(t, []string{"I", "J"}, got.Short)
		require.Empty(t, got.Concentration)

		quantile, err := domain.NewBucketRule("quantile:5")
		require.NoError(t, err)
		got = GenerateSignals(GenerateSignalsInput{
			Points:     points(values),
			Rule:       quantile,
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		})
		require.Equal(t, []string{"A", "B"}, got.Long)
		require.Equal(t, []string{"I", "J"}, got.Short)

		got = GenerateSignals(GenerateSignalsInput{
			Points:     points(values),
			Rule:       percentile,
			Direction:  domain.Direction_HighLong,
			MinPerSide: 1,
		})
		require.Equal(t, []string{"I", "J"}, got.Long)
		require.Equal(t, []string{"A", "B", "C", "D"}, got.Short)
	})

	t.Run("percentile leaves a value on both cuts neutral", func(t *testing.T) {
		got := GenerateSignals(GenerateSignalsInput{
			Date:       d(0),
			Points:     points(map[string]float64{"A": 1, "B": 2, "C": 2, "D": 2}),
			Rule:       domain.BucketRule{Kind: domain.BucketRule_Percentile, Param: 50},
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		})
		// both cuts land on 2, so B C D sit on each and stay out
		require.Equal(t, []string{"A"}, got.Long)
		require.Empty(t, got.Short)
		require.Equal(t, []domain.Concentration{
			{Date: d(0), Side: domain.Side_Long, Count: 1, Expected: 2, Stage: "signal"},
			{Date: d(0), Side: domain.Side_Short, Count: 0, Expected: 2, Stage: "signal"},
		}, got.Concentration)
	})

	t.Run("short universe records concentration", func(t *testing.T) {
		got := GenerateSignals(GenerateSignalsInput{
			Date:       d(0),
			Points:     points(map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6}),
			Rule:       topBottom(5),
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		})
		require.Len(t, got.Long, 3)
		require.Equal(t, []domain.Concentration{
			{Date: d(0), Side: domain.Side_Long, Count: 3, Expected: 5, Stage: "signal"},
			{Date: d(0), Side: domain.Side_Short, Count: 3, Expected: 5, Stage: "signal"},
		}, got.Concentration)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		in := GenerateSignalsInput{
			Points: []domain.FactorPoint{
				{Symbol: "X", Value: 2}, {Symbol: "Y", Value: 2}, {Symbol: "Z", Value: 1}, {Symbol: "W", Value: 2},
			},
			Rule:       topBottom(1),
			Direction:  domain.Direction_LowLong,
			MinPerSide: 1,
		}
		first := GenerateSignals(in)
		in.Points[0], in.Points[3] = in.Points[3], in.Points[0]
		in.Points[1], in.Points[2] = in.Points[2], in.Points[1]
		second := GenerateSignals(in)
		require.Equal(t, "", cmp.Diff(first, second))
		require.Equal(t, []string{"Y"}, first.Short)
	})
}
