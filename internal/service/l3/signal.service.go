package l3_service

import (
	"math"
	"sort"
	"time"

	"cryptofactor/internal/domain"
)

type GenerateSignalsInput struct {
	Date       time.Time
	Points     []domain.FactorPoint
	Rule       domain.BucketRule
	Direction  domain.Direction
	MinPerSide int
}

type GenerateSignalsResult struct {
	// Signals ranks the whole cross section; it is empty when the
	// universe is too small
	Signals []domain.SignalPoint
	Long    []string
	Short   []string

	InsufficientUniverse bool
	Concentration        []domain.Concentration
}

// perSideCount returns how many names each side holds for a universe of n,
// and how many the rule asked for. Only rank based rules use it.
func perSideCount(rule domain.BucketRule, n, minPerSide int) (k int, expected int) {
	switch rule.Kind {
	case domain.BucketRule_Quantile:
		k = n / int(rule.Param)
		if k < minPerSide {
			k = minPerSide
		}
		expected = k
	case domain.BucketRule_TopBottom:
		expected = int(rule.Param)
		k = expected
	}
	if k > n/2 {
		k = n / 2
	}
	return k, expected
}

// percentileThresholds returns the nearest-rank p-th percentile counted from
// the bottom and from the top of sorted, plus the rank it was taken at. The
// rank is raised to minPerSide and capped at half the universe.
func percentileThresholds(sorted []float64, p float64, minPerSide int) (low float64, high float64, rank int) {
	n := len(sorted)
	rank = int(math.Ceil(float64(n) * p / 100))
	if rank < minPerSide {
		rank = minPerSide
	}
	if rank > n/2 {
		rank = n / 2
	}
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1], sorted[n-rank], rank
}

// GenerateSignals ranks one date's factor values ascending, ties broken by
// symbol, and assigns the low and high ends to LONG and SHORT per the
// strategy direction. Rank rules take a fixed count from each end; the
// percentile rule takes every value at or beyond its threshold, so tied
// names are never split and the sides may differ in size.
func GenerateSignals(in GenerateSignalsInput) GenerateSignalsResult {
	out := GenerateSignalsResult{
		Signals: []domain.SignalPoint{},
		Long:    []string{},
		Short:   []string{},
	}
	n := len(in.Points)
	if n < 2*in.MinPerSide || n < 2 {
		out.InsufficientUniverse = true
		return out
	}

	points := make([]domain.FactorPoint, n)
	copy(points, in.Points)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value < points[j].Value
		}
		return points[i].Symbol < points[j].Symbol
	})

	lowSide, highSide := domain.Side_Long, domain.Side_Short
	if in.Direction == domain.Direction_HighLong {
		lowSide, highSide = domain.Side_Short, domain.Side_Long
	}

	var sideOf func(rank int, value float64) domain.Side
	var expected int
	if in.Rule.Kind == domain.BucketRule_Percentile {
		values := make([]float64, n)
		for i, p := range points {
			values[i] = p.Value
		}
		low, high, rank := percentileThresholds(values, in.Rule.Param, in.MinPerSide)
		expected = rank
		sideOf = func(_ int, value float64) domain.Side {
			atLow, atHigh := value <= low, value >= high
			switch {
			case atLow && atHigh:
				// a value at both cuts is ambiguous
				return domain.Side_Neutral
			case atLow:
				return lowSide
			case atHigh:
				return highSide
			}
			return domain.Side_Neutral
		}
	} else {
		var k int
		k, expected = perSideCount(in.Rule, n, in.MinPerSide)
		sideOf = func(rank int, _ float64) domain.Side {
			if rank <= k {
				return lowSide
			} else if rank > n-k {
				return highSide
			}
			return domain.Side_Neutral
		}
	}

	for i, p := range points {
		rank := i + 1
		side := sideOf(rank, p.Value)
		out.Signals = append(out.Signals, domain.SignalPoint{
			Date:       in.Date,
			Symbol:     p.Symbol,
			Side:       side,
			Rank:       rank,
			Percentile: float64(rank) / float64(n),
			Value:      p.Value,
		})
		switch side {
		case domain.Side_Long:
			out.Long = append(out.Long, p.Symbol)
		case domain.Side_Short:
			out.Short = append(out.Short, p.Symbol)
		}
	}
	sort.Strings(out.Long)
	sort.Strings(out.Short)

	for _, side := range []domain.Side{domain.Side_Long, domain.Side_Short} {
		count := len(out.Long)
		if side == domain.Side_Short {
			count = len(out.Short)
		}
		if count < expected {
			out.Concentration = append(out.Concentration, domain.Concentration{
				Date:     in.Date,
				Side:     side,
				Count:    count,
				Expected: expected,
				Stage:    "signal",
			})
		}
	}

	return out
}
