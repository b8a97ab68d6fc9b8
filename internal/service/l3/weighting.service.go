package l3_service

import (
	"fmt"
	"math"
	"time"

	"cryptofactor/internal/domain"
	l2_service "cryptofactor/internal/service/l2"
)

const weightTolerance = 1e-9

// VolatilityLookup returns the trailing volatility of symbol as of date.
// Missing values use the l2 sentinels.
type VolatilityLookup func(symbol string, date time.Time) (float64, error)

type AllocateWeightsInput struct {
	Date            time.Time
	Long            []string
	Short           []string
	Method          domain.WeightingMethod
	LongAllocation  float64
	ShortAllocation float64
	MinPerSide      int
	Volatility      VolatilityLookup
}

type AllocateWeightsResult struct {
	Weights domain.Weights

	InverseVolExclusions int
	InsufficientUniverse bool
	Concentration        []domain.Concentration
}

// AllocateWeights turns one date's LONG and SHORT lists into signed weights
// that sum to +LongAllocation and -ShortAllocation.
func AllocateWeights(in AllocateWeightsInput) (*AllocateWeightsResult, error) {
	out := &AllocateWeightsResult{Weights: domain.Weights{}}

	sides := []struct {
		side       domain.Side
		symbols    []string
		allocation float64
		sign       float64
	}{
		{domain.Side_Long, in.Long, in.LongAllocation, 1},
		{domain.Side_Short, in.Short, in.ShortAllocation, -1},
	}

	for _, s := range sides {
		if s.allocation == 0 {
			continue
		}

		raw := map[string]float64{}
		for _, symbol := range s.symbols {
			switch in.Method {
			case domain.WeightingMethod_InverseVol:
				vol, err := in.Volatility(symbol, in.Date)
				if l2_service.IsMissing(err) || (err == nil && vol <= 0) {
					out.InverseVolExclusions++
					continue
				}
				if err != nil {
					return nil, fmt.Errorf("failed to compute volatility for %s: %w", symbol, err)
				}
				raw[symbol] = 1 / vol
			default:
				raw[symbol] = 1
			}
		}

		if len(raw) < len(s.symbols) {
			out.Concentration = append(out.Concentration, domain.Concentration{
				Date:     in.Date,
				Side:     s.side,
				Count:    len(raw),
				Expected: len(s.symbols),
				Stage:    "weighting",
			})
		}
		if len(raw) == 0 || len(raw) < in.MinPerSide {
			out.InsufficientUniverse = true
			out.Weights = domain.Weights{}
			return out, nil
		}

		total := 0.0
		for _, symbol := range domain.Weights(raw).Symbols() {
			total += raw[symbol]
		}
		for symbol, r := range raw {
			out.Weights[symbol] = s.sign * s.allocation * r / total
		}
	}

	if err := validateWeights(out.Weights, in.LongAllocation, in.ShortAllocation); err != nil {
		return nil, fmt.Errorf("invalid weights on %s: %w", in.Date.Format(time.DateOnly), err)
	}
	return out, nil
}

func validateWeights(w domain.Weights, longAllocation, shortAllocation float64) error {
	long, short := 0.0, 0.0
	hasLong, hasShort := false, false
	for _, symbol := range w.Symbols() {
		weight := w[symbol]
		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("weight for %s is %v", symbol, weight)
		}
		if weight >= 0 {
			long += weight
			hasLong = true
		} else {
			short -= weight
			hasShort = true
		}
	}
	if hasLong && math.Abs(long-longAllocation) > weightTolerance {
		return fmt.Errorf("long side sums to %v, expected %v", long, longAllocation)
	}
	if hasShort && math.Abs(short-shortAllocation) > weightTolerance {
		return fmt.Errorf("short side sums to %v, expected %v", short, shortAllocation)
	}
	return nil
}
