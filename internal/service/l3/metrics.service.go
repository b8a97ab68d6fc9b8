package l3_service

import (
	"fmt"
	"math"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 365

type CalculateMetricsInput struct {
	Days         []domain.PortfolioState
	Rebalances   []domain.RebalanceRecord
	RiskFreeRate float64
}

// CalculateMetrics summarizes the daily returns after the opening day.
// Metrics that are undefined for the series are left nil.
func CalculateMetrics(in CalculateMetricsInput) (*domain.PerformanceSummary, error) {
	out := &domain.PerformanceSummary{
		NumRebalances: len(in.Rebalances),
	}
	if len(in.Days) == 0 {
		return out, nil
	}
	out.FinalValue = in.Days[len(in.Days)-1].Value.InexactFloat64()

	returns := make([]float64, 0, len(in.Days))
	for _, d := range in.Days[1:] {
		returns = append(returns, d.Return)
	}
	out.NumDays = len(returns)

	if len(in.Rebalances) > 0 {
		turnover := make([]float64, 0, len(in.Rebalances))
		for _, r := range in.Rebalances {
			turnover = append(turnover, r.Turnover)
		}
		mean, err := stats.Mean(turnover)
		if err != nil {
			return nil, fmt.Errorf("failed to compute average turnover: %w", err)
		}
		out.AvgTurnover = util.FiniteOrNil(mean)
	}

	if len(returns) < 2 {
		return out, nil
	}

	n := float64(len(returns))
	growth := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	wins := 0
	for _, r := range returns {
		growth *= 1 + r
		if growth > peak {
			peak = growth
		}
		if dd := growth/peak - 1; dd < maxDrawdown {
			maxDrawdown = dd
		}
		if r > 0 {
			wins++
		}
	}
	total := growth - 1
	annualized := math.Pow(growth, tradingDaysPerYear/n) - 1

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stdev of returns: %w", err)
	}
	annualizedVol := stdev * math.Sqrt(tradingDaysPerYear)

	out.TotalReturn = util.FiniteOrNil(total)
	out.AnnualizedReturn = util.FiniteOrNil(annualized)
	out.AnnualizedVolatility = util.FiniteOrNil(annualizedVol)
	out.MaxDrawdown = util.FiniteOrNil(maxDrawdown)
	out.WinRate = util.FiniteOrNil(float64(wins) / n)

	if annualizedVol > 0 {
		out.Sharpe = util.FiniteOrNil((annualized - in.RiskFreeRate) / annualizedVol)
	}

	// downside deviation is the root mean square of the losing days
	downside := []float64{}
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r*r)
		}
	}
	if len(downside) > 0 {
		meanSquare, err := stats.Mean(downside)
		if err != nil {
			return nil, fmt.Errorf("failed to compute downside deviation: %w", err)
		}
		if downsideDev := math.Sqrt(meanSquare); downsideDev > 0 {
			out.Sortino = util.FiniteOrNil((annualized - in.RiskFreeRate) / (downsideDev * math.Sqrt(tradingDaysPerYear)))
		}
	}

	return out, nil
}
