package l2_service

import (
	"fmt"
	"math"
	"time"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// volatilityFactor is the annualized sample stdev of trailing returns.
type volatilityFactor struct {
	window int
	minObs int
}

func (f volatilityFactor) Name() string {
	return fmt.Sprintf("volatility(%d)", f.window)
}

func (f volatilityFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	returns := h.Returns(f.window)
	if len(returns) < atLeast(2, f.minObs) {
		return 0, domain.ErrInsufficientHistory
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, fmt.Errorf("failed to compute stdev for %s: %w", h.Symbol, err)
	}
	return finite(stdev * math.Sqrt(annualizationDays))
}

// betaFactor regresses a symbol's returns on a benchmark's over the dates
// both have a return.
type betaFactor struct {
	window    int
	minObs    int
	benchmark string
}

func (f betaFactor) Name() string {
	return fmt.Sprintf("beta(%d, %s)", f.window, f.benchmark)
}

func (f betaFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	dates, returns := h.DatedReturns(f.window)
	benchDates, benchReturns := h.Other(f.benchmark).DatedReturns(f.window)

	byDate := make(map[time.Time]float64, len(benchDates))
	for i, d := range benchDates {
		byDate[d] = benchReturns[i]
	}
	x := []float64{}
	y := []float64{}
	for i, d := range dates {
		if b, ok := byDate[d]; ok {
			x = append(x, b)
			y = append(y, returns[i])
		}
	}
	if len(x) < atLeast(2, f.minObs) {
		return 0, domain.ErrInsufficientHistory
	}

	variance, err := stats.SampleVariance(x)
	if err != nil {
		return 0, fmt.Errorf("failed to compute benchmark variance: %w", err)
	}
	if variance == 0 {
		return 0, domain.ErrInsufficientHistory
	}
	covariance, err := stats.Covariance(y, x)
	if err != nil {
		return 0, fmt.Errorf("failed to compute covariance for %s: %w", h.Symbol, err)
	}
	return finite(covariance / variance)
}

// kurtosisFactor is the bias-corrected excess kurtosis of trailing returns.
type kurtosisFactor struct {
	window int
	minObs int
}

func (f kurtosisFactor) Name() string {
	return fmt.Sprintf("kurtosis(%d)", f.window)
}

func (f kurtosisFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	returns := h.Returns(f.window)
	if len(returns) < atLeast(4, f.minObs) {
		return 0, domain.ErrInsufficientHistory
	}
	return finite(stat.ExKurtosis(returns, nil))
}

type skewFactor struct {
	window int
	minObs int
}

func (f skewFactor) Name() string {
	return fmt.Sprintf("skew(%d)", f.window)
}

func (f skewFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	returns := h.Returns(f.window)
	if len(returns) < atLeast(3, f.minObs) {
		return 0, domain.ErrInsufficientHistory
	}
	return finite(stat.Skew(returns, nil))
}

// momentumFactor is the trailing return from the last close on or before
// Date-window to the close on Date.
type momentumFactor struct {
	window int
}

func (f momentumFactor) Name() string {
	return fmt.Sprintf("momentum(%d)", f.window)
}

func (f momentumFactor) Compute(h l1_service.History) (float64, error) {
	px, ok := h.Close()
	if !ok {
		return 0, domain.ErrNoPrice
	}
	start, _, ok := h.CloseAsOf(h.Date.AddDate(0, 0, -f.window))
	if !ok {
		return 0, domain.ErrInsufficientHistory
	}
	if h.Kind == domain.ReturnKind_Log {
		return finite(math.Log(px / start))
	}
	return finite(px/start - 1)
}
