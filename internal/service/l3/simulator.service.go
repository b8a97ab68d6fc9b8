package l3_service

import (
	"fmt"
	"time"

	"cryptofactor/internal/domain"

	"github.com/shopspring/decimal"
)

type SimulateInput struct {
	Calendar []time.Time
	// Held[i] is the book held at the close of Calendar[i]
	Held               []domain.Weights
	RebalanceDates     map[time.Time]bool
	Returns            ReturnSource
	TransactionCostBps float64
	InitialCapital     float64
}

type SimulateResult struct {
	Days []domain.PortfolioState
	// Turnover and Cost are keyed by the date the book changed
	Turnover       map[time.Time]float64
	Cost           map[time.Time]float64
	MissingReturns int
}

// Simulate walks the calendar once. The first day is the valuation anchor:
// its return is 0 and its value is the initial capital. Costs for a book
// set on the first day are charged on the second.
func Simulate(in SimulateInput) (*SimulateResult, error) {
	if len(in.Calendar) == 0 {
		return nil, fmt.Errorf("cannot simulate an empty calendar")
	}
	if len(in.Held) != len(in.Calendar) {
		return nil, fmt.Errorf("held weights cover %d days, calendar has %d", len(in.Held), len(in.Calendar))
	}

	out := &SimulateResult{
		Days:     make([]domain.PortfolioState, 0, len(in.Calendar)),
		Turnover: map[time.Time]float64{},
		Cost:     map[time.Time]float64{},
	}
	costRate := in.TransactionCostBps / 1e4

	prev := domain.Weights{}
	pendingCost := 0.0
	value := decimal.NewFromFloat(in.InitialCapital)

	for i, date := range in.Calendar {
		held := in.Held[i]
		if held == nil {
			held = domain.Weights{}
		}

		turnover := held.Turnover(prev)
		cost := costRate * turnover
		if in.RebalanceDates[date] || turnover > 0 {
			out.Turnover[date] = turnover
			out.Cost[date] = cost
		}

		r := 0.0
		missing := 0
		if i == 0 {
			pendingCost = cost
		} else {
			aligned, err := AlignReturns(in.Returns, prev, in.Calendar[i-1], date)
			if err != nil {
				return nil, err
			}
			r, missing = PortfolioReturn(aligned)
			r -= cost + pendingCost
			pendingCost = 0
			value = value.Mul(decimal.NewFromFloat(1 + r))
		}
		out.MissingReturns += missing

		out.Days = append(out.Days, domain.PortfolioState{
			Date:           date,
			Cash:           value.Mul(decimal.NewFromFloat(1 - held.Net())),
			Positions:      held,
			Value:          value,
			Return:         r,
			Rebalanced:     in.RebalanceDates[date],
			MissingReturns: missing,
		})
		prev = held
	}

	return out, nil
}
