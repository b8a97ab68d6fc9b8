package l3_service

import (
	"errors"
	"math"
	"testing"
	"time"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"
	"cryptofactor/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAlignReturns(t *testing.T) {
	source := fakeReturns{
		"A": {d(1): 0.1},
		"B": {d(1): -0.2},
	}

	t.Run("weights earn the next day's return", func(t *testing.T) {
		aligned, err := AlignReturns(source, domain.Weights{"B": -0.5, "A": 0.5, "C": 0.25}, d(0), d(1))
		require.NoError(t, err)
		require.Equal(t, []AlignedReturn{
			{Symbol: "A", Weight: 0.5, DecisionDate: d(0), RealizedDate: d(1), Return: 0.1},
			{Symbol: "B", Weight: -0.5, DecisionDate: d(0), RealizedDate: d(1), Return: -0.2},
			{Symbol: "C", Weight: 0.25, DecisionDate: d(0), RealizedDate: d(1), Missing: true},
		}, aligned)

		r, missing := PortfolioReturn(aligned)
		require.InDelta(t, 0.15, r, 1e-15)
		require.Equal(t, 1, missing)
	})

	t.Run("same day application is a violation", func(t *testing.T) {
		_, err := AlignReturns(source, domain.Weights{"A": 1}, d(1), d(1))
		var violation domain.AlignmentViolation
		require.True(t, errors.As(err, &violation))
		require.Equal(t, "A", violation.Symbol)

		_, err = AlignReturns(source, domain.Weights{"A": 1}, d(2), d(1))
		require.True(t, errors.As(err, &violation))
	})

	t.Run("flat book has nothing to align", func(t *testing.T) {
		aligned, err := AlignReturns(source, domain.Weights{}, d(1), d(1))
		require.NoError(t, err)
		require.Empty(t, aligned)
	})
}

// doublingIndex prices one symbol at 2^t, so each daily return is exactly 1.
func doublingIndex(t *testing.T, days int) *l1_service.PanelIndex {
	prices := []domain.PricePoint{}
	for i := 0; i < days; i++ {
		prices = append(prices, domain.PricePoint{Date: d(i), Symbol: "X", Close: math.Pow(2, float64(i))})
	}
	idx, err := l1_service.NewPanelIndex(domain.Panel{Prices: prices})
	require.NoError(t, err)
	return idx
}

func TestSimulate_Alignment(t *testing.T) {
	idx := doublingIndex(t, 6)
	calendar := util.CalendarDays(d(0), d(5))

	t.Run("held from the first day doubles every following day", func(t *testing.T) {
		held := ForwardFill(calendar, map[time.Time]domain.Weights{d(0): {"X": 1}})
		got, err := Simulate(SimulateInput{
			Calendar:       calendar,
			Held:           held,
			RebalanceDates: map[time.Time]bool{d(0): true},
			Returns:        idx,
			InitialCapital: 100,
		})
		require.NoError(t, err)
		require.Equal(t, 0.0, got.Days[0].Return)
		for i := 1; i < len(calendar); i++ {
			require.Equal(t, 1.0, got.Days[i].Return)
			require.True(t, decimal.NewFromFloat(100*math.Pow(2, float64(i))).Equal(got.Days[i].Value), got.Days[i].Value.String())
		}
	})

	t.Run("a book set on day 2 earns nothing on day 2", func(t *testing.T) {
		held := ForwardFill(calendar, map[time.Time]domain.Weights{d(2): {"X": 1}})
		got, err := Simulate(SimulateInput{
			Calendar:       calendar,
			Held:           held,
			RebalanceDates: map[time.Time]bool{d(2): true},
			Returns:        idx,
			InitialCapital: 100,
		})
		require.NoError(t, err)
		returns := []float64{}
		for _, day := range got.Days {
			returns = append(returns, day.Return)
		}
		require.Equal(t, []float64{0, 0, 0, 1, 1, 1}, returns)
		require.Equal(t, "800", got.Days[5].Value.String())
	})
}

func TestSimulate_Costs(t *testing.T) {
	calendar := util.CalendarDays(d(0), d(3))
	flat := fakeReturns{"A": {d(1): 0, d(2): 0, d(3): 0}}

	t.Run("costs are charged on the rebalance date", func(t *testing.T) {
		got, err := Simulate(SimulateInput{
			Calendar:           calendar,
			Held:               []domain.Weights{{}, {"A": 1}, {"A": 1}, {"A": -1}},
			RebalanceDates:     map[time.Time]bool{d(1): true, d(3): true},
			Returns:            flat,
			TransactionCostBps: 10,
			InitialCapital:     1000,
		})
		require.NoError(t, err)
		require.InDelta(t, -0.001, got.Days[1].Return, 1e-15)
		require.Equal(t, 0.0, got.Days[2].Return)
		require.InDelta(t, -0.002, got.Days[3].Return, 1e-15)
		require.Equal(t, map[time.Time]float64{d(1): 1, d(3): 2}, got.Turnover)
		require.InDelta(t, 0.002, got.Cost[d(3)], 1e-15)
		require.True(t, got.Days[3].Rebalanced)
		require.False(t, got.Days[2].Rebalanced)
	})

	t.Run("a first day book is charged on the second day", func(t *testing.T) {
		got, err := Simulate(SimulateInput{
			Calendar:           calendar,
			Held:               []domain.Weights{{"A": 1}, {"A": 1}, {"A": 1}, {"A": 1}},
			RebalanceDates:     map[time.Time]bool{d(0): true},
			Returns:            flat,
			TransactionCostBps: 10,
			InitialCapital:     1000,
		})
		require.NoError(t, err)
		require.Equal(t, 0.0, got.Days[0].Return)
		require.True(t, decimal.NewFromInt(1000).Equal(got.Days[0].Value))
		require.InDelta(t, -0.001, got.Days[1].Return, 1e-15)
		require.Equal(t, 0.0, got.Days[2].Return)
	})

	t.Run("cash is the unlevered remainder", func(t *testing.T) {
		got, err := Simulate(SimulateInput{
			Calendar:       calendar,
			Held:           []domain.Weights{{}, {"A": 0.5, "B": -0.25}, {}, {}},
			Returns:        fakeReturns{},
			InitialCapital: 1000,
		})
		require.NoError(t, err)
		require.Equal(t, "1000", got.Days[0].Cash.String())
		require.Equal(t, "750", got.Days[1].Cash.String())
		require.Equal(t, 2, got.Days[2].MissingReturns)
		require.Equal(t, 2, got.MissingReturns)
	})

	t.Run("mismatched inputs", func(t *testing.T) {
		_, err := Simulate(SimulateInput{Calendar: calendar, Held: []domain.Weights{{}}})
		require.Error(t, err)
		_, err = Simulate(SimulateInput{})
		require.Error(t, err)
	})
}
