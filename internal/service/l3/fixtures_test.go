package l3_service

import (
	"testing"
	"time"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"
	"cryptofactor/internal/util"

	"github.com/stretchr/testify/require"
)

func d(n int) time.Time {
	return util.NewDate(2024, 1, 1).AddDate(0, 0, n)
}

func ret(prev, cur float64) float64 {
	return cur/prev - 1
}

var (
	closesA = []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 101}
	closesB = []float64{100, 105, 100, 105, 100, 105, 160, 100, 160, 100}
	closesC = []float64{100, 120, 100, 120, 100, 120, 100, 120, 100, 120}
)

// threeSymbolPanel is a 10 day panel where A is the calmest symbol, C the
// wildest until B blows up on day 6. skip drops (symbol, day) rows.
func threeSymbolPanel(t *testing.T, skip map[string][]int) *l1_service.PanelIndex {
	prices := []domain.PricePoint{}
	for symbol, closes := range map[string][]float64{"A": closesA, "B": closesB, "C": closesC} {
	days:
		for i, c := range closes {
			for _, s := range skip[symbol] {
				if s == i {
					continue days
				}
			}
			prices = append(prices, domain.PricePoint{Date: d(i), Symbol: symbol, Close: c})
		}
	}
	idx, err := l1_service.NewPanelIndex(domain.Panel{Prices: prices})
	require.NoError(t, err)
	return idx
}

func lowVolParams() domain.Params {
	return domain.Params{
		Factor: domain.FactorOptions{
			Type:   domain.FactorType_Volatility,
			Window: 3,
		},
		Direction:             domain.Direction_LowLong,
		RebalanceIntervalDays: 5,
		BucketRule:            domain.BucketRule{Kind: domain.BucketRule_TopBottom, Param: 1},
		Weighting:             domain.WeightingMethod_Equal,
		LongAllocation:        0.5,
		ShortAllocation:       0.5,
		StartDate:             d(0),
		EndDate:               d(9),
		MinPerSide:            1,
		InitialCapital:        10000,
	}
}

// fakeReturns is a ReturnSource over a fixed table.
type fakeReturns map[string]map[time.Time]float64

func (f fakeReturns) SimpleReturn(symbol string, date time.Time) (float64, bool) {
	r, ok := f[symbol][date]
	return r, ok
}
