package l1_service

import (
	"testing"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"

	"github.com/stretchr/testify/require"
)

func fp(f float64) *float64 {
	return &f
}

func day(n int) domain.PricePoint {
	return domain.PricePoint{Date: util.NewDate(2024, 1, 1).AddDate(0, 0, n)}
}

func newTestIndex(t *testing.T) *PanelIndex {
	prices := []domain.PricePoint{}
	closes := []float64{100, 110, 99, 120, 120, 60}
	for i, c := range closes {
		p := price("A", i, c)
		p.Volume = fp(float64(10 * (i + 1)))
		prices = append(prices, p)
	}
	// B skips day 2
	for _, i := range []int{0, 1, 3, 4, 5} {
		prices = append(prices, price("B", i, 50+float64(i)))
	}
	prices[len(prices)-1].MarketCap = fp(9e9)

	idx, err := NewPanelIndex(domain.Panel{
		Prices: prices,
		Funding: []domain.FundingPoint{
			{Date: day(3).Date, Symbol: "A", RatePct: 0.01, IntradayLow: fp(-0.02), IntradayHigh: fp(0.03)},
			{Date: day(4).Date, Symbol: "A", RatePct: 0.02, IntradayHigh: fp(0.05)},
			{Date: day(5).Date, Symbol: "A", RatePct: 0.04, IntradayLow: fp(-0.01)},
		},
		Supply: []domain.SupplySnapshot{
			{Date: day(0).Date, Symbol: "A", CirculatingSupply: fp(1000)},
			{Date: day(4).Date, Symbol: "B", MarketCap: fp(7e9)},
		},
	})
	require.NoError(t, err)
	return idx
}

func TestPanelIndex(t *testing.T) {
	idx := newTestIndex(t)

	t.Run("symbols on date", func(t *testing.T) {
		require.Equal(t, []string{"A", "B"}, idx.Symbols())
		require.Equal(t, []string{"A"}, idx.SymbolsOn(day(2).Date))
		require.Equal(t, []string{"A", "B"}, idx.SymbolsOn(day(3).Date))
		require.Empty(t, idx.SymbolsOn(day(10).Date))
	})

	t.Run("simple return lookups", func(t *testing.T) {
		_, ok := idx.SimpleReturn("A", day(0).Date)
		require.False(t, ok)

		r, ok := idx.SimpleReturn("A", day(5).Date)
		require.True(t, ok)
		require.InDelta(t, -0.5, r, 1e-15)

		_, ok = idx.SimpleReturn("B", day(2).Date)
		require.False(t, ok)

		// spans the missing day
		r, ok = idx.SimpleReturn("B", day(3).Date)
		require.True(t, ok)
		require.InDelta(t, 53.0/51-1, r, 1e-12)
	})
}

func TestHistory(t *testing.T) {
	idx := newTestIndex(t)

	t.Run("returns window is trailing and causal", func(t *testing.T) {
		h := idx.History("A", day(3).Date, domain.ReturnKind_Simple)
		dates, rets := h.DatedReturns(3)
		require.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, []string{
			util.FormatDate(dates[0]), util.FormatDate(dates[1]), util.FormatDate(dates[2]),
		})
		require.InDelta(t, 0.1, rets[0], 1e-12)
		require.InDelta(t, 120.0/99-1, rets[2], 1e-12)

		// a window longer than the data never includes the first row
		require.Len(t, h.Returns(30), 3)
	})

	t.Run("log convention", func(t *testing.T) {
		h := idx.History("A", day(5).Date, domain.ReturnKind_Log)
		rets := h.Returns(1)
		require.Len(t, rets, 1)
		require.InDelta(t, -0.6931471805599453, rets[0], 1e-12)
	})

	t.Run("close as of clamps to the view date", func(t *testing.T) {
		h := idx.History("B", day(2).Date, domain.ReturnKind_Simple)
		_, ok := h.Close()
		require.False(t, ok)

		c, d, ok := h.CloseAsOf(day(5).Date)
		require.True(t, ok)
		require.Equal(t, 51.0, c)
		require.Equal(t, day(1).Date, d)
	})

	t.Run("volumes", func(t *testing.T) {
		h := idx.History("A", day(5).Date, domain.ReturnKind_Simple)
		require.Equal(t, []float64{50, 60}, h.Volumes(2))
		require.Empty(t, idx.History("B", day(5).Date, domain.ReturnKind_Simple).Volumes(5))
	})

	t.Run("funding sources", func(t *testing.T) {
		h := idx.History("A", day(4).Date, domain.ReturnKind_Simple)
		require.Equal(t, []float64{0.01, 0.02}, h.Funding(7, domain.FundingSource_Daily))
		require.Equal(t, []float64{-0.02}, h.Funding(7, domain.FundingSource_IntradayLow))
		require.Equal(t, []float64{0.03, 0.05}, h.Funding(7, domain.FundingSource_IntradayHigh))
		require.Equal(t, []float64{0.02}, h.Funding(1, domain.FundingSource_Daily))
	})

	t.Run("other symbol shares the as-of date", func(t *testing.T) {
		h := idx.History("A", day(2).Date, domain.ReturnKind_Simple).Other("B")
		require.Equal(t, "B", h.Symbol)
		require.Equal(t, day(2).Date, h.Date)
		require.False(t, h.HasPrice())
	})
}

func TestHistory_Snapshots(t *testing.T) {
	idx := newTestIndex(t)

	t.Run("forward fill within bound", func(t *testing.T) {
		h := idx.History("A", day(5).Date, domain.ReturnKind_Simple)
		s, err := h.SupplyAsOf(h.Date, 5)
		require.NoError(t, err)
		require.Equal(t, 1000.0, *s.CirculatingSupply)

		_, err = h.SupplyAsOf(h.Date, 4)
		require.ErrorIs(t, err, domain.ErrStaleSnapshot)
	})

	t.Run("future snapshot is invisible", func(t *testing.T) {
		h := idx.History("B", day(3).Date, domain.ReturnKind_Simple)
		_, err := h.SupplyAsOf(day(4).Date, 35)
		require.ErrorIs(t, err, domain.ErrInsufficientHistory)
	})

	t.Run("market cap priority", func(t *testing.T) {
		// close x fresh circulating supply
		mc, err := idx.History("A", day(5).Date, domain.ReturnKind_Simple).MarketCap(35)
		require.NoError(t, err)
		require.Equal(t, 60.0*1000, mc)

		// supply too stale and no other source
		_, err = idx.History("A", day(5).Date, domain.ReturnKind_Simple).MarketCap(2)
		require.ErrorIs(t, err, domain.ErrStaleSnapshot)

		// price row market cap beats snapshot market cap
		mc, err = idx.History("B", day(5).Date, domain.ReturnKind_Simple).MarketCap(35)
		require.NoError(t, err)
		require.Equal(t, 9e9, mc)

		// snapshot market cap when the row has none
		mc, err = idx.History("B", day(4).Date, domain.ReturnKind_Simple).MarketCap(35)
		require.NoError(t, err)
		require.Equal(t, 7e9, mc)

		_, err = idx.History("B", day(2).Date, domain.ReturnKind_Simple).MarketCap(35)
		require.ErrorIs(t, err, domain.ErrNoPrice)
	})
}
