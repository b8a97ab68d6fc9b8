package l1_service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"
)

type symbolSeries struct {
	prices []domain.PricePoint
	dates  []time.Time
	// returns[i] is the simple return realized on dates[i]; returns[0] is NaN
	returns []float64

	funding      []domain.FundingPoint
	fundingDates []time.Time

	supply      []domain.SupplySnapshot
	supplyDates []time.Time
}

// PanelIndex is the validated, per symbol, date sorted view of a panel.
// It is immutable after construction and safe to share between
// goroutines.
type PanelIndex struct {
	series  map[string]*symbolSeries
	symbols []string
	first   time.Time
	last    time.Time
}

// NewPanelIndex validates the panel and precomputes simple returns.
func NewPanelIndex(panel domain.Panel) (*PanelIndex, error) {
	if err := ValidatePanel(panel); err != nil {
		return nil, err
	}
	returns, err := PrepareReturns(panel.Prices, domain.ReturnKind_Simple)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare returns: %w", err)
	}

	idx := &PanelIndex{series: map[string]*symbolSeries{}}
	get := func(symbol string) *symbolSeries {
		s, ok := idx.series[symbol]
		if !ok {
			s = &symbolSeries{}
			idx.series[symbol] = s
		}
		return s
	}

	for symbol, prices := range groupPrices(panel.Prices) {
		s := get(symbol)
		s.prices = prices
		s.dates = make([]time.Time, len(prices))
		s.returns = make([]float64, len(prices))
		for i, p := range prices {
			s.dates[i] = p.Date
			s.returns[i] = math.NaN()
		}
		if idx.first.IsZero() || prices[0].Date.Before(idx.first) {
			idx.first = prices[0].Date
		}
		if prices[len(prices)-1].Date.After(idx.last) {
			idx.last = prices[len(prices)-1].Date
		}
	}
	for _, r := range returns {
		s := idx.series[r.Symbol]
		i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(r.Date) })
		s.returns[i] = r.Return
	}

	for _, f := range panel.Funding {
		f.Date = util.Day(f.Date)
		s := get(f.Symbol)
		s.funding = append(s.funding, f)
	}
	for _, sp := range panel.Supply {
		sp.Date = util.Day(sp.Date)
		s := get(sp.Symbol)
		s.supply = append(s.supply, sp)
	}
	for symbol, s := range idx.series {
		sort.Slice(s.funding, func(i, j int) bool { return s.funding[i].Date.Before(s.funding[j].Date) })
		sort.Slice(s.supply, func(i, j int) bool { return s.supply[i].Date.Before(s.supply[j].Date) })
		for _, f := range s.funding {
			s.fundingDates = append(s.fundingDates, f.Date)
		}
		for _, sp := range s.supply {
			s.supplyDates = append(s.supplyDates, sp.Date)
		}
		idx.symbols = append(idx.symbols, symbol)
	}
	sort.Strings(idx.symbols)

	return idx, nil
}

func (p *PanelIndex) Symbols() []string {
	return append([]string{}, p.symbols...)
}

// DateRange is the first and last price date across all symbols.
func (p *PanelIndex) DateRange() (time.Time, time.Time) {
	return p.first, p.last
}

// position returns the index of date in dates, if present.
func position(dates []time.Time, date time.Time) (int, bool) {
	i := sort.Search(len(dates), func(i int) bool { return !dates[i].Before(date) })
	if i < len(dates) && dates[i].Equal(date) {
		return i, true
	}
	return i, false
}

// window returns [lo, hi) over dates for the interval (date-days, date].
func window(dates []time.Time, date time.Time, days int) (int, int) {
	start := date.AddDate(0, 0, -days)
	lo := sort.Search(len(dates), func(i int) bool { return dates[i].After(start) })
	hi := sort.Search(len(dates), func(i int) bool { return dates[i].After(date) })
	return lo, hi
}

// SymbolsOn lists symbols with a price row on date, sorted.
func (p *PanelIndex) SymbolsOn(date time.Time) []string {
	date = util.Day(date)
	out := []string{}
	for _, symbol := range p.symbols {
		if _, ok := position(p.series[symbol].dates, date); ok {
			out = append(out, symbol)
		}
	}
	return out
}

// SimpleReturn is the return realized on date, from the symbol's previous
// observation to date. It is missing when there is no price on date or no
// earlier price.
func (p *PanelIndex) SimpleReturn(symbol string, date time.Time) (float64, bool) {
	s, ok := p.series[symbol]
	if !ok {
		return 0, false
	}
	i, ok := position(s.dates, util.Day(date))
	if !ok || i == 0 {
		return 0, false
	}
	return s.returns[i], true
}

// History returns the causal view of symbol as of date.
func (p *PanelIndex) History(symbol string, date time.Time, kind domain.ReturnKind) History {
	s, ok := p.series[symbol]
	if !ok {
		s = &symbolSeries{}
	}
	return History{
		index:  p,
		series: s,
		Symbol: symbol,
		Date:   util.Day(date),
		Kind:   kind,
	}
}
