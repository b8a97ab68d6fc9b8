package l1_service

import (
	"math"
	"time"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"
)

// History is a read-only view of one symbol truncated at Date. Every
// accessor clamps to rows dated on or before Date, so a factor computed
// from a History cannot see the future.
type History struct {
	index  *PanelIndex
	series *symbolSeries

	Symbol string
	Date   time.Time
	Kind   domain.ReturnKind
}

// Other is the same as-of view over a different symbol, e.g. a benchmark.
func (h History) Other(symbol string) History {
	return h.index.History(symbol, h.Date, h.Kind)
}

func (h History) clamp(date time.Time) time.Time {
	date = util.Day(date)
	if date.After(h.Date) {
		return h.Date
	}
	return date
}

func (h History) HasPrice() bool {
	_, ok := position(h.series.dates, h.Date)
	return ok
}

// Close is the close on Date itself.
func (h History) Close() (float64, bool) {
	i, ok := position(h.series.dates, h.Date)
	if !ok {
		return 0, false
	}
	return h.series.prices[i].Close, true
}

// CloseAsOf is the latest close on or before date (clamped to Date).
func (h History) CloseAsOf(date time.Time) (float64, time.Time, bool) {
	date = h.clamp(date)
	i, ok := position(h.series.dates, date)
	if !ok {
		i--
	}
	if i < 0 {
		return 0, time.Time{}, false
	}
	return h.series.prices[i].Close, h.series.dates[i], true
}

// MarketCapRow is the market cap column of the price row on Date, if any.
func (h History) MarketCapRow() *float64 {
	i, ok := position(h.series.dates, h.Date)
	if !ok {
		return nil
	}
	return h.series.prices[i].MarketCap
}

func (h History) convert(r float64) float64 {
	if h.Kind == domain.ReturnKind_Log {
		return math.Log1p(r)
	}
	return r
}

// DatedReturns lists returns realized in (Date-days, Date] in the run's
// return convention.
func (h History) DatedReturns(days int) ([]time.Time, []float64) {
	lo, hi := window(h.series.dates, h.Date, days)
	if lo == 0 {
		lo = 1
	}
	dates := []time.Time{}
	out := []float64{}
	for i := lo; i < hi; i++ {
		dates = append(dates, h.series.dates[i])
		out = append(out, h.convert(h.series.returns[i]))
	}
	return dates, out
}

func (h History) Returns(days int) []float64 {
	_, out := h.DatedReturns(days)
	return out
}

// Volumes lists non-null volumes in (Date-days, Date].
func (h History) Volumes(days int) []float64 {
	lo, hi := window(h.series.dates, h.Date, days)
	out := []float64{}
	for i := lo; i < hi; i++ {
		if v := h.series.prices[i].Volume; v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Funding lists the chosen funding column over (Date-days, Date]. Null
// intraday extremes are skipped.
func (h History) Funding(days int, source domain.FundingSource) []float64 {
	lo, hi := window(h.series.fundingDates, h.Date, days)
	out := []float64{}
	for i := lo; i < hi; i++ {
		f := h.series.funding[i]
		switch source {
		case domain.FundingSource_IntradayLow:
			if f.IntradayLow != nil {
				out = append(out, *f.IntradayLow)
			}
		case domain.FundingSource_IntradayHigh:
			if f.IntradayHigh != nil {
				out = append(out, *f.IntradayHigh)
			}
		default:
			out = append(out, f.RatePct)
		}
	}
	return out
}
