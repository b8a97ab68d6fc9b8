package l1_service

import (
	"fmt"
	"math"
	"sort"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"
)

func describePrice(p domain.PricePoint) string {
	return fmt.Sprintf("%s %s close=%g", util.FormatDate(p.Date), p.Symbol, p.Close)
}

type dateSymbol struct {
	date   string
	symbol string
}

// validatePrices rejects rows that would make any return ambiguous or
// undefined. All offending rows are reported, not just the first.
func validatePrices(prices []domain.PricePoint) error {
	bad := []string{}
	for _, p := range prices {
		if p.Symbol == "" {
			bad = append(bad, describePrice(p))
		}
	}
	if len(bad) > 0 {
		return domain.DataIntegrityError{Reason: "empty symbol", Rows: bad}
	}

	for _, p := range prices {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			bad = append(bad, describePrice(p))
		}
	}
	if len(bad) > 0 {
		return domain.DataIntegrityError{Reason: "non-positive or non-finite close", Rows: bad}
	}

	seen := map[dateSymbol]int{}
	for _, p := range prices {
		seen[dateSymbol{util.FormatDate(util.Day(p.Date)), p.Symbol}]++
	}
	for _, p := range prices {
		if seen[dateSymbol{util.FormatDate(util.Day(p.Date)), p.Symbol}] > 1 {
			bad = append(bad, describePrice(p))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return domain.DataIntegrityError{Reason: "duplicate (date, symbol)", Rows: bad}
	}
	return nil
}

// groupPrices normalizes dates to calendar days and sorts each symbol's
// rows by date.
func groupPrices(prices []domain.PricePoint) map[string][]domain.PricePoint {
	out := map[string][]domain.PricePoint{}
	for _, p := range prices {
		p.Date = util.Day(p.Date)
		out[p.Symbol] = append(out[p.Symbol], p)
	}
	for _, series := range out {
		sort.Slice(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
	}
	return out
}

func periodReturn(prev, cur float64, kind domain.ReturnKind) float64 {
	if kind == domain.ReturnKind_Log {
		return math.Log(cur / prev)
	}
	return cur/prev - 1
}

// PrepareReturns computes per symbol returns between consecutive
// observations. The first observation of each symbol yields no row, so a
// symbol with a single price contributes nothing. Output is ordered by
// symbol then date.
func PrepareReturns(prices []domain.PricePoint, kind domain.ReturnKind) ([]domain.ReturnPoint, error) {
	if err := validatePrices(prices); err != nil {
		return nil, err
	}

	bySymbol := groupPrices(prices)
	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	out := []domain.ReturnPoint{}
	for _, symbol := range symbols {
		series := bySymbol[symbol]
		for i := 1; i < len(series); i++ {
			out = append(out, domain.ReturnPoint{
				Date:   series[i].Date,
				Symbol: symbol,
				Return: periodReturn(series[i-1].Close, series[i].Close, kind),
			})
		}
	}
	return out, nil
}
