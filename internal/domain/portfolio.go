package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WeightPoint carries a signed dollar weight: positive for LONG, negative
// for SHORT.
type WeightPoint struct {
	Date   time.Time
	Symbol string
	Weight float64
}

type WeightingMethod string

const (
	WeightingMethod_Equal      WeightingMethod = "EQUAL"
	WeightingMethod_InverseVol WeightingMethod = "INVERSE_VOL"
)

func NewWeightingMethod(s string) (WeightingMethod, error) {
	m := map[string]WeightingMethod{
		"EQUAL":        WeightingMethod_Equal,
		"EQUAL_WEIGHT": WeightingMethod_Equal,
		"INVERSE_VOL":  WeightingMethod_InverseVol,
		"RISK_PARITY":  WeightingMethod_InverseVol,
	}
	for k, v := range m {
		if strings.EqualFold(normalizeEnum(k), normalizeEnum(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known weighting method", s)
}

// UniversePolicy decides what the book does on a rebalance date that
// cannot produce positions.
type UniversePolicy string

const (
	UniversePolicy_Flatten UniversePolicy = "FLATTEN"
	UniversePolicy_Hold    UniversePolicy = "HOLD"
)

func NewUniversePolicy(s string) (UniversePolicy, error) {
	if s == "" {
		return UniversePolicy_Flatten, nil
	}
	for _, p := range []UniversePolicy{UniversePolicy_Flatten, UniversePolicy_Hold} {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known insufficient universe policy", s)
}

// Weights maps symbol to signed weight. A nil or empty set is a flat book.
type Weights map[string]float64

func (w Weights) Symbols() []string {
	symbols := make([]string, 0, len(w))
	for symbol := range w {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func (w Weights) Gross() float64 {
	out := 0.0
	for _, symbol := range w.Symbols() {
		out += math.Abs(w[symbol])
	}
	return out
}

func (w Weights) Net() float64 {
	out := 0.0
	for _, symbol := range w.Symbols() {
		out += w[symbol]
	}
	return out
}

// Turnover is sum |w - prev| over the union of both books.
func (w Weights) Turnover(prev Weights) float64 {
	union := map[string]struct{}{}
	for s := range w {
		union[s] = struct{}{}
	}
	for s := range prev {
		union[s] = struct{}{}
	}
	symbols := make([]string, 0, len(union))
	for s := range union {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := 0.0
	for _, s := range symbols {
		out += math.Abs(w[s] - prev[s])
	}
	return out
}

func (w Weights) Points(date time.Time) []WeightPoint {
	out := make([]WeightPoint, 0, len(w))
	for _, symbol := range w.Symbols() {
		out = append(out, WeightPoint{
			Date:   date,
			Symbol: symbol,
			Weight: w[symbol],
		})
	}
	return out
}

// PortfolioState is the end of day book. Positions are the weights held
// into the next day; Return is the return realized on Date.
type PortfolioState struct {
	Date           time.Time
	Cash           decimal.Decimal
	Positions      Weights
	Value          decimal.Decimal
	Return         float64
	Rebalanced     bool
	MissingReturns int
}

type RebalanceRecord struct {
	Date                 time.Time `json:"date"`
	NumLong              int       `json:"numLong"`
	NumShort             int       `json:"numShort"`
	Turnover             float64   `json:"turnover"`
	Cost                 float64   `json:"cost"`
	InsufficientUniverse bool      `json:"insufficientUniverse"`
}
