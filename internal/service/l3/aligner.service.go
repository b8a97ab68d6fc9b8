package l3_service

import (
	"time"

	"cryptofactor/internal/domain"
)

// ReturnSource looks up the simple return realized on a date.
type ReturnSource interface {
	SimpleReturn(symbol string, date time.Time) (float64, bool)
}

// AlignedReturn pairs a weight with the return it earns. Missing is set
// when the symbol has no return on RealizedDate; the position is marked
// at its last price and contributes nothing.
type AlignedReturn struct {
	Symbol       string
	Weight       float64
	DecisionDate time.Time
	RealizedDate time.Time
	Return       float64
	Missing      bool
}

// AlignReturns applies weights decided at the close of decisionDate to the
// returns realized on realizedDate, ordered by symbol.
func AlignReturns(source ReturnSource, held domain.Weights, decisionDate, realizedDate time.Time) ([]AlignedReturn, error) {
	out := make([]AlignedReturn, 0, len(held))
	for _, symbol := range held.Symbols() {
		if !decisionDate.Before(realizedDate) {
			return nil, domain.AlignmentViolation{
				Symbol:       symbol,
				DecisionDate: decisionDate,
				RealizedDate: realizedDate,
			}
		}
		r, ok := source.SimpleReturn(symbol, realizedDate)
		if !ok {
			r = 0
		}
		out = append(out, AlignedReturn{
			Symbol:       symbol,
			Weight:       held[symbol],
			DecisionDate: decisionDate,
			RealizedDate: realizedDate,
			Return:       r,
			Missing:      !ok,
		})
	}
	return out, nil
}

// PortfolioReturn is sum(weight * return) in symbol order.
func PortfolioReturn(aligned []AlignedReturn) (float64, int) {
	total := 0.0
	missing := 0
	for _, a := range aligned {
		if a.Missing {
			missing++
			continue
		}
		total += a.Weight * a.Return
	}
	return total, missing
}
