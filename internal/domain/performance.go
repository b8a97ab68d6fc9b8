package domain

import "time"

// PerformanceSummary is computed once from the full daily return series.
// Every ratio is nil when it is undefined, e.g. fewer than two
// observations or zero volatility.
type PerformanceSummary struct {
	TotalReturn          *float64 `json:"totalReturn"`
	AnnualizedReturn     *float64 `json:"annualizedReturn"`
	AnnualizedVolatility *float64 `json:"annualizedVolatility"`
	Sharpe               *float64 `json:"sharpe"`
	Sortino              *float64 `json:"sortino"`
	MaxDrawdown          *float64 `json:"maxDrawdown"`
	WinRate              *float64 `json:"winRate"`
	AvgTurnover          *float64 `json:"avgTurnover"`

	NumDays       int     `json:"numDays"`
	NumRebalances int     `json:"numRebalances"`
	FinalValue    float64 `json:"finalValue"`
}

// Diagnostics aggregates the per date anomalies that exclude data without
// failing a run.
type Diagnostics struct {
	InsufficientHistory       int             `json:"insufficientHistory"`
	StaleSnapshots            int             `json:"staleSnapshots"`
	MissingPrices             int             `json:"missingPrices"`
	InverseVolExclusions      int             `json:"inverseVolExclusions"`
	MissingReturns            int             `json:"missingReturns"`
	InsufficientUniverseDates []time.Time     `json:"insufficientUniverseDates"`
	Concentration             []Concentration `json:"concentration"`
}

func (d *Diagnostics) AddConcentration(c ...Concentration) {
	d.Concentration = append(d.Concentration, c...)
}

func (d Diagnostics) IsClean() bool {
	return d.InsufficientHistory == 0 &&
		d.StaleSnapshots == 0 &&
		d.MissingPrices == 0 &&
		d.InverseVolExclusions == 0 &&
		d.MissingReturns == 0 &&
		len(d.InsufficientUniverseDates) == 0 &&
		len(d.Concentration) == 0
}
