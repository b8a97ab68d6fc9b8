package domain

import (
	"fmt"
	"math"
	"time"
)

// Params is the immutable configuration of one backtest. Engine stages
// receive it by value.
type Params struct {
	Factor                FactorOptions
	Direction             Direction
	RebalanceIntervalDays int
	BucketRule            BucketRule
	Weighting             WeightingMethod
	VolWindow             int
	LongAllocation        float64
	ShortAllocation       float64
	StartDate             time.Time
	EndDate               time.Time
	MinPerSide            int
	TransactionCostBps    float64
	InitialCapital        float64
	RiskFreeRate          float64
	UniversePolicy        UniversePolicy
}

const (
	DefaultVolWindow                = 30
	DefaultMaxSnapshotStalenessDays = 35
	DefaultInitialCapital           = 10000.0
)

// WithDefaults fills zero-valued optional fields.
func (p Params) WithDefaults() Params {
	if p.VolWindow == 0 {
		p.VolWindow = DefaultVolWindow
	}
	if p.InitialCapital == 0 {
		p.InitialCapital = DefaultInitialCapital
	}
	if p.MinPerSide == 0 {
		p.MinPerSide = 1
	}
	if p.UniversePolicy == "" {
		p.UniversePolicy = UniversePolicy_Flatten
	}
	if p.Factor.ReturnKind == "" {
		p.Factor.ReturnKind = ReturnKind_Simple
	}
	if p.Factor.FundingSource == "" {
		p.Factor.FundingSource = FundingSource_Daily
	}
	if p.Factor.SupplyField == "" {
		p.Factor.SupplyField = SupplyField_Circulating
	}
	if p.Factor.MaxSnapshotStalenessDays == 0 {
		p.Factor.MaxSnapshotStalenessDays = DefaultMaxSnapshotStalenessDays
	}
	return p
}

// MinUniverse is the smallest cross-section that can produce positions.
func (p Params) MinUniverse() int {
	return 2 * p.MinPerSide
}

func (p Params) Valid() error {
	if err := p.Factor.Valid(); err != nil {
		return err
	}
	if p.Direction != Direction_LowLong && p.Direction != Direction_HighLong {
		return ParamsError{Field: "strategy_direction", Reason: fmt.Sprintf("'%s' is not supported", p.Direction)}
	}
	if p.RebalanceIntervalDays <= 0 {
		return ParamsError{Field: "rebalance_interval_days", Reason: "must be positive"}
	}
	if err := p.BucketRule.Valid(); err != nil {
		return err
	}
	if p.Weighting != WeightingMethod_Equal && p.Weighting != WeightingMethod_InverseVol {
		return ParamsError{Field: "weighting_method", Reason: fmt.Sprintf("'%s' is not supported", p.Weighting)}
	}
	if p.Weighting == WeightingMethod_InverseVol && p.VolWindow < 2 {
		return ParamsError{Field: "vol_window", Reason: "must be at least 2 for inverse_vol"}
	}
	for name, alloc := range map[string]float64{"long_allocation": p.LongAllocation, "short_allocation": p.ShortAllocation} {
		if alloc < 0 || math.IsNaN(alloc) || math.IsInf(alloc, 0) {
			return ParamsError{Field: name, Reason: "must be a non-negative number"}
		}
	}
	if p.LongAllocation == 0 && p.ShortAllocation == 0 {
		return ParamsError{Field: "long_allocation", Reason: "and short_allocation cannot both be 0"}
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return ParamsError{Field: "start_date", Reason: "and end_date are required"}
	}
	if p.EndDate.Before(p.StartDate) {
		return ParamsError{Field: "end_date", Reason: "cannot be before start_date"}
	}
	if p.MinPerSide < 1 {
		return ParamsError{Field: "min_universe_size_per_side", Reason: "must be at least 1"}
	}
	if p.BucketRule.Kind == BucketRule_TopBottom && int(p.BucketRule.Param) < p.MinPerSide {
		return ParamsError{Field: "bucket_rule", Reason: "top_bottom N cannot be below min_universe_size_per_side"}
	}
	if p.TransactionCostBps < 0 {
		return ParamsError{Field: "transaction_cost_bps", Reason: "cannot be negative"}
	}
	if p.InitialCapital <= 0 {
		return ParamsError{Field: "initial_capital", Reason: "must be positive"}
	}
	if p.UniversePolicy != UniversePolicy_Flatten && p.UniversePolicy != UniversePolicy_Hold {
		return ParamsError{Field: "insufficient_universe_policy", Reason: fmt.Sprintf("'%s' is not supported", p.UniversePolicy)}
	}
	return nil
}
