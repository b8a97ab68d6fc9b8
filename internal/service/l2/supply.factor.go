package l2_service

import (
	"fmt"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"

	"github.com/montanaflynn/stats"
)

// fundingFactor is the trailing mean of one funding column.
type fundingFactor struct {
	window int
	minObs int
	source domain.FundingSource
}

func (f fundingFactor) Name() string {
	return fmt.Sprintf("funding(%d, %s)", f.window, f.source)
}

func (f fundingFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	rates := h.Funding(f.window, f.source)
	if len(rates) == 0 || len(rates) < f.minObs {
		return 0, domain.ErrInsufficientHistory
	}
	mean, err := stats.Mean(rates)
	if err != nil {
		return 0, fmt.Errorf("failed to compute funding mean for %s: %w", h.Symbol, err)
	}
	return finite(mean)
}

type marketCapFactor struct {
	maxStaleDays int
}

func (f marketCapFactor) Name() string {
	return "market_cap"
}

func (f marketCapFactor) Compute(h l1_service.History) (float64, error) {
	return h.MarketCap(f.maxStaleDays)
}

// turnoverFactor is mean trailing volume over market cap on Date.
type turnoverFactor struct {
	window       int
	minObs       int
	maxStaleDays int
}

func (f turnoverFactor) Name() string {
	return fmt.Sprintf("turnover(%d)", f.window)
}

func (f turnoverFactor) Compute(h l1_service.History) (float64, error) {
	marketCap, err := h.MarketCap(f.maxStaleDays)
	if err != nil {
		return 0, err
	}
	volumes := h.Volumes(f.window)
	if len(volumes) == 0 || len(volumes) < f.minObs {
		return 0, domain.ErrInsufficientHistory
	}
	mean, err := stats.Mean(volumes)
	if err != nil {
		return 0, fmt.Errorf("failed to compute mean volume for %s: %w", h.Symbol, err)
	}
	return finite(mean / marketCap)
}

// dilutionFactor is the relative change in supply between the snapshots
// in force at Date-window and at Date.
type dilutionFactor struct {
	window       int
	field        domain.SupplyField
	maxStaleDays int
}

func (f dilutionFactor) Name() string {
	return fmt.Sprintf("dilution(%d, %s)", f.window, f.field)
}

func (f dilutionFactor) supply(s domain.SupplySnapshot) *float64 {
	if f.field == domain.SupplyField_Total {
		return s.TotalSupply
	}
	return s.CirculatingSupply
}

func (f dilutionFactor) Compute(h l1_service.History) (float64, error) {
	if err := requirePrice(h); err != nil {
		return 0, err
	}
	current, err := h.SupplyAsOf(h.Date, f.maxStaleDays)
	if err != nil {
		return 0, err
	}
	previous, err := h.SupplyAsOf(h.Date.AddDate(0, 0, -f.window), f.maxStaleDays)
	if err != nil {
		return 0, err
	}
	cur, prev := f.supply(current), f.supply(previous)
	if cur == nil || prev == nil || *prev <= 0 {
		return 0, domain.ErrInsufficientHistory
	}
	return finite(*cur / *prev - 1)
}
