package l2_service

import (
	"errors"
	"fmt"
	"math"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"
)

const annualizationDays = 365

// Factor scores one symbol as of one date. Compute must only read through
// the History it is given. A value that cannot be produced is reported
// with one of the domain sentinels (ErrInsufficientHistory,
// ErrStaleSnapshot, ErrNoPrice); any other error aborts the run.
type Factor interface {
	Name() string
	Compute(h l1_service.History) (float64, error)
}

// IsMissing reports whether err only excludes a symbol for a date.
func IsMissing(err error) bool {
	return errors.Is(err, domain.ErrInsufficientHistory) ||
		errors.Is(err, domain.ErrStaleSnapshot) ||
		errors.Is(err, domain.ErrNoPrice)
}

// NewFactor selects the factor implementation for opts. The choice is
// made once per run.
func NewFactor(opts domain.FactorOptions) (Factor, error) {
	if err := opts.Valid(); err != nil {
		return nil, err
	}
	if opts.FundingSource == "" {
		opts.FundingSource = domain.FundingSource_Daily
	}
	if opts.SupplyField == "" {
		opts.SupplyField = domain.SupplyField_Circulating
	}

	minObs := opts.MinObservations()
	switch opts.Type {
	case domain.FactorType_Volatility:
		return volatilityFactor{window: opts.Window, minObs: minObs}, nil
	case domain.FactorType_Beta:
		return betaFactor{window: opts.Window, minObs: minObs, benchmark: opts.Benchmark}, nil
	case domain.FactorType_Funding:
		return fundingFactor{window: opts.Window, minObs: minObs, source: opts.FundingSource}, nil
	case domain.FactorType_Kurtosis:
		return kurtosisFactor{window: opts.Window, minObs: minObs}, nil
	case domain.FactorType_Skew:
		return skewFactor{window: opts.Window, minObs: minObs}, nil
	case domain.FactorType_MarketCap:
		return marketCapFactor{maxStaleDays: opts.MaxSnapshotStalenessDays}, nil
	case domain.FactorType_Turnover:
		return turnoverFactor{window: opts.Window, minObs: minObs, maxStaleDays: opts.MaxSnapshotStalenessDays}, nil
	case domain.FactorType_Dilution:
		return dilutionFactor{window: opts.Window, field: opts.SupplyField, maxStaleDays: opts.MaxSnapshotStalenessDays}, nil
	case domain.FactorType_Momentum:
		return momentumFactor{window: opts.Window}, nil
	case domain.FactorType_Expression:
		return newExpressionFactor(opts)
	}
	return nil, fmt.Errorf("unsupported factor type %s", opts.Type)
}

func requirePrice(h l1_service.History) error {
	if !h.HasPrice() {
		return domain.ErrNoPrice
	}
	return nil
}

func atLeast(n int, values ...int) int {
	for _, v := range values {
		if v > n {
			n = v
		}
	}
	return n
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.ErrInsufficientHistory
	}
	return f, nil
}
