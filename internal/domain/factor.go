package domain

import (
	"fmt"
	"strings"
	"time"
)

type FactorPoint struct {
	Date   time.Time
	Symbol string
	Value  float64
}

type FactorType string

const (
	FactorType_Volatility FactorType = "VOLATILITY"
	FactorType_Beta       FactorType = "BETA"
	FactorType_Funding    FactorType = "FUNDING"
	FactorType_Kurtosis   FactorType = "KURTOSIS"
	FactorType_Skew       FactorType = "SKEW"
	FactorType_MarketCap  FactorType = "MARKET_CAP"
	FactorType_Turnover   FactorType = "TURNOVER"
	FactorType_Dilution   FactorType = "DILUTION"
	FactorType_Momentum   FactorType = "MOMENTUM"
	FactorType_Expression FactorType = "EXPRESSION"
)

func AllFactorTypes() []FactorType {
	return []FactorType{
		FactorType_Volatility,
		FactorType_Beta,
		FactorType_Funding,
		FactorType_Kurtosis,
		FactorType_Skew,
		FactorType_MarketCap,
		FactorType_Turnover,
		FactorType_Dilution,
		FactorType_Momentum,
		FactorType_Expression,
	}
}

func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "_", ""), "-", "")
}

func NewFactorType(s string) (FactorType, error) {
	aliases := map[string]FactorType{
		"VOL":      FactorType_Volatility,
		"CARRY":    FactorType_Funding,
		"SIZE":     FactorType_MarketCap,
		"REVERSAL": FactorType_Momentum,
		"FORMULA":  FactorType_Expression,
		"KURT":     FactorType_Kurtosis,
		"SKEWNESS": FactorType_Skew,
	}
	for _, f := range AllFactorTypes() {
		if strings.EqualFold(normalizeEnum(string(f)), normalizeEnum(s)) {
			return f, nil
		}
	}
	for k, v := range aliases {
		if strings.EqualFold(normalizeEnum(k), normalizeEnum(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known factor type", s)
}

// FundingSource picks which column of the funding panel a carry factor reads.
type FundingSource string

const (
	FundingSource_Daily        FundingSource = "DAILY"
	FundingSource_IntradayLow  FundingSource = "INTRADAY_LOW"
	FundingSource_IntradayHigh FundingSource = "INTRADAY_HIGH"
)

func NewFundingSource(s string) (FundingSource, error) {
	if s == "" {
		return FundingSource_Daily, nil
	}
	for _, f := range []FundingSource{FundingSource_Daily, FundingSource_IntradayLow, FundingSource_IntradayHigh} {
		if strings.EqualFold(normalizeEnum(string(f)), normalizeEnum(s)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known funding source", s)
}

type SupplyField string

const (
	SupplyField_Circulating SupplyField = "CIRCULATING"
	SupplyField_Total       SupplyField = "TOTAL"
)

func NewSupplyField(s string) (SupplyField, error) {
	if s == "" {
		return SupplyField_Circulating, nil
	}
	for _, f := range []SupplyField{SupplyField_Circulating, SupplyField_Total} {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known supply field", s)
}

// FactorOptions configures one factor family. Window and MinHistory are in
// calendar days; ReturnKind applies to every return-based factor in a run.
type FactorOptions struct {
	Type       FactorType
	Window     int
	MinHistory int

	ReturnKind               ReturnKind
	Benchmark                string
	FundingSource            FundingSource
	SupplyField              SupplyField
	MaxSnapshotStalenessDays int
	Expression               string
}

// MinObservations is the number of observations a window needs before a
// value is emitted. Zero MinHistory means the full window.
func (o FactorOptions) MinObservations() int {
	if o.MinHistory > 0 {
		return o.MinHistory
	}
	return o.Window
}

func (o FactorOptions) Valid() error {
	prefix := fmt.Sprintf("factor type is %s", o.Type)
	switch o.Type {
	case FactorType_MarketCap:
	case FactorType_Expression:
		if strings.TrimSpace(o.Expression) == "" {
			return ParamsError{Field: "expression", Reason: "is empty; " + prefix}
		}
	case FactorType_Beta:
		if o.Benchmark == "" {
			return ParamsError{Field: "benchmark", Reason: "is empty; " + prefix}
		}
		fallthrough
	case FactorType_Volatility, FactorType_Funding, FactorType_Kurtosis, FactorType_Skew,
		FactorType_Turnover, FactorType_Dilution, FactorType_Momentum:
		if o.Window <= 0 {
			return ParamsError{Field: "window", Reason: "must be positive; " + prefix}
		}
	default:
		return ParamsError{Field: "factor_type", Reason: fmt.Sprintf("'%s' is not supported", o.Type)}
	}
	if o.MinHistory < 0 {
		return ParamsError{Field: "min_history", Reason: "cannot be negative"}
	}
	if o.MaxSnapshotStalenessDays < 0 {
		return ParamsError{Field: "max_snapshot_staleness_days", Reason: "cannot be negative"}
	}
	return nil
}
