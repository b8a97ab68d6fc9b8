package domain

import (
	"fmt"
	"strings"
	"time"
)

// PricePoint is one daily close for one symbol. Volume and MarketCap are
// optional columns in most source panels.
type PricePoint struct {
	Date      time.Time
	Symbol    string
	Close     float64
	Volume    *float64
	MarketCap *float64
}

type ReturnPoint struct {
	Date   time.Time
	Symbol string
	Return float64
}

type FundingPoint struct {
	Date         time.Time
	Symbol       string
	RatePct      float64
	IntradayLow  *float64
	IntradayHigh *float64
}

// SupplySnapshot is a low frequency (usually monthly) supply observation.
type SupplySnapshot struct {
	Date              time.Time
	Symbol            string
	CirculatingSupply *float64
	TotalSupply       *float64
	MarketCap         *float64
}

// Panel is the full input bundle for a backtest. It is treated as
// read-only once loaded and can be shared between concurrent runs.
type Panel struct {
	Prices  []PricePoint
	Funding []FundingPoint
	Supply  []SupplySnapshot
}

type ReturnKind string

const (
	ReturnKind_Simple ReturnKind = "SIMPLE"
	ReturnKind_Log    ReturnKind = "LOG"
)

func NewReturnKind(s string) (ReturnKind, error) {
	if s == "" {
		return ReturnKind_Simple, nil
	}
	for _, k := range []ReturnKind{ReturnKind_Simple, ReturnKind_Log} {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("could not convert '%s' to known return kind", s)
}
