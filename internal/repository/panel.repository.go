package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cryptofactor/internal/domain"
)

// PanelRepository loads the raw input panels. Implementations return rows
// in any order; validation and sorting happen in the return preparer.
type PanelRepository interface {
	ListPrices(ctx context.Context) ([]domain.PricePoint, error)
	ListFunding(ctx context.Context) ([]domain.FundingPoint, error)
	ListSupply(ctx context.Context) ([]domain.SupplySnapshot, error)
}

const dateLayout = "2006-01-02"

// parseDate accepts ISO dates and timestamps, keeping the calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s': %w", s, err)
	}
	return d, nil
}

// parseOptionalFloat maps empty, null and NaN cells to nil.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "nan", "na", "none":
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
