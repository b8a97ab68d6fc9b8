package l1_service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/repository"
	"cryptofactor/internal/util"

	"golang.org/x/sync/errgroup"
)

func isBadOptional(f *float64) bool {
	return f != nil && (*f < 0 || math.IsNaN(*f) || math.IsInf(*f, 0))
}

// ValidatePanel checks every input panel for the integrity problems that
// abort a run.
func ValidatePanel(panel domain.Panel) error {
	if len(panel.Prices) == 0 {
		return domain.DataIntegrityError{Reason: "price panel is empty"}
	}
	if err := validatePrices(panel.Prices); err != nil {
		return err
	}

	bad := []string{}
	for _, p := range panel.Prices {
		if isBadOptional(p.Volume) || isBadOptional(p.MarketCap) {
			bad = append(bad, describePrice(p))
		}
	}
	if len(bad) > 0 {
		return domain.DataIntegrityError{Reason: "negative volume or market cap", Rows: bad}
	}

	seen := map[dateSymbol]int{}
	for _, f := range panel.Funding {
		seen[dateSymbol{util.FormatDate(util.Day(f.Date)), f.Symbol}]++
	}
	for k, n := range seen {
		if n > 1 {
			bad = append(bad, fmt.Sprintf("%s %s funding x%d", k.date, k.symbol, n))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return domain.DataIntegrityError{Reason: "duplicate funding (date, symbol)", Rows: bad}
	}

	seen = map[dateSymbol]int{}
	for _, s := range panel.Supply {
		key := dateSymbol{util.FormatDate(util.Day(s.Date)), s.Symbol}
		seen[key]++
		if isBadOptional(s.CirculatingSupply) || isBadOptional(s.TotalSupply) || isBadOptional(s.MarketCap) {
			bad = append(bad, fmt.Sprintf("%s %s negative supply", key.date, key.symbol))
		}
	}
	for k, n := range seen {
		if n > 1 {
			bad = append(bad, fmt.Sprintf("%s %s supply x%d", k.date, k.symbol, n))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return domain.DataIntegrityError{Reason: "invalid supply snapshots", Rows: bad}
	}

	return nil
}

// LoadPanel reads all three panels concurrently and validates them.
func LoadPanel(ctx context.Context, repo repository.PanelRepository) (*domain.Panel, error) {
	log := logger.FromContext(ctx)
	panel := &domain.Panel{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prices, err := repo.ListPrices(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load prices: %w", err)
		}
		panel.Prices = prices
		return nil
	})
	g.Go(func() error {
		funding, err := repo.ListFunding(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load funding rates: %w", err)
		}
		panel.Funding = funding
		return nil
	})
	g.Go(func() error {
		supply, err := repo.ListSupply(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load supply snapshots: %w", err)
		}
		panel.Supply = supply
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ValidatePanel(*panel); err != nil {
		return nil, err
	}

	log.Infow("loaded panel",
		"prices", len(panel.Prices),
		"funding", len(panel.Funding),
		"supply", len(panel.Supply),
	)
	return panel, nil
}
