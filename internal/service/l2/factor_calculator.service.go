package l2_service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"cryptofactor/internal/domain"
	l1_service "cryptofactor/internal/service/l1"
	"cryptofactor/internal/util"

	"golang.org/x/sync/errgroup"
)

// CrossSection holds every valid factor value on one date, sorted by
// symbol, plus the counts of symbols left out and why.
type CrossSection struct {
	Date   time.Time
	Points []domain.FactorPoint

	InsufficientHistory int
	StaleSnapshots      int
	MissingPrices       int
}

func (c CrossSection) Values() map[string]float64 {
	out := make(map[string]float64, len(c.Points))
	for _, p := range c.Points {
		out[p.Symbol] = p.Value
	}
	return out
}

// FactorCalculator evaluates one factor over the symbols priced on each
// date of a panel.
type FactorCalculator struct {
	index  *l1_service.PanelIndex
	factor Factor
	kind   domain.ReturnKind
}

func NewFactorCalculator(index *l1_service.PanelIndex, opts domain.FactorOptions) (*FactorCalculator, error) {
	factor, err := NewFactor(opts)
	if err != nil {
		return nil, err
	}
	kind := opts.ReturnKind
	if kind == "" {
		kind = domain.ReturnKind_Simple
	}
	return &FactorCalculator{
		index:  index,
		factor: factor,
		kind:   kind,
	}, nil
}

func (c *FactorCalculator) Name() string {
	return c.factor.Name()
}

// CrossSection computes the factor for every symbol with a price on date.
func (c *FactorCalculator) CrossSection(date time.Time) (*CrossSection, error) {
	date = util.Day(date)
	out := &CrossSection{
		Date:   date,
		Points: []domain.FactorPoint{},
	}
	for _, symbol := range c.index.SymbolsOn(date) {
		value, err := c.factor.Compute(c.index.History(symbol, date, c.kind))
		switch {
		case err == nil:
			out.Points = append(out.Points, domain.FactorPoint{
				Date:   date,
				Symbol: symbol,
				Value:  value,
			})
		case errors.Is(err, domain.ErrStaleSnapshot):
			out.StaleSnapshots++
		case errors.Is(err, domain.ErrNoPrice):
			out.MissingPrices++
		case errors.Is(err, domain.ErrInsufficientHistory):
			out.InsufficientHistory++
		default:
			return nil, fmt.Errorf("failed to compute %s for %s on %s: %w", c.factor.Name(), symbol, util.FormatDate(date), err)
		}
	}
	return out, nil
}

// Panel computes cross sections for all dates in parallel. The result is
// ordered like dates.
func (c *FactorCalculator) Panel(ctx context.Context, dates []time.Time) ([]*CrossSection, error) {
	out := make([]*CrossSection, len(dates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			cs, err := c.CrossSection(date)
			if err != nil {
				return err
			}
			out[i] = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
