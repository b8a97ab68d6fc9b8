package l3_service

import (
	"context"
	"fmt"
	"time"

	"cryptofactor/internal/domain"
	l2_service "cryptofactor/internal/service/l2"
)

// CrossSectionSource computes factor cross sections on demand.
type CrossSectionSource interface {
	CrossSection(date time.Time) (*l2_service.CrossSection, error)
	Panel(ctx context.Context, dates []time.Time) ([]*l2_service.CrossSection, error)
}

type RebalanceSchedule struct {
	Dates         []time.Time
	CrossSections map[time.Time]*l2_service.CrossSection
}

// ScheduleRebalances finds the first calendar date whose cross section has
// at least minUniverse valid values, then rebalances every intervalDays
// after it. Cross sections are only computed for the dates scanned before
// the first rebalance and for the rebalance dates themselves.
func ScheduleRebalances(
	ctx context.Context,
	source CrossSectionSource,
	calendar []time.Time,
	intervalDays int,
	minUniverse int,
) (*RebalanceSchedule, error) {
	if intervalDays <= 0 {
		return nil, fmt.Errorf("rebalance interval must be positive, got %d", intervalDays)
	}
	out := &RebalanceSchedule{
		Dates:         []time.Time{},
		CrossSections: map[time.Time]*l2_service.CrossSection{},
	}

	first := -1
	for i, date := range calendar {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, err := source.CrossSection(date)
		if err != nil {
			return nil, err
		}
		if len(cs.Points) >= minUniverse {
			first = i
			out.Dates = append(out.Dates, date)
			out.CrossSections[date] = cs
			break
		}
	}
	if first < 0 {
		return out, nil
	}

	rest := []time.Time{}
	for i := first + intervalDays; i < len(calendar); i += intervalDays {
		rest = append(rest, calendar[i])
	}
	sections, err := source.Panel(ctx, rest)
	if err != nil {
		return nil, err
	}
	for i, date := range rest {
		out.Dates = append(out.Dates, date)
		out.CrossSections[date] = sections[i]
	}
	return out, nil
}

// ForwardFill expands per-rebalance books to one book per calendar day.
// Days before the first rebalance hold nothing; a symbol missing from a
// new book is out from that day on.
func ForwardFill(calendar []time.Time, books map[time.Time]domain.Weights) []domain.Weights {
	out := make([]domain.Weights, len(calendar))
	current := domain.Weights{}
	for i, date := range calendar {
		if w, ok := books[date]; ok {
			current = w
		}
		out[i] = current
	}
	return out
}
