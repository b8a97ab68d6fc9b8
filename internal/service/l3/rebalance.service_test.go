package l3_service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cryptofactor/internal/domain"
	l2_service "cryptofactor/internal/service/l2"
	"cryptofactor/internal/util"

	"github.com/stretchr/testify/require"
)

// countingSource reports a fixed number of valid values per date and
// records which dates were computed.
type countingSource struct {
	counts   map[time.Time]int
	computed []time.Time
	failOn   time.Time
}

func (s *countingSource) CrossSection(date time.Time) (*l2_service.CrossSection, error) {
	if date.Equal(s.failOn) {
		return nil, errors.New("factor blew up")
	}
	s.computed = append(s.computed, date)
	cs := &l2_service.CrossSection{Date: date, Points: []domain.FactorPoint{}}
	for i := 0; i < s.counts[date]; i++ {
		cs.Points = append(cs.Points, domain.FactorPoint{Date: date, Symbol: fmt.Sprintf("S%d", i)})
	}
	return cs, nil
}

func (s *countingSource) Panel(ctx context.Context, dates []time.Time) ([]*l2_service.CrossSection, error) {
	out := []*l2_service.CrossSection{}
	for _, date := range dates {
		cs, err := s.CrossSection(date)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

func TestScheduleRebalances(t *testing.T) {
	calendar := util.CalendarDays(d(0), d(9))

	t.Run("starts at the first sufficient date", func(t *testing.T) {
		source := &countingSource{counts: map[time.Time]int{d(0): 1, d(1): 1, d(2): 2, d(3): 0, d(6): 5}}
		got, err := ScheduleRebalances(context.Background(), source, calendar, 3, 2)
		require.NoError(t, err)
		require.Equal(t, []time.Time{d(2), d(5), d(8)}, got.Dates)
		require.Len(t, got.CrossSections, 3)
		require.Len(t, got.CrossSections[d(2)].Points, 2)

		// nothing between rebalances is computed
		require.Equal(t, []time.Time{d(0), d(1), d(2), d(5), d(8)}, source.computed)
	})

	t.Run("never sufficient", func(t *testing.T) {
		source := &countingSource{counts: map[time.Time]int{d(4): 1}}
		got, err := ScheduleRebalances(context.Background(), source, calendar, 1, 2)
		require.NoError(t, err)
		require.Empty(t, got.Dates)
	})

	t.Run("factor errors abort", func(t *testing.T) {
		source := &countingSource{counts: map[time.Time]int{d(0): 2}, failOn: d(4)}
		_, err := ScheduleRebalances(context.Background(), source, calendar, 2, 2)
		require.ErrorContains(t, err, "factor blew up")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ScheduleRebalances(ctx, &countingSource{}, calendar, 2, 2)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestForwardFill(t *testing.T) {
	calendar := util.CalendarDays(d(0), d(5))
	first := domain.Weights{"A": 0.5, "B": -0.5}
	second := domain.Weights{"A": 0.5, "C": -0.5}

	got := ForwardFill(calendar, map[time.Time]domain.Weights{d(1): first, d(4): second})
	require.Len(t, got, 6)
	require.Empty(t, got[0])
	for i := 1; i < 4; i++ {
		require.Equal(t, first, got[i])
	}
	for i := 4; i < 6; i++ {
		require.Equal(t, second, got[i])
		require.Zero(t, got[i]["B"])
		require.NotContains(t, got[i], "B")
	}
}
