package l3_service

import (
	"context"
	"fmt"
	"runtime"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	l1_service "cryptofactor/internal/service/l1"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SweepInput struct {
	Index       *l1_service.PanelIndex
	Entries     []domain.SweepEntry
	Concurrency int
}

type SweepService interface {
	Sweep(ctx context.Context, in SweepInput) (*domain.SweepResult, error)
}

type sweepServiceHandler struct {
	BacktestService BacktestService
}

func NewSweepService(backtestService BacktestService) SweepService {
	return sweepServiceHandler{
		BacktestService: backtestService,
	}
}

// Sweep runs every entry against the same read-only panel in parallel.
// A failing entry records its error and does not stop the others; the
// result keeps the input order.
func (h sweepServiceHandler) Sweep(ctx context.Context, in SweepInput) (*domain.SweepResult, error) {
	log := logger.FromContext(ctx)
	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	entries := make([]domain.SweepEntry, len(in.Entries))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, entry := range in.Entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := h.BacktestService.Run(gCtx, BacktestInput{
				Index:  in.Index,
				Params: entry.Params,
			})
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				log.Warnw("sweep entry failed", "label", entry.Label, "error", err)
				entry.Err = err.Error()
			} else {
				entry.Params = result.Params
				entry.Summary = &result.Summary
				entry.Diagnostics = &result.Diagnostics
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep cancelled: %w", err)
	}

	return &domain.SweepResult{
		RunID:   uuid.New(),
		Entries: entries,
	}, nil
}

type SweepGridInput struct {
	Base      domain.Params
	Windows   []int
	Intervals []int
	Rules     []domain.BucketRule
}

// SweepGrid expands the cartesian product of windows, rebalance intervals
// and bucket rules over a base configuration. An empty axis keeps the base
// value.
func SweepGrid(in SweepGridInput) []domain.SweepEntry {
	windows := in.Windows
	if len(windows) == 0 {
		windows = []int{in.Base.Factor.Window}
	}
	intervals := in.Intervals
	if len(intervals) == 0 {
		intervals = []int{in.Base.RebalanceIntervalDays}
	}
	rules := in.Rules
	if len(rules) == 0 {
		rules = []domain.BucketRule{in.Base.BucketRule}
	}

	out := []domain.SweepEntry{}
	for _, window := range windows {
		for _, interval := range intervals {
			for _, rule := range rules {
				p := in.Base
				p.Factor.Window = window
				p.RebalanceIntervalDays = interval
				p.BucketRule = rule
				out = append(out, domain.SweepEntry{
					Label:  fmt.Sprintf("window=%d interval=%d rule=%s", window, interval, rule),
					Params: p,
				})
			}
		}
	}
	return out
}
