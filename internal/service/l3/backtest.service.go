package l3_service

import (
	"context"
	"fmt"
	"time"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	l1_service "cryptofactor/internal/service/l1"
	l2_service "cryptofactor/internal/service/l2"
	"cryptofactor/internal/util"
)

type BacktestInput struct {
	Index  *l1_service.PanelIndex
	Params domain.Params
}

type BacktestService interface {
	Run(ctx context.Context, in BacktestInput) (*domain.BacktestResult, error)
}

type backtestServiceHandler struct{}

func NewBacktestService() BacktestService {
	return backtestServiceHandler{}
}

// Run is a pure function of the panel and params: the same input always
// produces the same result, bit for bit.
func (h backtestServiceHandler) Run(ctx context.Context, in BacktestInput) (*domain.BacktestResult, error) {
	if in.Index == nil {
		return nil, fmt.Errorf("backtest requires a panel")
	}
	params := in.Params.WithDefaults()
	if err := params.Valid(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	profile, endProfile := domain.NewProfile()
	defer endProfile()

	calendar := util.CalendarDays(params.StartDate, params.EndDate)
	diagnostics := domain.Diagnostics{
		InsufficientUniverseDates: []time.Time{},
		Concentration:             []domain.Concentration{},
	}

	_, endSpan := profile.StartNewSpan("factors")
	calculator, err := l2_service.NewFactorCalculator(in.Index, params.Factor)
	if err != nil {
		return nil, err
	}
	schedule, err := ScheduleRebalances(ctx, calculator, calendar, params.RebalanceIntervalDays, params.MinUniverse())
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rebalances: %w", err)
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("portfolio construction")
	var volatility VolatilityLookup
	if params.Weighting == domain.WeightingMethod_InverseVol {
		volatility, err = newVolatilityLookup(in.Index, params.VolWindow, params.Factor.ReturnKind)
		if err != nil {
			return nil, err
		}
	}

	books := map[time.Time]domain.Weights{}
	records := []domain.RebalanceRecord{}
	previous := domain.Weights{}
	for _, date := range schedule.Dates {
		cs := schedule.CrossSections[date]
		diagnostics.InsufficientHistory += cs.InsufficientHistory
		diagnostics.StaleSnapshots += cs.StaleSnapshots
		diagnostics.MissingPrices += cs.MissingPrices

		record := domain.RebalanceRecord{Date: date}
		book, err := h.constructBook(params, cs, volatility, &diagnostics)
		if err != nil {
			return nil, fmt.Errorf("failed to construct portfolio on %s: %w", util.FormatDate(date), err)
		}
		if book == nil {
			record.InsufficientUniverse = true
			diagnostics.InsufficientUniverseDates = append(diagnostics.InsufficientUniverseDates, date)
			book = domain.Weights{}
			if params.UniversePolicy == domain.UniversePolicy_Hold {
				book = previous
			}
		}
		for _, symbol := range book.Symbols() {
			if book[symbol] > 0 {
				record.NumLong++
			} else if book[symbol] < 0 {
				record.NumShort++
			}
		}

		books[date] = book
		records = append(records, record)
		previous = book
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("simulation")
	rebalanceDates := map[time.Time]bool{}
	for _, date := range schedule.Dates {
		rebalanceDates[date] = true
	}
	simulation, err := Simulate(SimulateInput{
		Calendar:           calendar,
		Held:               ForwardFill(calendar, books),
		RebalanceDates:     rebalanceDates,
		Returns:            in.Index,
		TransactionCostBps: params.TransactionCostBps,
		InitialCapital:     params.InitialCapital,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to simulate portfolio: %w", err)
	}
	diagnostics.MissingReturns = simulation.MissingReturns
	for i := range records {
		records[i].Turnover = simulation.Turnover[records[i].Date]
		records[i].Cost = simulation.Cost[records[i].Date]
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("metrics")
	summary, err := CalculateMetrics(CalculateMetricsInput{
		Days:         simulation.Days,
		Rebalances:   records,
		RiskFreeRate: params.RiskFreeRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate metrics: %w", err)
	}
	endSpan()
	endProfile()

	log.Debugw("backtest profile", profile.Fields()...)
	log.Infow("completed backtest",
		"factor", calculator.Name(),
		"days", len(calendar),
		"rebalances", len(records),
		"insufficientUniverseDates", len(diagnostics.InsufficientUniverseDates),
		"missingReturns", diagnostics.MissingReturns,
	)

	return &domain.BacktestResult{
		Params:      params,
		Days:        simulation.Days,
		Rebalances:  records,
		Summary:     *summary,
		Diagnostics: diagnostics,
	}, nil
}

// constructBook returns nil when the date cannot produce a book.
func (h backtestServiceHandler) constructBook(
	params domain.Params,
	cs *l2_service.CrossSection,
	volatility VolatilityLookup,
	diagnostics *domain.Diagnostics,
) (domain.Weights, error) {
	signals := GenerateSignals(GenerateSignalsInput{
		Date:       cs.Date,
		Points:     cs.Points,
		Rule:       params.BucketRule,
		Direction:  params.Direction,
		MinPerSide: params.MinPerSide,
	})
	diagnostics.AddConcentration(signals.Concentration...)
	if signals.InsufficientUniverse {
		return nil, nil
	}

	weights, err := AllocateWeights(AllocateWeightsInput{
		Date:            cs.Date,
		Long:            signals.Long,
		Short:           signals.Short,
		Method:          params.Weighting,
		LongAllocation:  params.LongAllocation,
		ShortAllocation: params.ShortAllocation,
		MinPerSide:      params.MinPerSide,
		Volatility:      volatility,
	})
	if err != nil {
		return nil, err
	}
	diagnostics.InverseVolExclusions += weights.InverseVolExclusions
	diagnostics.AddConcentration(weights.Concentration...)
	if weights.InsufficientUniverse {
		return nil, nil
	}
	return weights.Weights, nil
}

// newVolatilityLookup reads returns in the run's return convention.
func newVolatilityLookup(index *l1_service.PanelIndex, window int, kind domain.ReturnKind) (VolatilityLookup, error) {
	factor, err := l2_service.NewFactor(domain.FactorOptions{
		Type:   domain.FactorType_Volatility,
		Window: window,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build volatility lookup: %w", err)
	}
	return func(symbol string, date time.Time) (float64, error) {
		return factor.Compute(index.History(symbol, date, kind))
	}, nil
}
