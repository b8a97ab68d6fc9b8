package cmd

import (
	"context"
	"fmt"
	"time"

	"cryptofactor/api"
	"cryptofactor/internal/config"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/repository"
	l1_service "cryptofactor/internal/service/l1"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPanelRepository picks the panel source from config. The returned
// close func releases the db connection, if any.
func NewPanelRepository(cfg *config.Config) (repository.PanelRepository, func() error, error) {
	switch cfg.Data.Source {
	case config.DataSource_Postgres:
		db, err := sqlx.Open("postgres", cfg.Database.ToConnectionStr())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		timeout := time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second
		return repository.NewPostgresPanelRepository(db, timeout), db.Close, nil
	case config.DataSource_Csv:
		repo := repository.NewCsvPanelRepository(cfg.Data.PricesPath, cfg.Data.FundingPath, cfg.Data.SupplyPath)
		return repo, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown data source '%s'", cfg.Data.Source)
}

// LoadIndex reads and validates the whole panel once. The db is only
// needed while loading.
func LoadIndex(ctx context.Context, cfg *config.Config) (*l1_service.PanelIndex, error) {
	repo, closeRepo, err := NewPanelRepository(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.FromContext(ctx).Warnw("failed to close panel source", "error", err)
		}
	}()

	panel, err := l1_service.LoadPanel(ctx, repo)
	if err != nil {
		return nil, err
	}
	idx, err := l1_service.NewPanelIndex(*panel)
	if err != nil {
		return nil, fmt.Errorf("failed to index panel: %w", err)
	}
	return idx, nil
}

func InitializeDependencies(ctx context.Context, cfg *config.Config) (*api.ApiHandler, error) {
	idx, err := LoadIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backtestService := l3_service.NewBacktestService()
	sweepService := l3_service.NewSweepService(backtestService)

	var resultsRepository repository.ResultsRepository
	if cfg.Output.Dir != "" {
		resultsRepository = repository.NewFileResultsRepository(cfg.Output.Dir)
	}

	return &api.ApiHandler{
		Index:             idx,
		Defaults:          cfg.Strategy,
		BacktestService:   backtestService,
		SweepService:      sweepService,
		ResultsRepository: resultsRepository,
		SweepParallel:     cfg.Api.SweepParallel,
		MaxSweepEntries:   cfg.Api.MaxSweepEntries,
	}, nil
}
