package main

import (
	"fmt"
	"path/filepath"

	"cryptofactor/cmd"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/report"
	"cryptofactor/internal/repository"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func runCmd(load configLoader) *cobra.Command {
	var (
		outputDir string
		plot      bool
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "Run one backtest and write its artifacts",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			log := logger.FromContext(ctx)

			cfg, err := load()
			if err != nil {
				return err
			}
			if c.Flags().Changed("output") {
				cfg.Output.Dir = outputDir
			}
			if c.Flags().Changed("plot") {
				cfg.Output.Plot = plot
			}

			params, err := cfg.Strategy.ToParams()
			if err != nil {
				return err
			}
			idx, err := cmd.LoadIndex(ctx, cfg)
			if err != nil {
				return err
			}

			result, err := l3_service.NewBacktestService().Run(ctx, l3_service.BacktestInput{
				Index:  idx,
				Params: params,
			})
			if err != nil {
				return err
			}

			if err := report.WriteSummary(c.OutOrStdout(), result); err != nil {
				return err
			}

			runID := uuid.New()
			dir, err := repository.NewFileResultsRepository(cfg.Output.Dir).SaveBacktest(runID, result)
			if err != nil {
				return err
			}
			if cfg.Output.Plot {
				if err := report.SaveEquityPlot(filepath.Join(dir, "equity.png"), result); err != nil {
					return err
				}
			}
			log.Infow("wrote backtest artifacts", "runID", runID, "dir", dir)
			fmt.Fprintf(c.OutOrStdout(), "artifacts: %s\n", dir)
			return nil
		},
	}
	c.Flags().StringVar(&outputDir, "output", "", "artifact directory (overrides output.dir)")
	c.Flags().BoolVar(&plot, "plot", false, "write equity.png (overrides output.plot)")
	return c
}

