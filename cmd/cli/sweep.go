package main

import (
	"fmt"

	"cryptofactor/cmd"
	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/report"
	"cryptofactor/internal/repository"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/spf13/cobra"
)

func sweepCmd(load configLoader) *cobra.Command {
	var (
		windows   []int
		intervals []int
		rules     []string
		parallel  int
		outputDir string
	)
	c := &cobra.Command{
		Use:   "sweep",
		Short: "Run a grid of backtests over one panel",
		Example: "cryptofactor sweep --config cfg.yaml --windows 30,60 --intervals 7,14 " +
			"--rules top_bottom:5,quantile:5",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()

			cfg, err := load()
			if err != nil {
				return err
			}
			if c.Flags().Changed("output") {
				cfg.Output.Dir = outputDir
			}
			if !c.Flags().Changed("parallel") {
				parallel = cfg.Api.SweepParallel
			}

			base, err := cfg.Strategy.ToParams()
			if err != nil {
				return err
			}
			bucketRules := []domain.BucketRule{}
			for _, r := range rules {
				rule, err := domain.NewBucketRule(r)
				if err != nil {
					return err
				}
				bucketRules = append(bucketRules, rule)
			}

			idx, err := cmd.LoadIndex(ctx, cfg)
			if err != nil {
				return err
			}

			entries := l3_service.SweepGrid(l3_service.SweepGridInput{
				Base:      base,
				Windows:   windows,
				Intervals: intervals,
				Rules:     bucketRules,
			})
			result, err := l3_service.NewSweepService(l3_service.NewBacktestService()).Sweep(ctx, l3_service.SweepInput{
				Index:       idx,
				Entries:     entries,
				Concurrency: parallel,
			})
			if err != nil {
				return err
			}

			if err := report.WriteSweep(c.OutOrStdout(), *result); err != nil {
				return err
			}
			dir, err := repository.NewFileResultsRepository(cfg.Output.Dir).SaveSweep(*result)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Infow("wrote sweep artifacts", "runID", result.RunID, "entries", len(entries), "dir", dir)
			fmt.Fprintf(c.OutOrStdout(), "artifacts: %s\n", dir)
			return nil
		},
	}
	c.Flags().IntSliceVar(&windows, "windows", nil, "factor window lengths in days")
	c.Flags().IntSliceVar(&intervals, "intervals", nil, "rebalance intervals in days")
	c.Flags().StringSliceVar(&rules, "rules", nil, "bucket rules, e.g. top_bottom:5,quantile:5")
	c.Flags().IntVar(&parallel, "parallel", 0, "concurrent backtests (defaults to api.sweep_parallel)")
	c.Flags().StringVar(&outputDir, "output", "", "artifact directory (overrides output.dir)")
	return c
}
