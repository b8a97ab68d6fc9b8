package main

import (
	"context"
	"os"

	"cryptofactor/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "cryptofactor",
		Short:         "Cross-sectional crypto factor backtests",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (defaults to $FACTOR_CONFIG)")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}
	root.AddCommand(runCmd(load))
	root.AddCommand(sweepCmd(load))
	root.AddCommand(factorsCmd())
	return root
}

type configLoader func() (*config.Config, error)
