package main

import (
	"context"
	"os"

	"cryptofactor/cmd"
	"cryptofactor/internal/config"
	"cryptofactor/internal/logger"
)

// config path comes from $FACTOR_CONFIG
func main() {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Infow("starting api", "commit", os.Getenv("commit_hash"))

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	apiHandler, err := cmd.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := apiHandler.StartApi(cfg.Api.Port); err != nil {
		log.Fatal(err)
	}
}
