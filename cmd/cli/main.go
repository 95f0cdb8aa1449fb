package main

import (
	"context"
	"log"
	"os"

	"github.com/jobdeck/jobdeck-cli/internal/buildinfo"
	"github.com/jobdeck/jobdeck-cli/internal/client/cli"
	"github.com/jobdeck/jobdeck-cli/internal/client/config"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewZerolog(logging.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
