// Package main loads branches, the branch hierarchy, product mappings and
// colour codes from a seed file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/akashkatakam/vehicle-tracking-system/internal/app"
	"github.com/akashkatakam/vehicle-tracking-system/internal/config"
	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
	"github.com/akashkatakam/vehicle-tracking-system/internal/seed"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	file := flag.String("file", "configs/seed.example.toml", "seed file (toml, yaml or json)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext("", ""))
	ctx = appctx.WithOperator(ctx, &appctx.Operator{Username: "seed"})

	f, err := seed.Load(*file)
	if err != nil {
		log.Fatalw("failed to read seed file", "error", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer a.Close()

	res, err := seed.Apply(ctx, f, a.Branches, a.Mappings)
	if err != nil {
		log.Fatalw("seed failed", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}
