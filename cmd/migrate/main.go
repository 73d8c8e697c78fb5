// Package main applies database schema migrations.
//
// Usage:
//
//	migrate [-config path] up|down|version|steps N|force V
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/akashkatakam/vehicle-tracking-system/internal/app"
	"github.com/akashkatakam/vehicle-tracking-system/internal/config"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/migration"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	dir := flag.String("dir", "", "migrations directory (default: database.migrations_dir)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("usage: migrate [-config path] [-dir path] up|down|version|steps N|force V")
		os.Exit(2)
	}

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
	ctx := logger.WithLogger(context.Background(), log)

	if *dir == "" {
		*dir = cfg.Database.MigrationsDir
	}
	m, err := migration.New(cfg.Database.DSN(), *dir)
	if err != nil {
		log.Fatalw("failed to open migrations", "error", err)
	}
	defer func() { _ = m.Close() }()

	if err := run(ctx, m, flag.Args()); err != nil {
		log.Fatalw("migration failed", "command", flag.Arg(0), "error", err)
	}
}

func run(ctx context.Context, m *migration.Migrator, args []string) error {
	switch args[0] {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return nil
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s needs a number", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[1], err)
		}
		if args[0] == "steps" {
			return m.Steps(ctx, n)
		}
		return m.Force(ctx, n)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
