// Package app wires configuration, storage and domain services into one
// container shared by the commands.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/akashkatakam/vehicle-tracking-system/internal/config"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/cache"
	v1 "github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/handlers"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres/document_repo"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres/register_repo"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres/report_repo"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/numerator"
)

// App holds every long-lived dependency.
type App struct {
	Config *config.Config
	Log    *logger.Logger
	Clock  clock.Clock
	Cutoff time.Time

	Pool    *postgres.Pool
	TxM     *postgres.TxManager
	Redis   *redis.Client
	Archive *postgres.FeedArchive
	Numbers *numerator.Service

	Branches *branch.Service
	Mappings *mapping.Service
	Ledger   *vehicle.Ledger
	Workflow *sales.Workflow
	Importer *feed.Importer
	Reports  *reports.Service
}

// New connects to Postgres (and Redis when configured) and builds the services.
// A Redis that cannot be reached is logged and skipped.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	loc, err := cfg.Business.Location()
	if err != nil {
		return nil, err
	}
	cutoff, err := cfg.Business.Cutoff(loc)
	if err != nil {
		return nil, err
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN())
	poolCfg.ApplicationName = cfg.App.Name
	poolCfg.TimeZone = loc.String()
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolCfg.MinConns = cfg.Database.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Clock:  clock.System(loc),
		Cutoff: cutoff,
		Pool:   pool,
		TxM: postgres.NewTxManager(pool).
			WithStatementTimeout(cfg.Database.StatementTimeout).
			WithLockTimeout(cfg.Database.LockTimeout),
	}

	var mappingCache mapping.Cache
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warnw("redis unavailable, mapping cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			a.Redis = client
			mappingCache = cache.NewMappingCache(client, cache.WithTTL(cfg.Redis.TTL), cache.WithPrefix(cfg.Redis.Prefix))
		}
	}

	archive, err := postgres.NewFeedArchive(a.TxM)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Archive = archive

	txm := a.TxM
	a.Numbers = numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txm.GetQuerier(ctx)
	})

	branchRepo := catalog_repo.NewBranchRepo(txm)
	vehicleRepo := register_repo.NewVehicleRepo(txm)
	movementRepo := register_repo.NewMovementRepo(txm)

	a.Branches = branch.NewService(branchRepo)
	a.Mappings = mapping.NewService(catalog_repo.NewMappingRepo(txm), mappingCache)
	a.Ledger = vehicle.NewLedger(vehicleRepo, movementRepo, branchRepo, txm, a.Numbers, a.Clock)
	a.Workflow = sales.NewWorkflow(document_repo.NewSalesRepo(txm), vehicleRepo, movementRepo, branchRepo, txm, a.Clock)
	a.Importer = feed.NewImporter(a.Ledger, a.Mappings, archive, txm, a.Clock)
	a.Reports = reports.NewService(report_repo.NewReportRepo(txm), a.Branches, a.Clock)

	return a, nil
}

// Router builds the HTTP API over the container's services.
func (a *App) Router(version string) *gin.Engine {
	mode := gin.ReleaseMode
	if !a.Config.IsProduction() && a.Config.Log.Development {
		mode = gin.DebugMode
	}

	var cachePing handlers.Pinger
	if a.Redis != nil {
		client := a.Redis
		cachePing = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	return v1.NewRouter(v1.RouterConfig{
		Mode:             mode,
		Version:          version,
		Logger:           a.Log,
		Clock:            a.Clock,
		DB:               a.Pool,
		Cache:            cachePing,
		Branches:         a.Branches,
		Mappings:         a.Mappings,
		Ledger:           a.Ledger,
		Workflow:         a.Workflow,
		Importer:         a.Importer,
		Reports:          a.Reports,
		Archive:          a.Archive,
		CorrectionCutoff: a.Cutoff,
		CompletedWindow:  a.Config.Business.CompletedWindow,
		MaxBodySize:      a.Config.HTTP.MaxBodySize,
	})
}

// Close releases the connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warnw("close redis", "error", err)
		}
	}
	a.Pool.Close()
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
}
