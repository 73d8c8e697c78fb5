// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/handlers"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/middleware"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// RouterConfig holds the services the API exposes.
type RouterConfig struct {
	// Mode is the gin mode; release when empty.
	Mode    string
	Version string
	Logger  *logger.Logger
	Clock   clock.Clock

	// DB is checked by the readiness probe. Cache is optional.
	DB    handlers.Pinger
	Cache handlers.Pinger

	Branches *branch.Service
	Mappings *mapping.Service
	Ledger   *vehicle.Ledger
	Workflow *sales.Workflow
	Importer *feed.Importer
	Reports  *reports.Service

	// Archive serves stored raw feeds; the route is skipped when nil.
	Archive handlers.ArchiveReader

	CorrectionCutoff time.Time
	CompletedWindow  time.Duration
	// MaxBodySize caps request bodies; zero means no cap.
	MaxBodySize int64
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.System(time.Local)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Cache, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.BodyLimit(cfg.MaxBodySize))
	v1.Use(middleware.Operator())

	base := handlers.NewBaseHandler(clk)
	registerCatalogRoutes(v1, base, cfg)
	registerVehicleRoutes(v1, base, cfg)
	registerSalesRoutes(v1, base, cfg)
	registerFeedRoutes(v1, base, cfg)
	registerReportRoutes(v1, base, cfg)

	return router
}

// registerCatalogRoutes registers branch, mapping and colour endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	bh := handlers.NewBranchHandler(base, cfg.Branches)
	vh := handlers.NewVehicleHandler(base, cfg.Ledger, cfg.CorrectionCutoff)

	branches := rg.Group("/branches")
	{
		branches.GET("", bh.List)
		branches.PUT("", bh.Upsert)
		branches.GET("/heads", bh.Heads)
		branches.POST("/hierarchy", bh.AddEdge)
		branches.GET("/:id", bh.Get)
		branches.GET("/:id/territory", bh.Territory)

		branches.GET("/:id/loads", vh.PendingLoads)
		branches.GET("/:id/loads/:ref", vh.LoadVehicles)
		branches.POST("/:id/loads/:ref/receive", vh.ReceiveLoad)
	}

	mh := handlers.NewMappingHandler(base, cfg.Mappings)
	rg.GET("/mappings", mh.List)
	rg.POST("/mappings", mh.Create)
	rg.GET("/colors", mh.Colors)
	rg.PUT("/colors", mh.SaveColor)
}

// registerVehicleRoutes registers vehicle ledger endpoints.
func registerVehicleRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewVehicleHandler(base, cfg.Ledger, cfg.CorrectionCutoff)

	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("", h.Search)
		vehicles.POST("/inbound", h.CreateInbound)
		vehicles.POST("/transfers", h.Transfer)
		vehicles.POST("/corrections", h.Correct)
		vehicles.GET("/:chassis", h.Get)
	}
}

// registerSalesRoutes registers fulfillment workflow endpoints.
func registerSalesRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewSalesHandler(base, cfg.Workflow, cfg.CompletedWindow)

	s := rg.Group("/sales")
	{
		s.GET("", h.List)
		s.POST("", h.Create)
		s.GET("/completed", h.Completed)
		s.GET("/mechanics/:name", h.ForMechanic)
		s.GET("/:id", h.Get)
		s.POST("/:id/assign", h.Assign)
		s.POST("/:id/pdi", h.CompletePDI)
		s.PATCH("/:id/flags", h.UpdateFlags)
	}
}

// registerFeedRoutes registers OEM feed endpoints.
func registerFeedRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewFeedHandler(base, cfg.Importer, cfg.Archive)

	feeds := rg.Group("/feeds")
	feeds.POST("/import", h.Import)
	if cfg.Archive != nil {
		feeds.GET("/:ref/raw", h.Raw)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewReportsHandler(base, cfg.Reports)

	r := rg.Group("/reports")
	{
		r.GET("/stock", h.Stock)
		r.GET("/territory/:id", h.Territory)
		r.GET("/transfers", h.Transfers)
		r.GET("/transfers/daily", h.DailyTransfers)
		r.GET("/inward", h.OEMInward)
		r.GET("/sales", h.Sales)
		r.GET("/daily", h.Daily)
		r.GET("/recent", h.Recent)
		r.GET("/aging", h.Aging)
	}
}
