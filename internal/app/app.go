// Package app wires repositories, services and HTTP handlers together for
// both the API server and the command line tool.
package app

import (
	"net/http"

	"flowinvoice/internal/config"
	"flowinvoice/internal/handler"
	"flowinvoice/internal/middleware"
	"flowinvoice/internal/repository"
	"flowinvoice/internal/service"
	"flowinvoice/internal/telemetry"
	"flowinvoice/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Registry *prometheus.Registry
	Hub      *websocket.Hub

	Imports  service.ImportService
	Invoices service.InvoiceService
	Reports  service.ReportService
}

// New builds the service graph on top of an open database. Run Hub.Run in a
// goroutine to deliver live events.
func New(cfg *config.Config, db *gorm.DB) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := websocket.NewHub(cfg.CORSOrigins)

	// Repository -> Service
	deps := service.Deps{
		InvoiceRepo:     repository.NewInvoiceRepository(db),
		ImportErrorRepo: repository.NewImportErrorRepository(db),
		ReportRepo:      repository.NewReportRepository(db),
		TxManager:       repository.NewTransactionManager(db),
		Events:          hub,
		Metrics:         telemetry.NewMetrics(registry),
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Registry: registry,
		Hub:      hub,
		Imports:  service.NewImportService(deps),
		Invoices: service.NewInvoiceService(deps),
		Reports:  service.NewReportService(deps, cfg.OverdueThresholdDays),
	}
}

// Router builds the gin engine with middleware and every route.
func (a *App) Router() *gin.Engine {
	if a.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.NewHTTPMetrics(a.Registry, "flowinvoice").Handler())

	corsConfig := cors.DefaultConfig()
	if len(a.Config.CORSOrigins) == 0 || lo.Contains(a.Config.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = a.Config.CORSOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	router.GET("/health", a.health)
	router.GET("/ws", a.Hub.ServeWs)

	handler.NewImportHandler(a.Imports).RegisterRoutes(router.Group(""))
	handler.NewInvoiceHandler(a.Invoices, a.Reports).RegisterRoutes(router.Group(""))

	return router
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
