package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appfulfillment "github.com/erp/wms-connect/internal/application/fulfillment"
	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/cache"
	"github.com/erp/wms-connect/internal/infrastructure/config"
	"github.com/erp/wms-connect/internal/infrastructure/delivery"
	"github.com/erp/wms-connect/internal/infrastructure/event"
	"github.com/erp/wms-connect/internal/infrastructure/logger"
	"github.com/erp/wms-connect/internal/infrastructure/persistence"
	"github.com/erp/wms-connect/internal/infrastructure/scheduler"
	"github.com/erp/wms-connect/internal/infrastructure/wms"
	"github.com/erp/wms-connect/internal/interfaces/http/handler"
	"github.com/erp/wms-connect/internal/interfaces/http/middleware"
	"github.com/erp/wms-connect/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WMS Connect",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Connectivity probe cache, Redis when reachable
	probeFactory := cache.NewProbeCacheFactory(cfg.Redis,
		cache.WithTTL(cfg.WMS.ProbeTTL),
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	probes, err := probeFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create probe cache", zap.Error(err))
	}

	// Warehouse API client
	wmsConfig := wms.NewConfig(cfg.WMS.Host, cfg.WMS.APIKey)
	wmsConfig.TimeoutSeconds = cfg.WMS.TimeoutSeconds
	wmsClient, err := wms.NewClient(wmsConfig, log)
	if err != nil {
		log.Fatal("Failed to create warehouse client", zap.Error(err))
	}

	// Webhook dispatcher for the submission hand-off
	dispatcher, err := delivery.NewWebhookDispatcher(&delivery.WebhookConfig{
		URL:            cfg.Webhook.URL,
		Secret:         cfg.Webhook.Secret,
		TimeoutSeconds: cfg.Webhook.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to create webhook dispatcher", zap.Error(err))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	activityHandler := event.NewActivityLogHandler(log)
	eventBus.Subscribe(activityHandler)
	log.Info("Event handlers registered",
		zap.Strings("activity_events", activityHandler.EventTypes()),
	)

	// Initialize repositories
	orderGateway := persistence.NewGormOrderGateway(db.DB, cfg.Sync.AutoComplete)
	remoteOrderStore := persistence.NewGormRemoteOrderStore(db.DB)
	catalog := persistence.NewGormCatalog(db.DB)

	// Initialize application services
	readiness := &fulfillment.ReadinessPolicy{
		ReadyStatuses:     cfg.Sync.ReadyStatuses,
		ReadyFromStatuses: cfg.Sync.ReadyFromStatuses,
	}
	submissionService := appfulfillment.NewSubmissionService(orderGateway, dispatcher, readiness, eventBus, log)
	reconcileService := appfulfillment.NewReconcileService(orderGateway, remoteOrderStore, wmsClient, log)
	syncService := appfulfillment.NewSyncService(orderGateway, reconcileService, eventBus, log)
	statusService := appfulfillment.NewStatusService(wmsClient, probes, log)

	// Background sync scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		syncScheduler := scheduler.NewSyncScheduler(scheduler.Config{
			Enabled:  cfg.Scheduler.Enabled,
			Interval: cfg.Scheduler.Interval,
		}, syncService, log)
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := syncScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewWMSOrderHandler(submissionService, reconcileService, catalog, cfg.WMS.Host, cfg.Sync.AutoUpdate, cfg.Sync.AutoSubmit)).
		Register(handler.NewSyncHandler(syncService)).
		Register(handler.NewSystemHandler(statusService, cfg.App.Name))
	r.Setup()

	// Simple ping for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
