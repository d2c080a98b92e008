// Command server runs the SFA backend HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/sfa/backend/internal/application/catalog"
	eventapp "github.com/sfa/backend/internal/application/event"
	inventoryapp "github.com/sfa/backend/internal/application/inventory"
	orderapp "github.com/sfa/backend/internal/application/order"
	partnerapp "github.com/sfa/backend/internal/application/partner"
	promotionapp "github.com/sfa/backend/internal/application/promotion"
	workflowapp "github.com/sfa/backend/internal/application/workflow"
	"github.com/sfa/backend/internal/domain/promotion"
	"github.com/sfa/backend/internal/infrastructure/cache"
	"github.com/sfa/backend/internal/infrastructure/config"
	"github.com/sfa/backend/internal/infrastructure/event"
	"github.com/sfa/backend/internal/infrastructure/logger"
	"github.com/sfa/backend/internal/infrastructure/persistence"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
	"github.com/sfa/backend/internal/interfaces/http/handler"
	"github.com/sfa/backend/internal/interfaces/http/middleware"
	"github.com/sfa/backend/internal/interfaces/http/router"
)

const serviceName = "sfa-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer zapLogger.Sync()

	zapLogger.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.App.Env != "production",
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	gormLogger := logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, zapLogger); err != nil {
		zapLogger.Fatal("Failed to register database tracing", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	depotRepo := persistence.NewGormDepotRepository(db.DB)
	zoneRepo := persistence.NewGormZoneRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	promoRepo := persistence.NewGormPromotionRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	batchLotRepo := persistence.NewGormBatchLotRepository(db.DB)
	serialRepo := persistence.NewGormSerialNumberRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	approvalRepo := persistence.NewGormApprovalRequestRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Promotion reads in the order path go through Redis when available.
	var orderPromoRepo promotion.Repository = promoRepo
	promotionCache, err := cache.NewRedisPromotionCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.CacheTTL,
	}, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis unavailable, promotion cache disabled", zap.Error(err))
	} else {
		orderPromoRepo = cache.NewCachedPromotionRepository(promoRepo, promotionCache)
	}

	// Event infrastructure
	serializer := event.NewDefaultEventSerializer()
	eventBus := event.NewInMemoryEventBus(zapLogger)
	if err := eventBus.Start(ctx); err != nil {
		zapLogger.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			zapLogger.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	orderCreatedHandler := orderapp.NewOrderCreatedHandler(orderRepo, notificationRepo, approvalRepo)
	eventBus.Subscribe(orderCreatedHandler, orderCreatedHandler.EventTypes()...)
	orderDecidedHandler := orderapp.NewOrderDecidedHandler(orderRepo, notificationRepo, approvalRepo)
	eventBus.Subscribe(orderDecidedHandler, orderDecidedHandler.EventTypes()...)

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
		BatchSize:        cfg.Event.BatchSize,
		PollInterval:     cfg.Event.PollInterval,
		CleanupEnabled:   cfg.Event.CleanupEnabled,
		CleanupRetention: cfg.Event.CleanupRetention,
		CleanupInterval:  time.Hour,
	}, zapLogger)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			zapLogger.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := outboxProcessor.Stop(stopCtx); err != nil {
				zapLogger.Error("Failed to stop outbox processor", zap.Error(err))
			}
		}()
	}

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo)
	customerService.SetEventPublisher(eventBus)
	depotService := partnerapp.NewDepotService(depotRepo, zoneRepo)
	zoneService := partnerapp.NewZoneService(zoneRepo, depotRepo)
	productService := catalogapp.NewProductService(productRepo)
	promotionService := promotionapp.NewPromotionService(promoRepo)
	if promotionCache != nil {
		promotionService.SetCache(promotionCache)
	}
	inventoryService := inventoryapp.NewInventoryService(stockItemRepo, batchLotRepo, serialRepo, movementRepo, productRepo)
	orderService := orderapp.NewOrderService(txScope, orderRepo, customerRepo, productRepo, orderPromoRepo)
	workflowService := workflowapp.NewWorkflowService(notificationRepo, approvalRepo)
	outboxService := eventapp.NewOutboxService(outboxRepo)

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	depotHandler := handler.NewDepotHandler(depotService)
	zoneHandler := handler.NewZoneHandler(zoneService)
	productHandler := handler.NewProductHandler(productService)
	promotionHandler := handler.NewPromotionHandler(promotionService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	orderHandler := handler.NewOrderHandler(orderService)
	workflowHandler := handler.NewWorkflowHandler(workflowService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		zapLogger.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(zapLogger))
	engine.Use(logger.GinMiddleware(zapLogger))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	engine.GET("/health", systemHandler.Health)

	partnerGroup := router.NewDomainGroup("partner", "/partner")
	partnerGroup.POST("/customers", customerHandler.Create)
	partnerGroup.GET("/customers", customerHandler.List)
	partnerGroup.GET("/customers/stats", customerHandler.CountByStatus)
	partnerGroup.GET("/customers/code/:code", customerHandler.GetByCode)
	partnerGroup.GET("/customers/:id", customerHandler.GetByID)
	partnerGroup.PUT("/customers/:id", customerHandler.Update)
	partnerGroup.POST("/customers/:id/activate", customerHandler.Activate)
	partnerGroup.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerGroup.POST("/customers/:id/suspend", customerHandler.Suspend)
	partnerGroup.DELETE("/customers/:id", customerHandler.Delete)
	partnerGroup.POST("/depots", depotHandler.Create)
	partnerGroup.GET("/depots", depotHandler.List)
	partnerGroup.GET("/depots/:id", depotHandler.GetByID)
	partnerGroup.GET("/depots/:id/zones", zoneHandler.ListByDepot)
	partnerGroup.PUT("/depots/:id", depotHandler.Update)
	partnerGroup.POST("/depots/:id/enable", depotHandler.Enable)
	partnerGroup.POST("/depots/:id/disable", depotHandler.Disable)
	partnerGroup.DELETE("/depots/:id", depotHandler.Delete)
	partnerGroup.POST("/zones", zoneHandler.Create)
	partnerGroup.GET("/zones", zoneHandler.List)
	partnerGroup.GET("/zones/:id", zoneHandler.GetByID)
	partnerGroup.PUT("/zones/:id", zoneHandler.Update)
	partnerGroup.POST("/zones/:id/activate", zoneHandler.Activate)
	partnerGroup.POST("/zones/:id/deactivate", zoneHandler.Deactivate)
	partnerGroup.DELETE("/zones/:id", zoneHandler.Delete)

	catalogGroup := router.NewDomainGroup("catalog", "/catalog")
	catalogGroup.POST("/products", productHandler.Create)
	catalogGroup.GET("/products", productHandler.List)
	catalogGroup.GET("/products/:id", productHandler.GetByID)
	catalogGroup.PUT("/products/:id", productHandler.Update)
	catalogGroup.POST("/products/:id/activate", productHandler.Activate)
	catalogGroup.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogGroup.POST("/products/:id/discontinue", productHandler.Discontinue)
	catalogGroup.DELETE("/products/:id", productHandler.Delete)

	promotionGroup := router.NewDomainGroup("promotion", "/promotions")
	promotionGroup.POST("", promotionHandler.Create)
	promotionGroup.GET("", promotionHandler.List)
	promotionGroup.GET("/:id", promotionHandler.GetByID)
	promotionGroup.PUT("/:id", promotionHandler.Update)
	promotionGroup.POST("/:id/preview", promotionHandler.Preview)
	promotionGroup.POST("/:id/activate", promotionHandler.Activate)
	promotionGroup.POST("/:id/deactivate", promotionHandler.Deactivate)
	promotionGroup.DELETE("/:id", promotionHandler.Delete)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory")
	inventoryGroup.POST("/receipts", inventoryHandler.Receive)
	inventoryGroup.GET("/stock", inventoryHandler.ListStock)
	inventoryGroup.GET("/movements", inventoryHandler.ListMovements)
	inventoryGroup.GET("/batches", inventoryHandler.ListBatchLots)
	inventoryGroup.GET("/serials", inventoryHandler.ListAvailableSerials)

	orderGroup := router.NewDomainGroup("order", "/orders")
	orderGroup.POST("", orderHandler.Create)
	orderGroup.GET("", orderHandler.List)
	orderGroup.GET("/number/:number", orderHandler.GetByNumber)
	orderGroup.GET("/:id", orderHandler.GetByID)
	orderGroup.PUT("/:id", orderHandler.Update)
	orderGroup.POST("/:id/decision", orderHandler.Decide)
	orderGroup.POST("/:id/cancel", orderHandler.Cancel)

	workflowGroup := router.NewDomainGroup("workflow", "/workflow")
	workflowGroup.GET("/notifications", workflowHandler.ListNotifications)
	workflowGroup.GET("/notifications/unread-count", workflowHandler.CountUnread)
	workflowGroup.POST("/notifications/:id/read", workflowHandler.MarkRead)
	workflowGroup.GET("/approvals", workflowHandler.ListApprovals)
	workflowGroup.GET("/approvals/:id", workflowHandler.GetApproval)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.GET("/ping", systemHandler.Ping)
	systemGroup.GET("/info", systemHandler.GetSystemInfo)
	systemGroup.GET("/health", systemHandler.Health)
	systemGroup.GET("/stats", systemHandler.Stats)
	systemGroup.GET("/outbox/dead", outboxHandler.ListDead)
	systemGroup.GET("/outbox/stats", outboxHandler.Stats)
	systemGroup.GET("/outbox/:id", outboxHandler.GetEntry)
	systemGroup.POST("/outbox/:id/retry", outboxHandler.RetryDead)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(partnerGroup).
		Register(catalogGroup).
		Register(promotionGroup).
		Register(inventoryGroup).
		Register(orderGroup).
		Register(workflowGroup).
		Register(systemGroup)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
