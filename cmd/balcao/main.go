package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/balcao-erp/balcao-erp/internal/analytics"
	analytichttp "github.com/balcao-erp/balcao-erp/internal/analytics/http"
	"github.com/balcao-erp/balcao-erp/internal/app"
	"github.com/balcao-erp/balcao-erp/internal/cashbook"
	"github.com/balcao-erp/balcao-erp/internal/catalog"
	"github.com/balcao-erp/balcao-erp/internal/customers"
	"github.com/balcao-erp/balcao-erp/internal/inventory"
	"github.com/balcao-erp/balcao-erp/internal/platform/cache"
	"github.com/balcao-erp/balcao-erp/internal/platform/db"
	"github.com/balcao-erp/balcao-erp/internal/pos"
	"github.com/balcao-erp/balcao-erp/internal/purchasing"
	"github.com/balcao-erp/balcao-erp/internal/serviceorders"
	"github.com/balcao-erp/balcao-erp/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	loc := cfg.Location()

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dashboardCache := analytics.NewCache(redisClient, cfg.DashboardTTL)
	if err := dashboardCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	analyticsRepo := analytics.NewRepository(dbpool)
	goalsRepo := analytics.NewGoalsRepository(dbpool)
	analyticsService := analytics.NewService(analyticsRepo, goalsRepo, dashboardCache, loc)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo, inventory.ServiceConfig{})
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	cashbookRepo := cashbook.NewRepository(dbpool)
	cashbookService := cashbook.NewService(cashbookRepo, dashboardCache, logger)
	cashbookHandler := cashbook.NewHandler(logger, cashbookService)

	posRepo := pos.NewRepository(dbpool)
	posService := pos.NewService(posRepo, catalogService, inventoryService, idempotencyStore, dashboardCache, logger)
	posHandler := pos.NewHandler(logger, posService)

	ordersRepo := serviceorders.NewRepository(dbpool)
	ordersService := serviceorders.NewService(ordersRepo, cashbookService, dashboardCache, logger)
	ordersHandler := serviceorders.NewHandler(logger, ordersService)

	purchasingRepo := purchasing.NewRepository(dbpool)
	purchasingService := purchasing.NewService(purchasingRepo, inventoryService, cashbookService, dashboardCache, logger)
	purchasingHandler := purchasing.NewHandler(logger, purchasingService)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		CatalogHandler:       catalogHandler,
		CustomersHandler:     customersHandler,
		InventoryHandler:     inventoryHandler,
		POSHandler:           posHandler,
		CashbookHandler:      cashbookHandler,
		ServiceOrdersHandler: ordersHandler,
		PurchasingHandler:    purchasingHandler,
		AnalyticsHandler:     analyticsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
