package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/config"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	domainEvent "github.com/sangkips/garage-pos-api/internal/domain/event"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/cache"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/database"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/event"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/logger"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/repository"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/handler"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/middleware"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/routes"
	"github.com/sangkips/garage-pos-api/pkg/printer"
	"github.com/sangkips/garage-pos-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	changeChannel        = "garage:changes"
	idempotencyKeyPrefix = "garage:idem:"
	sweepInterval        = time.Hour
	eventHeartbeat       = 25 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var zl *zap.Logger
	if cfg.Logger.Format != "" {
		zl = logger.New(logger.Config{Level: cfg.Logger.Level, Format: cfg.Logger.Format})
	} else {
		zl = logger.NewForEnvironment(cfg.App.Env, cfg.Logger.Level)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, zl, cfg.Logger.Level)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it idempotency keys live in the database and
	// change events stay in process.
	var (
		idempotencyRepo domainRepo.IdempotencyRepository
		broker          domainEvent.Broker
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer client.Close()
		idempotencyRepo = cache.NewRedisIdempotencyRepository(client, idempotencyKeyPrefix)
		broker = event.NewRedisBroker(client, changeChannel, zl)
		zl.Info("using redis for idempotency keys and change events", zap.String("addr", cfg.Redis.Addr))
	} else {
		idempotencyRepo = repository.NewIdempotencyRepository(db)
		broker = event.NewMemoryBroker(zl)
	}
	defer broker.Close()

	m := metrics.New()
	deps := service.Deps{Logger: zl, Publisher: m.CountingPublisher(broker)}

	tokens := utils.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)

	customerRepo := repository.NewCustomerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	store := repository.NewStore(db)

	customerService := service.NewCustomerService(deps, customerRepo, saleRepo, paymentRepo)
	inventoryService := service.NewInventoryService(deps, inventoryRepo, store, service.InventoryOptions{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		ImportMaxRows:     cfg.Inventory.ImportMaxRows,
	})
	saleService := service.NewSaleService(deps, saleRepo, customerRepo, store, cfg.Sales.StrictStock)
	paymentService := service.NewPaymentService(deps, customerRepo, store)
	invoiceService := service.NewInvoiceService(deps, invoiceRepo, saleRepo)
	reportService := service.NewReportService(deps, reportRepo)
	dashboardService := service.NewDashboardService(deps, reportRepo, cfg.Inventory.LowStockThreshold)

	counterPrinter, err := printer.New(cfg.Printer.Kind, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		zl.Fatal("failed to configure printer", zap.Error(err))
	}
	receiptService := service.NewReceiptService(deps, counterPrinter, saleRepo, customerRepo, inventoryRepo, invoiceRepo, service.ReceiptOptions{
		Shop: entity.ShopDetails{
			Name:      cfg.Shop.Name,
			Address:   cfg.Shop.Address,
			Phone:     cfg.Shop.Phone,
			GSTNumber: cfg.Shop.GSTNumber,
		},
		Width: cfg.Printer.Width,
	})

	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(sqlDB),
		Customer:  handler.NewCustomerHandler(customerService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Sale:      handler.NewSaleHandler(saleService, invoiceService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Events:    handler.NewEventsHandler(broker, eventHeartbeat),
		Printer:   handler.NewPrinterHandler(receiptService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		Verifier:        tokens,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zl,
		Metrics:         m,
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo, zl)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", cfg.App.Port),
			zap.Bool("strict_stock", cfg.Sales.StrictStock),
			zap.String("printer", counterPrinter.Kind()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("failed to sweep idempotency keys", zap.Error(err))
			}
		}
	}
}
