// Package main is the entry point for the phone store API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/auth"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/config"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/catalog"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/intake"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/returns"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/sales"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/cache"
	v1 "github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/customer_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/inventory_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/order_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres/return_repo"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting phone store server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	unitRepo := inventory_repo.NewUnitRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	purchaseOrderRepo := order_repo.NewPurchaseOrderRepo(txManager)
	salesOrderRepo := order_repo.NewSalesOrderRepo(txManager)
	customerRepo := customer_repo.NewCustomerRepo(txManager)
	returnRepo := return_repo.NewRequestRepo(txManager)

	// --- Catalog directory, optionally fronted by Redis ---
	var directory catalog.Directory = catalog_repo.NewVariantRepo(txManager)
	if cfg.CacheEnabled() {
		redisClient := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisClient.Ping(ctx); err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		directory = cache.NewVariantDirectory(directory, redisClient, cfg.VariantCacheTTL)
		log.Infow("variant cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.VariantCacheTTL)
	}

	// --- Document numbering ---
	// Numbers are allocated through the pool, outside business transactions,
	// so an aborted commit burns a number instead of blocking the sequence row.
	numbers := numerator.New(pool)

	// --- Domain services ---
	ledgerService := ledger.NewService(movementRepo)
	inventoryService := inventory.NewService(unitRepo)
	intakeService := intake.NewService(purchaseOrderRepo, unitRepo, ledgerService, directory, numbers, txManager)
	salesService := sales.NewService(salesOrderRepo, unitRepo, customerRepo, ledgerService, numbers, txManager)
	returnsService := returns.NewService(returnRepo, unitRepo, salesOrderRepo, customerRepo, ledgerService, numbers, txManager)

	// --- JWT ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		TokenValidator:   jwtService,
		IntakeService:    intakeService,
		SalesService:     salesService,
		ReturnsService:   returnsService,
		InventoryService: inventoryService,
		LedgerService:    ledgerService,
		CustomerRepo:     customerRepo,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
