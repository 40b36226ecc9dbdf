// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/intake"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/inventory"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/ledger"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/returns"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/sales"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/storage/postgres"
	"github.com/NguyenTrunggg/phone-store-management-sub000/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator for JWT validation
	TokenValidator middleware.TokenValidator

	// Domain services
	IntakeService    *intake.Service
	SalesService     *sales.Service
	ReturnsService   *returns.Service
	InventoryService *inventory.Service
	LedgerService    *ledger.Service

	// CustomerRepo backs the customer lookup endpoints
	CustomerRepo customer.Repository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1 (all endpoints require a valid token)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.TokenValidator))

	base := handlers.NewBaseHandler()

	// --- INTAKE ---
	{
		h := handlers.NewIntakeHandler(base, cfg.IntakeService)
		v1.POST("/intake", h.Commit)
		v1.POST("/intake/validate", h.ValidateIMEIs)
		v1.GET("/purchase-orders", h.List)
		v1.GET("/purchase-orders/:id", h.GetByID)
	}

	// --- SALES ---
	{
		h := handlers.NewSalesHandler(base, cfg.SalesService)
		v1.POST("/sales", h.Checkout)
		v1.GET("/sales", h.List)
		v1.GET("/sales/:id", h.GetByID)
	}

	// --- RETURNS ---
	{
		h := handlers.NewReturnsHandler(base, cfg.ReturnsService)
		v1.POST("/returns", h.Create)
		v1.POST("/returns/:id/approve", h.Approve)
		v1.POST("/returns/:id/reject", h.Reject)
		v1.GET("/returns", h.List)
		v1.GET("/returns/:id", h.GetByID)
	}

	// --- INVENTORY ---
	{
		h := handlers.NewInventoryHandler(base, cfg.InventoryService, cfg.LedgerService)
		v1.GET("/inventory/units", h.List)
		v1.GET("/inventory/units/:imei", h.GetByIMEI)
		v1.GET("/inventory/units/:imei/movements", h.History)
		v1.GET("/inventory/units/:imei/reconcile", h.Reconcile)
		v1.GET("/inventory/movements/export", h.ExportMovements)
	}

	// --- CUSTOMERS ---
	{
		h := handlers.NewCustomersHandler(base, cfg.CustomerRepo)
		v1.GET("/customers", h.FindByPhone)
		v1.GET("/customers/:id", h.GetByID)
	}

	return router
}
