package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/config"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/logger"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/metrics"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/handler"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Customer  *handler.CustomerHandler
	Inventory *handler.InventoryHandler
	Sale      *handler.SaleHandler
	Payment   *handler.PaymentHandler
	Invoice   *handler.InvoiceHandler
	Dashboard *handler.DashboardHandler
	Events    *handler.EventsHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        middleware.TokenVerifier
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          *zap.Logger
	// Metrics is optional. When set, requests are measured and /metrics is served.
	Metrics *metrics.Metrics
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(logger.Recovery(deps.Logger))
	router.Use(logger.GinMiddleware(deps.Logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/ping", h.Health.Ping)
	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/ping", h.Health.Ping)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier))
	if deps.RateLimiter != nil {
		protected.Use(deps.RateLimiter.Middleware())
	}
	if deps.IdempotencyRepo != nil {
		protected.Use(middleware.Idempotency(deps.IdempotencyRepo))
	}

	registerCustomerRoutes(protected, h)
	registerInventoryRoutes(protected, h)
	registerSaleRoutes(protected, h)

	protected.POST("/payments", h.Payment.Create)

	protected.GET("/invoices", h.Invoice.List)
	protected.GET("/invoices/export", h.Invoice.Export)
	protected.GET("/invoices/:id", h.Invoice.Get)
	protected.GET("/reports/gst", h.Invoice.GstSummary)

	protected.GET("/dashboard/stats", h.Dashboard.GetStats)
	protected.GET("/printer/status", h.Printer.Status)
	protected.GET("/events", h.Events.Stream)

	return router
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/sales", h.Customer.Sales)
		customers.GET("/:id/payments", h.Customer.Payments)
	}
}

func registerInventoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.POST("", h.Inventory.Create)
		inventory.POST("/bulk", h.Inventory.BulkImport)
		inventory.POST("/import", h.Inventory.ImportFile)
		inventory.GET("/export", h.Inventory.Export)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.PUT("/:id", h.Inventory.Update)
		inventory.DELETE("/:id", h.Inventory.Delete)
		inventory.POST("/:id/adjust", h.Inventory.Adjust)
	}
}

func registerSaleRoutes(rg *gin.RouterGroup, h *Handlers) {
	sales := rg.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.DELETE("/:id", h.Sale.Delete)
		sales.POST("/:id/invoice", h.Sale.IssueInvoice)
		sales.POST("/:id/receipt", h.Printer.PrintSaleReceipt)
	}
}
