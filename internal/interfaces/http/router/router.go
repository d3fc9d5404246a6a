package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/bizops/backend/internal/interfaces/http/handler"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// Handlers groups the handlers the router wires up
type Handlers struct {
	Health      *handler.HealthHandler
	Inventory   *handler.InventoryHandler
	Receivable  *handler.ReceivableHandler
	Payment     *handler.PaymentHandler
	Fulfillment *handler.FulfillmentHandler
	Customer    *handler.CustomerHandler
	Location    *handler.LocationHandler
	Product     *handler.ProductHandler
	Admin       *handler.AdminHandler
}

// New builds the gin engine with all middleware and routes registered
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, h Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)

	// Liveness and readiness stay outside auth
	engine.GET("/health", h.Health.Live)
	engine.GET("/ready", h.Health.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.ActorAuth(jwtService, log))

	inventory := api.Group("/inventory")
	{
		inventory.POST("/movements", h.Inventory.RecordMovement)
		inventory.POST("/transfers", h.Inventory.Transfer)
		inventory.POST("/adjustments", h.Inventory.RecordAdjustment)
		inventory.POST("/reconcile", h.Inventory.Reconcile)
		inventory.GET("/balances/:productId/:locationId", h.Inventory.GetBalance)
		inventory.GET("/movements/:productId/:locationId", h.Inventory.ListMovements)
	}

	receivables := api.Group("/receivables")
	{
		receivables.POST("", h.Receivable.Create)
		receivables.GET("", h.Receivable.List)
		receivables.GET("/aging-report", h.Receivable.AgingReport)
		receivables.GET("/:id", h.Receivable.GetByID)
		receivables.POST("/:id/write-off", h.Receivable.WriteOff)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payment.Apply)
		payments.GET("/:id", h.Payment.GetByID)
	}

	api.POST("/orders/fulfilled", h.Fulfillment.OrderFulfilled)

	customers := api.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.GetByID)
		customers.GET("/:id/credit-history", h.Customer.CreditHistory)
	}

	locations := api.Group("/locations")
	{
		locations.POST("", h.Location.Create)
		locations.GET("", h.Location.List)
		locations.GET("/:id", h.Location.GetByID)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.GetByID)
	}

	if h.Admin != nil {
		api.POST("/admin/sweep", h.Admin.TriggerSweep)
	}

	return engine, nil
}
