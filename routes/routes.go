// Package routes wires controllers and middleware into the gin engine.
package routes

import (
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/controllers"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer needs
type Dependencies struct {
	DB             *gorm.DB
	Log            *zap.Logger
	Validator      *validator.Validator
	AllowedOrigins []string
	Location       *time.Location

	Orders    *services.OrderService
	Customers *services.CustomerService
	Stock     *services.StockService
	Cashflow  *services.CashflowService
	Auth      *services.AuthService

	// ReceiptDir enables /receipts/:filename when receipts are kept on disk
	ReceiptDir string
}

// SetupRouter builds the engine with every /api/v1 route
func SetupRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(cors.New(corsConfig(d.AllowedOrigins)))

	health := controllers.NewHealthController(d.DB)
	users := controllers.NewUserController(d.Auth, d.Log)
	orders := controllers.NewOrderController(d.Orders, d.Location, d.Log)
	customers := controllers.NewCustomerController(d.Customers, d.Log)
	stock := controllers.NewStockController(d.Stock, d.Log)
	cashflow := controllers.NewCashflowController(d.Cashflow, d.Location, d.Log)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health.HealthCheck)
		v1.GET("/database/status", health.DatabaseStatus)
		v1.POST("/auth/login", users.Login)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(d.Validator, d.Log))
		authed.Use(middleware.RequireAnyRole(models.RoleAdmin, models.RoleUser))
		{
			authed.GET("/users/me", users.GetMyProfile)
			authed.GET("/dashboard/summary", orders.Dashboard)

			authed.GET("/orders", orders.ListOrders)
			authed.POST("/orders", orders.CreateOrder)
			authed.GET("/orders/:id", orders.GetOrder)
			authed.PUT("/orders/:id", orders.UpdateOrder)
			authed.DELETE("/orders/:id", adminOnly, orders.DeleteOrder)
			authed.GET("/orders/:id/payments", orders.ListPayments)
			authed.POST("/orders/:id/payments", orders.AddPayment)
			authed.GET("/payments/:id/receipt", orders.GetPaymentReceipt)
			authed.GET("/invoice", orders.GetInvoice)

			if d.ReceiptDir != "" {
				receipts := controllers.NewReceiptController(d.ReceiptDir)
				authed.GET("/receipts/:filename", receipts.GetReceipt)
			}

			authed.GET("/customers", customers.ListCustomers)
			authed.POST("/customers", customers.CreateCustomer)
			authed.GET("/customers/:id", customers.GetCustomer)
			authed.PUT("/customers/:id", customers.UpdateCustomer)
			authed.DELETE("/customers/:id", customers.DeleteCustomer)

			authed.GET("/stock", stock.ListStock)
			authed.POST("/stock", adminOnly, stock.CreateStock)
			authed.PUT("/stock/:sr", adminOnly, stock.UpdateStock)
			authed.DELETE("/stock/:sr", adminOnly, stock.DeleteStock)

			authed.GET("/cashflow", cashflow.ListCashflow)
			authed.POST("/cashflow", adminOnly, cashflow.CreateCashflow)
			authed.PUT("/cashflow/:id", adminOnly, cashflow.UpdateCashflow)
			authed.DELETE("/cashflow/:id", adminOnly, cashflow.DeleteCashflow)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
