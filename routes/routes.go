package routes

import (
	"os"
	"strings"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/controllers"
	"github.com/ErnestKamau/inventory-systems/services"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	paymentService := services.NewPaymentService(config.DB)
	saleController := controllers.SaleController{Payments: paymentService}
	paymentController := controllers.PaymentController{Service: paymentService}
	reportController := controllers.ReportController{}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.POST("/:id/confirm", controllers.ConfirmOrder)
			orders.POST("/:id/cancel", controllers.CancelOrder)
		}

		// Sale routes
		sales := api.Group("/sales")
		{
			sales.GET("", saleController.GetSales)
			sales.GET("/:id", saleController.GetSale)
			sales.DELETE("/:id", saleController.DeleteSale)
			sales.GET("/:id/summary", saleController.GetSummary)
			sales.POST("/:id/debt", saleController.SetAsDebt)

			// Payment ledger routes
			sales.POST("/:id/payments", paymentController.AddPayment)
			sales.POST("/:id/payments/batch", paymentController.AddPayments)
			sales.GET("/:id/payments", paymentController.GetPayments)
		}
		api.DELETE("/payments/:id", paymentController.DeletePayment)

		// Reports routes
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-store", controllers.UpdateStoreProfile)
			profile.PUT("/update-hours", controllers.UpdateBusinessHours)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	return r
}
