package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/routes"
	"github.com/ErnestKamau/inventory-systems/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sale{},
		&models.Payment{},
		&models.ReminderLog{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	paymentService := services.NewPaymentService(config.DB)
	reminderService := services.NewReminderService(config.DB)
	services.NewScheduler(paymentService, reminderService).Start()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
