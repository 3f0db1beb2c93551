package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"quizservice/src/core/config"
	"quizservice/src/core/database"
	"quizservice/src/core/logger"
	"quizservice/src/core/router"
)

func main() {
	// Initialize the Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())   // Recover middleware to handle panics
	app.Use(cors.New())      // CORS middleware for cross-origin requests
	app.Use(requestid.New()) // Middleware to generate unique request IDs

	// Setup environment variables
	config.SetupEnv()
	logger.Setup()

	// Connect to the database
	database.ConnectDB()

	// Set up routes
	router.InitialiseAndSetupRoutes(app)

	// Get port from config and start the server
	port := config.ConfigOr("APP_PORT", "3000")
	logger.Log.Fatal(app.Listen(fmt.Sprintf(":%s", port)))
}
