package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"produits/internal/handlers"
	"produits/internal/realtime"
	"produits/internal/repositories"
	"produits/internal/services"
	"produits/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "lesbonsartisans")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables the AMQP bridge
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	mongoURI := viper.GetString("MONGODB_URI")
	mongoDatabase := viper.GetString("MONGODB_DATABASE")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Connect to MongoDB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(mongoDatabase)

	// --- Initialize Repository ---
	productRepo := repositories.NewMongoProductRepository(db)

	// --- Initialize Realtime Hub ---
	// The hub is the broadcaster behind the websocket endpoint; every
	// committed mutation is fanned out to all connected clients.
	hub := realtime.NewHub()

	publishers := []realtime.EventPublisher{hub}

	// --- Optional AMQP Event Bridge ---
	// When configured, product events are also republished to RabbitMQ
	// for external consumers. The API itself does not depend on it.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: AMQP bridge disabled, failed to connect: %v", err)
		} else {
			defer mqClient.Close()
			publishers = append(publishers, mqClient)
		}
	}

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo, publishers...)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	socketHandler := handlers.NewSocketHandler(hub)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Service Banner ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Product Catalog API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"products": "/api/products",
				"health":   "/api/health",
				"realtime": "/ws",
			},
		})
	})

	// --- API Routes ---
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	api.Get("/health", func(c *fiber.Ctx) error {
		database := "connected"
		pingCtx, pingCancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer pingCancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			database = "disconnected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "OK",
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// --- Realtime Channel ---
	socketHandler.RegisterRoutes(app)

	// --- 404 Fallback ---
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Route not found",
			"path":    c.OriginalURL(),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()
	if err := mongoClient.Disconnect(disconnectCtx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}

	log.Println("Server gracefully stopped")
}
