package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/harrykososuta/avf-simulator/internal/delivery/http"
	"github.com/harrykososuta/avf-simulator/internal/publisher"
	"github.com/harrykososuta/avf-simulator/internal/repository/postgres"
	"github.com/harrykososuta/avf-simulator/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.SimulationRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			pool = nil
		}
	}
	if pool != nil {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		repo = postgres.NewPostgresRepository(pool)
	} else {
		log.Println("Running with in-memory history only")
		repo = postgres.NewMockRepository()
	}

	// Optional queue publisher for completed runs
	var resultPublisher http.ResultPublisher
	if cfg.AMQPURL != "" {
		pub, err := publisher.NewRabbitMQPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Printf("Warning: Could not connect to RabbitMQ: %v", err)
		} else {
			defer pub.Close()
			log.Println("Connected to RabbitMQ")
			resultPublisher = pub
		}
	}

	// Dependency Injection: Services
	bloodSvc := service.NewHemorheologyService()
	geometrySvc := service.NewGeometryService()
	flowSvc := service.NewFlowService()
	hemoSvc := service.NewHemodynamicsService(bloodSvc, geometrySvc, flowSvc)
	predictionSvc := service.NewPredictionService()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "AVF Simulator API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	handler := http.NewHandler(bloodSvc, geometrySvc, flowSvc, hemoSvc, predictionSvc, repo, resultPublisher)
	http.SetupRoutes(app, handler)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL string
	AMQPURL     string
	AMQPQueue   string
	Port        string
	Env         string
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AMQPURL:     getEnv("AMQP_URL", ""),
		AMQPQueue:   getEnv("AMQP_QUEUE", "avf.simulations"),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
