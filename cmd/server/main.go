package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"skool-lms/internal/adapters/http/middleware"
	"skool-lms/internal/adapters/http/routes"
	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/config"
	"skool-lms/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "skool-lms/docs" // Swagger docs
)

// @title Skool LMS API
// @version 1.0
// @description Admissions and learning management backend: registration with email verification, professional application review, onboarding and student-admin chat.

// @contact.name API Support
// @contact.email info.skool.lms@gmail.com

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Start cron service (daily purge of expired OTPs and reset tokens)
	cronService := services.NewCronService(repositories.NewUserRepository(db))
	cronService.Start()
	defer cronService.Stop()

	// Object storage for passport uploads
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize object storage: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Skool LMS API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // passport uploads arrive as base64 data URIs
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes; the returned hub owns live chat and notifications
	hub := routes.Setup(app, db, cfg, storageService)
	go hub.Run()
	go func() {
		log.Printf("🚀 Websocket listener starting on port %s", cfg.SocketPort)
		if err := hub.Listen(cfg.SocketPort); err != nil {
			log.Fatalf("❌ Websocket listener failed: %v", err)
		}
	}()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
