package routes

import (
	"skool-lms/internal/adapters/http/handlers"
	"skool-lms/internal/adapters/http/middleware"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/adapters/ws"
	"skool-lms/internal/config"
	"skool-lms/internal/core/services"
	"skool-lms/internal/pkg/mailer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers, and registers all
// routes. The returned hub carries live chat and notification delivery
// and is started by the caller on its own listener.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, uploader services.PassportUploader) *ws.Hub {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	onboardingRepo := repositories.NewOnboardingRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	// Initialize services
	mail := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
		cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.FromName)
	otpService := services.NewOTPService(userRepo, mail)
	authService := services.NewAuthService(userRepo, onboardingRepo, otpService, mail, cfg)
	userService := services.NewUserService(userRepo, appRepo, onboardingRepo)
	notifyService := services.NewNotificationService(notificationRepo, userRepo)
	applicationService := services.NewApplicationService(appRepo, userRepo, onboardingRepo, uploader, notifyService)
	onboardingService := services.NewOnboardingService(onboardingRepo, courseRepo, userRepo)
	chatService := services.NewChatService(chatRepo, userRepo, appRepo)

	// Websocket hub: persists relayed messages through the chat service
	// and doubles as the live channel for notifications
	hub := ws.NewHub(chatService)
	notifyService.SetLivePusher(hub)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, otpService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupUserRoutes(apiV1.Group("/users"), authHandler, userHandler, onboardingHandler)
	setupCourseRoutes(apiV1.Group("/courses"), onboardingHandler)
	setupApplicationRoutes(apiV1, applicationHandler)
	setupNotificationRoutes(apiV1.Group("/notifications"), notificationHandler)
	apiV1.Post("/admin/notifications/:userId", middleware.AuthMiddleware(), middleware.AdminOnly(), notificationHandler.CreateForUser)
	setupChatRoutes(apiV1.Group("/chats"), chatHandler)

	return hub
}

// setupUserRoutes configures registration, auth and profile routes
func setupUserRoutes(router fiber.Router, authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler, onboardingHandler *handlers.OnboardingHandler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	router.Post("/verify-otp", middleware.AuthRateLimiter(), authHandler.VerifyOTP)
	router.Post("/resend-otp", middleware.AuthRateLimiter(), authHandler.ResendOTP)
	router.Post("/forgotpassword", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	router.Post("/forgotpassword/:token", middleware.StrictRateLimiter(), authHandler.ResetPassword)
	router.Post("/logout", authHandler.Logout)

	// Protected routes
	router.Use(middleware.AuthMiddleware())
	router.Get("/me", userHandler.Me)
	router.Get("/dashboard", userHandler.Dashboard)
	router.Patch("/edit-profile", userHandler.EditProfile)
	router.Patch("/change-password", authHandler.ChangePassword)
	router.Post("/onboarding", onboardingHandler.Complete)
}

// setupCourseRoutes configures course routes
func setupCourseRoutes(router fiber.Router, handler *handlers.OnboardingHandler) {
	router.Get("/availability", handler.CheckAvailability)

	router.Use(middleware.AuthMiddleware())
	router.Get("/", handler.ListCourses)
	router.Post("/", handler.AddCourse)
}

// setupApplicationRoutes configures application submission and review
// routes. Review and bulk management are admin only.
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	appRoutes := router.Group("/professional-application")
	appRoutes.Use(middleware.AuthMiddleware())
	appRoutes.Post("/", handler.Submit)
	appRoutes.Get("/status", handler.HasApplied)
	appRoutes.Get("/:id", handler.Get)

	router.Post("/approve-application/:id", middleware.AuthMiddleware(), middleware.AdminOnly(), handler.Approve)
	router.Post("/reject-application/:id", middleware.AuthMiddleware(), middleware.AdminOnly(), handler.Reject)

	adminRoutes := router.Group("/admin/applications")
	adminRoutes.Use(middleware.AuthMiddleware())
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/", handler.List)
	adminRoutes.Delete("/", handler.DeleteMany)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Use(middleware.AuthMiddleware())
	router.Get("/", handler.List)
	router.Patch("/:id", handler.SetStatus)
	router.Delete("/:id", handler.Delete)
}

// setupChatRoutes configures chat history routes
func setupChatRoutes(router fiber.Router, handler *handlers.ChatHandler) {
	router.Use(middleware.AuthMiddleware())
	router.Get("/", handler.GetContacts)
	router.Post("/", handler.SendMessage)
	router.Get("/:receiverId", handler.GetConversation)
	router.Delete("/:id", handler.DeleteMessage)
}
