package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gymbuddy/gymbuddy-backend/config"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/controller"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
	"github.com/gymbuddy/gymbuddy-backend/internal/router"
	"github.com/gymbuddy/gymbuddy-backend/internal/scheduler"
	"github.com/gymbuddy/gymbuddy-backend/internal/storage"
	"github.com/gymbuddy/gymbuddy-backend/internal/websocket"
	"github.com/gymbuddy/gymbuddy-backend/pkg/logger"
	"github.com/gymbuddy/gymbuddy-backend/pkg/payment/gateway"
	"github.com/gymbuddy/gymbuddy-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Gym Buddy Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (token blacklist)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Payment gateway: real client when credentials are present, a
	// disabled stand-in otherwise so verification still works locally
	var payments service.PaymentGateway = gateway.Disabled{}
	if cfg.Payment.APIKey != "" {
		client, err := gateway.NewClient(gateway.Config{
			APIKey:     cfg.Payment.APIKey,
			BaseURL:    cfg.Payment.BaseURL,
			MerchantID: cfg.Payment.MerchantID,
		})
		if err != nil {
			logger.Fatal("Failed to initialize payment gateway", err)
		}
		payments = client
	} else {
		logger.Warn("Payment gateway credentials missing, payments disabled")
	}

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// S3 storage for presigned uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	gymRepo := repository.NewGymAccountRepository(db.GetDB())
	trainerRepo := repository.NewTrainerRepository(db.GetDB())
	workoutRepo := repository.NewWorkoutRepository(db.GetDB())
	chatRepo := repository.NewChatRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	accessService := service.NewAccessService()
	gymService := service.NewGymService(gymRepo)
	trainerService := service.NewTrainerService(trainerRepo)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	verificationService := service.NewVerificationService(gymRepo, trainerRepo, notificationService, payments)
	workoutService := service.NewWorkoutService(workoutRepo, notificationService)
	chatService := service.NewChatService(chatRepo, userRepo, notificationService, hub)
	adminService := service.NewAdminService(userRepo, gymRepo, workoutRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.RefreshTokenExpiry)
	accessController := controller.NewAccessController(accessService, authService)
	gymController := controller.NewGymController(gymService)
	trainerController := controller.NewTrainerController(trainerService)
	workoutController := controller.NewWorkoutController(workoutService)
	chatController := controller.NewChatController(chatService, hub)
	notificationController := controller.NewNotificationController(notificationService)
	adminController := controller.NewAdminController(adminService, verificationService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Workout reminder scheduler
	reminderScheduler := scheduler.NewWorkoutReminderScheduler(workoutRepo, notificationService)
	if err := reminderScheduler.Start(); err != nil {
		logger.Fatal("Failed to start workout reminder scheduler", err)
	}
	defer reminderScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		accessController,
		gymController,
		trainerController,
		workoutController,
		chatController,
		notificationController,
		adminController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
