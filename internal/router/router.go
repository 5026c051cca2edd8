package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/config"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/controller"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	accessController       *controller.AccessController
	gymController          *controller.GymController
	trainerController      *controller.TrainerController
	workoutController      *controller.WorkoutController
	chatController         *controller.ChatController
	notificationController *controller.NotificationController
	adminController        *controller.AdminController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	accessController *controller.AccessController,
	gymController *controller.GymController,
	trainerController *controller.TrainerController,
	workoutController *controller.WorkoutController,
	chatController *controller.ChatController,
	notificationController *controller.NotificationController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		accessController:       accessController,
		gymController:          gymController,
		trainerController:      trainerController,
		workoutController:      workoutController,
		chatController:         chatController,
		notificationController: notificationController,
		adminController:        adminController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Gym Buddy API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.PUT("/me/profile", r.authMiddleware.Authenticate(), r.authController.CompleteProfile)
		}

		access := v1.Group("/access")
		{
			// Decide works for guests too; a missing or stale token
			// produces a signed-out decision, not a 401.
			access.POST("/decide", r.authMiddleware.OptionalAuthenticate(), r.accessController.Decide)
			access.GET("/dashboard", r.authMiddleware.Authenticate(), r.accessController.Dashboard)
			access.GET("/permissions", r.authMiddleware.Authenticate(), r.accessController.Permissions)
		}

		gyms := v1.Group("/gyms")
		{
			gyms.GET("", r.gymController.Search)
			gyms.GET("/me",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAccountType(model.AccountTypeGymOwner),
				r.gymController.GetOwn,
			)
			gyms.PUT("/me",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAccountType(model.AccountTypeGymOwner),
				r.gymController.UpdateOwn,
			)
			gyms.GET("/:id", r.gymController.Get)
		}

		trainers := v1.Group("/trainers")
		{
			trainers.GET("", r.trainerController.Search)
			trainers.GET("/me",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAccountType(model.AccountTypePersonalTrainer),
				r.trainerController.GetOwn,
			)
			trainers.PUT("/me",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAccountType(model.AccountTypePersonalTrainer),
				r.trainerController.UpdateOwn,
			)
			trainers.PUT("/me/accepting",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireAccountType(model.AccountTypePersonalTrainer),
				r.trainerController.SetAccepting,
			)
			trainers.GET("/:id", r.trainerController.Get)
		}

		workouts := v1.Group("/workouts")
		{
			workouts.GET("", r.workoutController.Search)
			workouts.GET("/mine", r.authMiddleware.Authenticate(), r.workoutController.ListMine)
			workouts.GET("/:id", r.workoutController.Get)
			workouts.POST("", r.authMiddleware.Authenticate(), r.workoutController.Create)
			workouts.POST("/:id/join", r.authMiddleware.Authenticate(), r.workoutController.Join)
			workouts.POST("/:id/leave", r.authMiddleware.Authenticate(), r.workoutController.Leave)
		}

		chats := v1.Group("/chats")
		chats.Use(r.authMiddleware.Authenticate())
		{
			chats.POST("", r.chatController.OpenRoom)
			chats.GET("", r.chatController.ListRooms)
			chats.GET("/ws", r.chatController.WebSocketHandler)
			chats.GET("/:id/messages", r.chatController.ListMessages)
			chats.POST("/:id/messages", r.chatController.SendMessage)
			chats.PUT("/:id/read", r.chatController.MarkRead)
			chats.POST("/:id/join", r.chatController.JoinRoom)
			chats.POST("/:id/leave", r.chatController.LeaveRoom)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.List)
			notifications.GET("/unread-count", r.notificationController.UnreadCount)
			notifications.PUT("/read-all", r.notificationController.MarkAllRead)
			notifications.PUT("/:id/read", r.notificationController.MarkRead)
			notifications.DELETE("/:id", r.notificationController.Delete)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		{
			admin.GET("/users",
				r.authMiddleware.RequirePermission(model.PermissionViewAdminDashboard),
				r.adminController.ListUsers,
			)
			admin.PUT("/users/:id/role",
				r.authMiddleware.RequirePermission(model.PermissionManageRoles),
				r.adminController.SetRole,
			)
			admin.GET("/stats",
				r.authMiddleware.RequirePermission(model.PermissionViewAdminDashboard),
				r.adminController.Stats,
			)
			admin.GET("/verifications",
				r.authMiddleware.RequirePermission(model.PermissionManageVerifications),
				r.adminController.ListVerifications,
			)
			admin.GET("/verifications/export",
				r.authMiddleware.RequirePermission(model.PermissionExportReports),
				r.adminController.ExportVerificationReport,
			)
			admin.POST("/verifications/:id/approve",
				r.authMiddleware.RequirePermission(model.PermissionManageVerifications),
				r.adminController.ApproveGym,
			)
			admin.POST("/verifications/:id/decline",
				r.authMiddleware.RequirePermission(model.PermissionManageVerifications),
				r.adminController.DeclineGym,
			)
			admin.POST("/trainers/:id/verify",
				r.authMiddleware.RequirePermission(model.PermissionManageVerifications),
				r.adminController.VerifyTrainer,
			)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
