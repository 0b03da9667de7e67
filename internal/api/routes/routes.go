package routes

import (
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/api/handlers"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/api/middleware"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/config"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/services"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	s3Service := services.NewS3Service(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailService, s3Service, cfg.BaseURL)
	ownershipService := services.NewOwnershipService(db)
	reviewService := services.NewReviewService(db)
	responseService := services.NewResponseService(db)
	venueService := services.NewVenueService(db, reviewService, ownershipService)
	adminService := services.NewAdminService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	reviewHandler := handlers.NewReviewHandler(reviewService, responseService)
	venueHandler := handlers.NewVenueHandler(venueService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), authHandler.GetProfile)
		auth.PUT("/profile-update", middleware.AuthMiddleware(cfg), authHandler.UpdateProfile)
		auth.POST("/profile/avatar", middleware.AuthMiddleware(cfg), authHandler.UploadAvatar)
	}

	// Password reset routes
	passwordGroup := api.Group("/password")
	{
		passwordGroup.POST("/forgot", passwordHandler.ForgotPassword)
		passwordGroup.GET("/validate-reset-token", passwordHandler.ValidateResetToken)
		passwordGroup.POST("/reset", passwordHandler.ResetPassword)
		passwordGroup.POST("/change", middleware.AuthMiddleware(cfg), passwordHandler.ChangePassword)
	}

	// Venue routes (public; detail resolves caller flags when a token is sent)
	venues := api.Group("/venues")
	{
		venues.GET("/", venueHandler.GetVenues)
		venues.GET("/search", venueHandler.SearchVenues)
		venues.GET("/:venue_id", middleware.OptionalAuth(cfg), venueHandler.GetVenue)
	}

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.GET("/venue/:venue_id", reviewHandler.GetVenueReviews)
		reviews.GET("/mine", middleware.AuthMiddleware(cfg), reviewHandler.GetMyReviews)
		reviews.GET("/can-review", middleware.AuthMiddleware(cfg), reviewHandler.CanReview)
		reviews.POST("/", middleware.AuthMiddleware(cfg), reviewHandler.SubmitReview)
		reviews.PUT("/:review_id", middleware.AuthMiddleware(cfg), reviewHandler.UpdateReview)
		reviews.POST("/:review_id/response", middleware.AuthMiddleware(cfg), reviewHandler.RespondToReview)
	}

	// Owner panel
	owner := api.Group("/owner", middleware.AuthMiddleware(cfg))
	{
		owner.GET("/reviews", reviewHandler.GetOwnerInbox)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)

		// Venue management
		admin.POST("/venues", adminHandler.CreateVenue)
		admin.PUT("/venues/:venue_id", adminHandler.UpdateVenue)
		admin.PUT("/venues/:venue_id/status", adminHandler.SetVenueStatus)
		admin.POST("/venues/:venue_id/photo", adminHandler.UploadVenuePhoto)
		admin.POST("/venues/:venue_id/owner", adminHandler.AssignOwner)
		admin.DELETE("/venues/:venue_id", adminHandler.DeleteVenue)

		// Category management
		admin.GET("/categories", adminHandler.GetCategories)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.PUT("/categories/:category_id", adminHandler.UpdateCategory)
		admin.DELETE("/categories/:category_id", adminHandler.DeleteCategory)

		// Location management
		admin.GET("/locations", adminHandler.GetLocations)
		admin.POST("/locations", adminHandler.CreateLocation)
		admin.PUT("/locations/:location_id", adminHandler.UpdateLocation)
		admin.DELETE("/locations/:location_id", adminHandler.DeleteLocation)

		// Promotion management
		admin.POST("/promotions", adminHandler.CreatePromotion)
		admin.PUT("/promotions/:promo_id", adminHandler.UpdatePromotion)
		admin.DELETE("/promotions/:promo_id", adminHandler.DeletePromotion)

		// Review moderation
		admin.POST("/reviews/:review_id/moderate", reviewHandler.ModerateReview)
	}

	logger.Info("Routes initialized successfully")
}
