package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHTTP "goodloop/internal/controller/http"
	"goodloop/internal/repo/persistent"
	"goodloop/internal/usecase"
	"goodloop/pkg/classifier"
	"goodloop/pkg/config"
	"goodloop/pkg/jwt"
	"goodloop/pkg/logger"
	"goodloop/pkg/middleware"
	"goodloop/pkg/queue"
	"goodloop/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "goodloop/docs" // Swagger docs
)

const (
	roleDonor       = "donor"
	roleBeneficiary = "beneficiary"
	roleBusiness    = "business"
	roleAdmin       = "admin"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to initialize S3 client: %v", err)
		panic(err)
	}
	classifierClient := classifier.NewClient(cfg)

	// Initialize repositories
	donationRepo := persistent.NewDonationRepository(db)
	listingRepo := persistent.NewListingRepository(db, log)
	ledgerRepo := persistent.NewLedgerRepository(db)

	// queueClient may be nil when RabbitMQ is unreachable; lifecycle
	// notifications are then skipped.
	var publisher usecase.NotificationPublisher
	if queueClient != nil {
		publisher = queueClient
	}

	// Initialize use cases
	donationUseCase := usecase.NewDonationUseCase(donationRepo, s3Client, classifierClient, publisher, log)
	listingUseCase := usecase.NewListingUseCase(listingRepo, s3Client, publisher, log)
	ledgerUseCase := usecase.NewLedgerUseCase(ledgerRepo, redisClient, cfg.WelcomeBonusCredits, log)
	notificationUseCase := usecase.NewNotificationUseCase(redisClient, log)

	// Initialize HTTP handlers
	donationHandler := apiHTTP.NewDonationHandler(donationUseCase, log)
	listingHandler := apiHTTP.NewListingHandler(listingUseCase, log)
	walletHandler := apiHTTP.NewWalletHandler(ledgerUseCase, log)
	notificationHandler := apiHTTP.NewNotificationHandler(notificationUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		// Donations
		api.POST("/donations", middleware.RequireRole(roleDonor), donationHandler.SubmitDonation)
		api.GET("/donations/mine", middleware.RequireRole(roleDonor), donationHandler.GetMyDonations)
		api.GET("/donations/:id", donationHandler.GetDonation)
		api.DELETE("/donations/:id/images/:image_id", middleware.RequireRole(roleDonor), donationHandler.RemoveDonationImage)

		// Listings
		api.GET("/listings", listingHandler.ListListings)
		api.GET("/listings/mine", listingHandler.GetMyListings)
		api.GET("/listings/:id", listingHandler.GetListing)
		api.POST("/listings", middleware.RequireRole(roleBusiness), listingHandler.CreateListing)
		api.POST("/listings/:id/claim", middleware.RequireRole(roleBeneficiary), listingHandler.ClaimListing)

		// Wallet
		api.GET("/wallet/balance", walletHandler.GetBalance)
		api.GET("/wallet/transactions", walletHandler.GetTransactions)
		api.POST("/wallet/welcome-bonus", middleware.RequireRole(roleBeneficiary), walletHandler.ClaimWelcomeBonus)

		// Notifications
		api.GET("/notifications", notificationHandler.GetNotifications)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(roleAdmin))
	{
		admin.GET("/donations/pending", donationHandler.GetPendingDonations)
		admin.POST("/donations/:id/approve", donationHandler.ApproveDonation)
		admin.POST("/donations/:id/reclassify", donationHandler.ReclassifyDonation)
		admin.POST("/donations/:id/reject", donationHandler.RejectDonation)
		admin.POST("/donations/:id/reopen", donationHandler.ReopenDonation)
		admin.POST("/donations/:id/received", donationHandler.MarkReceived)
		admin.PUT("/donations/:id/value", donationHandler.EditDonationValue)
		admin.PUT("/donations/:id/note", donationHandler.SetAdminNote)
		admin.DELETE("/donations/:id", donationHandler.DeleteDonation)

		admin.PUT("/listings/:id/cost", listingHandler.UpdateListingCost)
		admin.DELETE("/listings/:id/images/:image_id", listingHandler.RemoveListingImage)
		admin.POST("/listings/:id/restore", listingHandler.RestoreListing)
		admin.DELETE("/listings/:id", listingHandler.DeleteListing)

		admin.POST("/wallet/adjust", walletHandler.AdjustCredits)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start consuming lifecycle events in a goroutine
	if queueClient != nil {
		go func() {
			log.Info("Starting notification consumer...")
			if err := queueClient.ConsumeNotificationTasks(notificationUseCase.HandleTask); err != nil {
				log.Error("Error starting notification consumer: %v", err)
			}
		}()
	}

	// Start server in a goroutine
	go func() {
		log.Info("Goodloop API starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Goodloop API exited")
}
