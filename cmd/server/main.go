package main

import (
	"fmt"
	"log"
	"net/http"

	"campusride/internal/config"
	"campusride/internal/handlers"
	"campusride/internal/middleware"
	"campusride/internal/repositories/mongodb"
	"campusride/internal/services"
	"campusride/pkg/cache"
	"campusride/pkg/database"
	"campusride/pkg/logger"
	"campusride/pkg/notify"
	"campusride/pkg/storage"
	"campusride/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	evidenceStore, err := newStorageProvider(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize evidence store: %v", err)
	}

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier, err = notify.NewAWSSNSNotifier(cfg.Notify.Region, cfg.Notify.TopicARN)
		if err != nil {
			appLogger.Fatalf("Failed to initialize escalation notifier: %v", err)
		}
	}

	cacheService := services.NewCacheService(redisCache)

	reviewRepo := mongodb.NewReviewRepository(db.Database, cacheService)
	ratingRepo := mongodb.NewRatingRepository(db.Database, cacheService)
	moderationRepo := mongodb.NewModerationRepository(db.Database)
	auditRepo := mongodb.NewAuditLogRepository(db.Database)
	tripRepo := mongodb.NewTripRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)

	auditService := services.NewAuditService(auditRepo, db, appLogger)
	ratingService := services.NewRatingService(reviewRepo, ratingRepo, appLogger)
	reviewService := services.NewReviewService(reviewRepo, tripRepo, ratingService, auditService, cfg.Moderation, appLogger)
	moderationService := services.NewModerationService(moderationRepo, reviewRepo, auditService, db, cacheService, evidenceStore, notifier, cfg.Moderation, appLogger)
	adminService := services.NewAdminService(userRepo, tripRepo, bookingRepo, reviewService, moderationService, auditService, appLogger)

	reviewHandler := handlers.NewReviewHandler(reviewService, ratingService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	adminHandler := handlers.NewAdminHandler(adminService)
	auditHandler := handlers.NewAuditHandler(auditService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	v1 := router.Group("/api/v1")
	{
		routes.SetupReviewRoutes(v1, cfg.Security.JWTSecret, reviewHandler, moderationHandler)
		routes.SetupAdminRoutes(v1, cfg.Security.JWTSecret, adminHandler, moderationHandler, auditHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.Provider, error) {
	switch cfg.Provider {
	case "gcp":
		return storage.NewGCPStorage(cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	}
}
