package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/config"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/handlers"
	"github.com/tunride/ride-backend/internal/middleware"
	"github.com/tunride/ride-backend/internal/services"
	"github.com/tunride/ride-backend/pkg/jwt"
	"github.com/tunride/ride-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting TunRide backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Apply schema migrations before opening the pool
	if cfg.Database.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.Database.URL, logger); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	redisClient := newRedisClient(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	tripRepository := database.NewTripRepository(db)
	accountRepository := database.NewAccountRepository(db)
	profileRepository := database.NewProfileRepository(db)
	settingRepository := database.NewPlatformSettingRepository(db)
	locationRepository := database.NewLocationRepository(db)
	statsRepository := database.NewStatsRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.ConfirmTokenExpiry)
	phoneValidator := validator.NewPhoneValidator()

	settingService := services.NewSettingService(settingRepository, logger)
	locationService := services.NewLocationService(locationRepository, redisClient, cfg.Redis.LocationTTL, logger)

	var tripEvents services.TripEventPublisher
	if redisClient != nil {
		tripEvents = services.NewRedisTripPublisher(redisClient)
	}

	tripService := services.NewTripService(
		tripRepository,
		locationService,
		settingService,
		tripEvents,
		cfg.App.Location,
		logger,
	)
	accountService := services.NewAccountService(
		accountRepository,
		profileRepository,
		jwtService,
		settingService,
		phoneValidator,
		cfg.Security.BcryptCost,
		logger,
	)
	profileService := services.NewProfileService(
		profileRepository,
		accountRepository,
		settingService,
		phoneValidator,
		logger,
	)
	adminService := services.NewAdminService(statsRepository)

	// Scheduled stale trip sweep
	var cronService *services.CronService
	var jobReporter handlers.JobReporter
	if cfg.Maintenance.EnableCron {
		cronService = services.NewCronService(tripService, cfg.Maintenance.CronSpec, cfg.App.Location, logger)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
		jobReporter = cronService
		logger.Info("✓ Cron service started - stale trip expiry enabled")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService, !cfg.IsProduction(), logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)
	tripHandler := handlers.NewTripHandler(tripService, logger)
	locationHandler := handlers.NewLocationHandler(locationService, logger)
	adminHandler := handlers.NewAdminHandler(profileService, adminService, logger)
	settingHandler := handlers.NewSettingHandler(settingService, logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(tripService, jobReporter, logger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, version)

	authMiddleware := middleware.NewAuth(jwtService, profileService, logger)
	idempotency := middleware.Idempotency(redisClient, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", middleware.IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", authHandler.SignUp)
			auth.POST("/sign-in", authHandler.SignIn)
			auth.POST("/confirm", authHandler.ConfirmEmail)
			auth.POST("/sign-out", authMiddleware.Required(), authHandler.SignOut)
		}

		me := v1.Group("/me", authMiddleware.Required())
		{
			me.GET("", profileHandler.GetMe)
			me.PUT("/profile", profileHandler.CompleteProfile)
			me.GET("/trips", tripHandler.ListMyTrips)
		}

		trips := v1.Group("/trips")
		{
			trips.GET("", authMiddleware.Optional(), tripHandler.ListTrips)
			trips.GET("/:id", authMiddleware.Optional(), tripHandler.GetTrip)
			trips.POST("", authMiddleware.Required(), idempotency, tripHandler.CreateTrip)
			trips.POST("/:id/accept", authMiddleware.Required(), idempotency, tripHandler.AcceptTrip)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("/governorates", locationHandler.ListGovernorates)
			locations.GET("/cities", locationHandler.ListCities)
		}

		admin := v1.Group("/admin", authMiddleware.Required(), middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/count", adminHandler.CountUsers)
			admin.PUT("/users/:id/approval", adminHandler.SetApproval)
			admin.GET("/trips", tripHandler.ListTrips)
			admin.DELETE("/trips/:id", tripHandler.DeleteTrip)
			admin.GET("/finance", adminHandler.FinanceOverview)
			admin.GET("/settings", settingHandler.GetAllSettings)
			admin.PUT("/settings/:key", settingHandler.UpdateSetting)
		}

		maintenance := v1.Group("/maintenance", middleware.MaintenanceSecret(cfg.Maintenance.Secret, logger))
		{
			maintenance.POST("/expire-trips", maintenanceHandler.ExpireTrips)
			maintenance.GET("/jobs", maintenanceHandler.JobStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cronService != nil {
		logger.Info("Stopping cron service...")
		cronService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// newRedisClient connects to Redis when configured. An unreachable server is
// logged and kept; callers fall back to the database per request.
func newRedisClient(cfg config.RedisConfig, logger *logrus.Logger) *redis.Client {
	if cfg.URL == "" {
		logger.Info("REDIS_URL not set, caching and idempotency keys disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Fatalf("Invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable at startup, continuing without cache")
	} else {
		logger.Info("Redis connection established")
	}

	return client
}
