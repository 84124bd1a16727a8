package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alphagex/dashboard/internal/config"
	"alphagex/dashboard/internal/handler"
	"alphagex/dashboard/internal/middleware"
	"alphagex/dashboard/internal/repository"
	"alphagex/dashboard/internal/service"
	"alphagex/dashboard/pkg/logger"
	"alphagex/dashboard/pkg/metricsapi"
	"alphagex/dashboard/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting AlphaGEX dashboard backend...")
	log.Infof("Environment: %s", cfg.Server.Env)

	// Initialize Redis
	log.Info("Connecting to Redis...")
	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	log.Info("Redis connected")

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "Redis connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"redis":  "connected",
		})
	})

	// Initialize metrics API client
	apiClient := metricsapi.NewClient(cfg.MetricsAPI.BaseURL, cfg.MetricsAPI.Timeout)

	// Initialize repository
	snapshotRepo := repository.NewSnapshotRepository(redisClient)

	// Initialize WebSocket hub
	hub := service.NewWSHub(redisClient)
	go hub.Run()
	go hub.StartPubSubListener(context.Background())

	// Initialize services
	refreshService := service.NewRefreshService(apiClient, snapshotRepo, hub, cfg.Poll)
	botService := service.NewBotService(apiClient, snapshotRepo, refreshService, cfg.Reset.ConfirmTTL)

	// Start polling the backend
	refreshService.Start()

	// Initialize handlers
	botHandler := handler.NewBotHandler(botService, refreshService)

	mutationLimit := middleware.MutationRateLimit(redisClient, cfg.RateLimit.MutationRequestsPerMinute)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "pong",
				"time":    time.Now().Unix(),
			})
		})

		// Bot routes
		bots := v1.Group("/bots")
		{
			bots.GET("", botHandler.ListBots)
			bots.GET("/:id/status", botHandler.GetStatus)
			bots.GET("/:id/summary", botHandler.GetSummary)
			bots.GET("/:id/capital", botHandler.GetCapitalConfig)
			bots.GET("/:id/reconciliation", botHandler.GetReconciliation)
			bots.POST("/:id/refresh", botHandler.Refresh)
			bots.POST("/:id/capital", mutationLimit, botHandler.UpdateCapital)
			bots.POST("/:id/reset/request", mutationLimit, botHandler.RequestReset)
			bots.POST("/:id/reset/confirm", mutationLimit, botHandler.ConfirmReset)
		}

		// WebSocket endpoint for live state pushes
		v1.GET("/ws", hub.ServeWS)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	log.Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop polling and countdown timers before the server drains
	refreshService.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
