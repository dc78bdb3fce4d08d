package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"menu-backend/checkout"
	"menu-backend/config"
	"menu-backend/database"
	"menu-backend/handlers"
	"menu-backend/routes"
	"menu-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	envErr := config.LoadEnv()

	logger, err := config.NewLogger()
	if err != nil {
		panic("failed to initialise logger: " + err.Error())
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Fatal("error loading .env file", zap.Error(envErr))
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(logger); err != nil {
		logger.Fatal("environment validation failed", zap.Error(err))
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.CreateDefaultAdmin(db, logger); err != nil {
		logger.Warn("could not create default admin", zap.Error(err))
	}
	if _, err := database.CreateDefaultRestaurant(db, logger); err != nil {
		logger.Warn("could not create default restaurant", zap.Error(err))
	}

	// Guest sessions live in memory; idle ones are evicted with their carts.
	sessions := utils.NewSessionStore(config.GetDurationEnv("SESSION_IDLE_TTL", 2*time.Hour))
	stopJanitor := make(chan struct{})
	go sessions.RunJanitor(5*time.Minute, stopJanitor, func(n int) {
		logger.Info("evicted idle sessions", zap.Int("count", n))
	})

	orders := checkout.NewService(&checkout.DBOrders{DB: db}, logger.Named("checkout"),
		config.GetDurationEnv("ORDER_TIMEOUT", checkout.DefaultTimeout))
	orders.OnPlaced = handlers.NotifyOrderPlaced(db, logger.Named("email"))

	// Setup Gin router
	if config.GetEnv("APP_ENV", "production") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	// CORS configuration - filter out empty strings from AllowOrigins
	var origins []string
	for _, o := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		logger.Warn("no CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Dependencies{
		DB:         db,
		Sessions:   sessions,
		Checkout:   orders,
		SessionTTL: config.GetDurationEnv("SESSION_TOKEN_TTL", 12*time.Hour),
		Log:        logger,
	})

	// Start server with graceful shutdown
	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	close(stopJanitor)

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("error closing database connection", zap.Error(err))
		} else {
			logger.Info("database connection closed")
		}
	}

	logger.Info("server exited gracefully")
}

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if strings.HasPrefix(c.Request.URL.Path, "/health") {
			return
		}
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
