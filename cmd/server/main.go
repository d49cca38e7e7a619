package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charterhub/roster-backend/internal/config"
	"github.com/charterhub/roster-backend/internal/database"
	"github.com/charterhub/roster-backend/internal/handlers"
	"github.com/charterhub/roster-backend/internal/middleware"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/charterhub/roster-backend/pkg/jwt"
	"github.com/charterhub/roster-backend/pkg/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
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

	logger.Info("Starting Charter Roster Backend")
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
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := database.EnsureSchema(db); err != nil {
		logger.Fatalf("Failed to ensure database schema: %v", err)
	}
	logger.Info("Database schema ready")

	// Initialize repositories
	tripRepo := database.NewTripRepository(db)
	riderRepo := database.NewRiderRepository(db)
	tripRiderRepo := database.NewTripRiderRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	contactRepo := database.NewContactRepository(db)
	balanceRepo := database.NewBalanceRepository(db)
	adminRepo := database.NewAdminUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	receiptGateway := notify.NewGateway(notify.Config{
		Mode:      cfg.Notifier.Mode,
		APIURL:    cfg.Notifier.APIURL,
		APIKey:    cfg.Notifier.APIKey,
		FromName:  cfg.Notifier.FromName,
		FromEmail: cfg.Notifier.FromEmail,
		CC:        cfg.Notifier.SendCC,
	}, logger)
	if cfg.Notifier.Mode == "production" {
		logger.Info("Receipt notifier initialized in production mode")
	} else {
		logger.Info("Receipt notifier in development mode (receipts are logged, not sent)")
	}

	tripService := services.NewTripService(tripRepo, riderRepo, tripRiderRepo, contactRepo)
	riderService := services.NewRiderService(riderRepo, tripRepo, tripRiderRepo, contactRepo)
	paymentService := services.NewPaymentService(paymentRepo, tripRepo, riderRepo, receiptGateway, logger)
	balanceService := services.NewBalanceService(tripRepo, balanceRepo)
	authService := services.NewAuthService(adminRepo, cfg.Security.BcryptCost)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, jwtService, logger)
	tripHandler := handlers.NewTripHandler(tripService, riderService, logger)
	riderHandler := handlers.NewRiderHandler(riderService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	dashboardHandler := handlers.NewDashboardHandler(balanceService, logger)
	rosterHandler := handlers.NewRosterHandler(tripService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Everything else requires an authenticated admin
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService, logger))
		{
			trips := protected.Group("/trips")
			{
				trips.POST("", tripHandler.CreateTrip)
				trips.GET("", tripHandler.ListTrips)
				trips.GET("/active", tripHandler.GetActiveTrip)
				trips.GET("/:id", tripHandler.GetTrip)
				trips.PUT("/:id", tripHandler.UpdateTrip)
				trips.DELETE("/:id", tripHandler.DeleteTrip)
				trips.POST("/:id/activate", tripHandler.ActivateTrip)
				trips.POST("/:id/riders", tripHandler.AddRiders)
				trips.DELETE("/:id/riders/:riderID", tripHandler.RemoveRider)
				trips.GET("/:id/dashboard", dashboardHandler.GetTripDashboard)
				trips.GET("/:id/roster", rosterHandler.GetRoster)
				trips.GET("/:id/roster/pdf", rosterHandler.ExportRosterPDF)
			}

			riders := protected.Group("/riders")
			{
				riders.POST("", riderHandler.AddRider)
				riders.GET("", riderHandler.ListRiders)
				riders.GET("/:id", riderHandler.GetRider)
				riders.PUT("/:id", riderHandler.EditRider)
				riders.DELETE("/:id", riderHandler.DeleteRider)
				riders.DELETE("/:id/complete", riderHandler.DeleteRiderCompletely)
				riders.GET("/:id/payments", paymentHandler.ListRiderPayments)
			}

			payments := protected.Group("/payments")
			{
				payments.POST("", paymentHandler.AddPayment)
				payments.GET("/:id", paymentHandler.GetPayment)
				payments.PUT("/:id", paymentHandler.EditPayment)
				payments.DELETE("/:id", paymentHandler.DeletePayment)
			}

			protected.GET("/dashboard", dashboardHandler.GetDashboard)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["username"] = userCtx.Username
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
