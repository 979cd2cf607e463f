package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/controller"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/app/service"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/emartin/storefront-backend/internal/router"
	"github.com/emartin/storefront-backend/internal/scheduler"
	"github.com/emartin/storefront-backend/pkg/logger"
	"github.com/emartin/storefront-backend/pkg/redis"
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

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist. Logout degrades to a warning
	// without it, so a missing Redis does not block startup.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	deliveryRepo := repository.NewDeliveryOptionRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	productService := service.NewProductService(productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, database)
	cartService := service.NewCartService(cartRepo, productRepo, database)
	notificationService := service.NewNotificationService(notificationRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, notificationService, database)
	deliveryService := service.NewDeliveryService(deliveryRepo)
	adminService := service.NewAdminService(userRepo, productRepo, orderRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)
	cartController := controller.NewCartController(cartService, cfg.Session)
	orderController := controller.NewOrderController(orderService)
	deliveryController := controller.NewDeliveryController(deliveryService)
	notificationController := controller.NewNotificationController(notificationService)
	adminController := controller.NewAdminController(adminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the guest cart cleanup scheduler
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo, cfg.Session.MaxAge)
	if err := cartCleanup.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		reviewController,
		cartController,
		orderController,
		deliveryController,
		notificationController,
		adminController,
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
