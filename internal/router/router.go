package router

import (
	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/controller"
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	productController      *controller.ProductController
	reviewController       *controller.ReviewController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	deliveryController     *controller.DeliveryController
	notificationController *controller.NotificationController
	adminController        *controller.AdminController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	deliveryController *controller.DeliveryController,
	notificationController *controller.NotificationController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		productController:      productController,
		reviewController:       reviewController,
		cartController:         cartController,
		orderController:        orderController,
		deliveryController:     deliveryController,
		notificationController: notificationController,
		adminController:        adminController,
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
			"message": "Storefront API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/categories", r.productController.GetCategories)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.GetProductReviews)
			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.productController.DeleteProduct,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		// Cart endpoints work for guests too; the session cookie
		// identifies anonymous carts.
		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:productId", r.cartController.UpdateItem)
			cart.DELETE("/items/:productId", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/transfer",
				r.authMiddleware.Authenticate(),
				r.cartController.TransferCart,
			)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
			orders.PUT("/:id/pay", r.orderController.MarkPaid)
		}

		v1.GET("/delivery-options",
			r.authMiddleware.OptionalAuthenticate(),
			r.deliveryController.GetOptions,
		)

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.PUT("/read-all", r.notificationController.MarkAllRead)
			notifications.PUT("/:id/read", r.notificationController.MarkRead)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard", r.adminController.GetDashboard)
			admin.GET("/orders", r.orderController.GetAllOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateStatus)
			admin.GET("/users", r.authController.ListUsers)
			admin.PUT("/users/:id/role",
				r.authMiddleware.RequireRole(model.RoleSuperadmin),
				r.authController.UpdateUserRole,
			)

			admin.POST("/delivery-options", r.deliveryController.CreateOption)
			admin.PUT("/delivery-options/:id", r.deliveryController.UpdateOption)
			admin.DELETE("/delivery-options/:id", r.deliveryController.DeleteOption)
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
