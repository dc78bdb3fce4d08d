package routes

import (
	"time"

	"menu-backend/catalog"
	"menu-backend/checkout"
	"menu-backend/config"
	"menu-backend/handlers"
	"menu-backend/middleware"
	"menu-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB         *gorm.DB
	Sessions   *utils.SessionStore
	Checkout   *checkout.Service
	SessionTTL time.Duration
	Log        *zap.Logger
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	store := catalog.NewStore(deps.DB)

	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: deps.DB, Log: deps.Log}
	menuHandler := &handlers.MenuHandler{Catalog: store, Log: deps.Log}
	sessionHandler := &handlers.SessionHandler{Catalog: store, Sessions: deps.Sessions, TokenTTL: deps.SessionTTL, Log: deps.Log}
	cartHandler := &handlers.CartHandler{Catalog: store, Log: deps.Log}
	orderHandler := &handlers.OrderHandler{DB: deps.DB, CheckoutService: deps.Checkout, Log: deps.Log}
	restaurantHandler := &handlers.RestaurantHandler{DB: deps.DB, Log: deps.Log}
	categoryHandler := &handlers.CategoryHandler{DB: deps.DB, Catalog: store, Log: deps.Log}
	productHandler := &handlers.ProductHandler{DB: deps.DB, Log: deps.Log}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	sessionLimiter := middleware.NewRateLimiter(30, time.Minute)
	orderLimiter := middleware.NewRateLimiter(config.GetIntEnv("ORDER_RATE_LIMIT", 5), time.Minute).KeyBy(middleware.SessionKey)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

		// Menu browsing
		api.GET("/restaurants/:slug/menu", menuHandler.GetMenu)
		api.GET("/restaurants/:slug/products/:id", menuHandler.GetProduct)
		api.POST("/restaurants/:slug/sessions", sessionLimiter.Middleware(), sessionHandler.OpenSession)

		api.GET("/orders/track/:number", orderHandler.TrackOrder)
	}

	// Guest routes (require a session token)
	guest := api.Group("")
	guest.Use(middleware.SessionMiddleware(deps.Sessions))
	{
		guest.GET("/cart", cartHandler.GetCart)
		guest.POST("/cart/items", cartHandler.AddItem)
		guest.PUT("/cart/items/quantity", cartHandler.UpdateQuantity)
		guest.PUT("/cart/items/selection", cartHandler.ReplaceSelection)
		guest.DELETE("/cart/items", cartHandler.RemoveItem)
		guest.DELETE("/cart", cartHandler.ClearCart)

		guest.POST("/orders", orderLimiter.Middleware(), orderHandler.Checkout)
	}

	// Back office routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.GET("/order-transitions", orderHandler.GetOrderTransitions)

	// Platform admin only
	platform := admin.Group("")
	platform.Use(middleware.AdminMiddleware())
	{
		platform.GET("/restaurants", restaurantHandler.ListRestaurants)
		platform.POST("/restaurants", restaurantHandler.CreateRestaurant)
		platform.POST("/users", authHandler.CreateOwner)
	}

	// Restaurant management (admin, or the owner of the restaurant)
	scoped := admin.Group("/restaurants/:restaurantId")
	scoped.Use(middleware.RestaurantAccessMiddleware())
	{
		scoped.GET("/branches", restaurantHandler.ListBranches)
		scoped.POST("/branches", restaurantHandler.CreateBranch)

		scoped.GET("/categories", categoryHandler.GetCategories)
		scoped.POST("/categories", categoryHandler.CreateCategory)
		scoped.PUT("/categories/:id", categoryHandler.UpdateCategory)
		scoped.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		scoped.GET("/products", productHandler.GetProducts)
		scoped.POST("/products", productHandler.CreateProduct)
		scoped.PUT("/products/:id", productHandler.UpdateProduct)
		scoped.DELETE("/products/:id", productHandler.DeleteProduct)

		scoped.PUT("/reorder/:kind", categoryHandler.Reorder)

		scoped.GET("/orders", orderHandler.GetOrders)
		scoped.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "sessions": deps.Sessions.Len()})
	})
}
