package routes

import (
	"net/http"
	"time"

	"servana/handlers"
	"servana/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers service and category endpoints. Listings
// are public; writes require an authenticated provider.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.Catalog.ListServices)
		api.GET("/services/:id", hb.Catalog.GetService)
		api.GET("/categories", hb.Catalog.ListCategories)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/categories", hb.Catalog.CreateCategory)
		protected.PUT("/categories/:id", hb.Catalog.UpdateCategory)
		protected.DELETE("/categories/:id", hb.Catalog.DeleteCategory)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthMiddleware(), middleware.RequireProvider())
		provider.POST("/services", hb.Catalog.CreateService)
		provider.PUT("/services/:id", hb.Catalog.UpdateService)
		provider.DELETE("/services/:id", hb.Catalog.DeleteService)
	}
}

// RegisterAvailabilityRoutes registers availability ledger endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:providerID", hb.Availability.GetRange)
		api.GET("/:providerID/:date", hb.Availability.GetDay)

		provider := api.Group("")
		provider.Use(middleware.RequireProvider())
		provider.PUT("/:providerID/:date", hb.Availability.SetDay)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Bookings.Create)
		api.GET("", hb.Bookings.List)
		api.GET("/:id", hb.Bookings.Get)
		api.PATCH("/:id/status", hb.Bookings.UpdateStatus)
		api.POST("/:id/reschedule", hb.Bookings.Reschedule)
		api.POST("/:id/rating", hb.Bookings.Rate)
		api.POST("/:id/pay", hb.Bookings.Pay)
	}
}

// RegisterChatRoutes registers conversation and message endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/conversations", hb.Chat.OpenConversation)
		api.GET("/conversations", hb.Chat.ListConversations)
		api.GET("/conversations/:id/messages", hb.Chat.ListMessages)
		api.POST("/conversations/:id/messages", hb.Chat.SendMessage)
		api.POST("/conversations/:id/read", hb.Chat.MarkRead)
	}
}

// RegisterWalletRoutes registers wallet endpoints.
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Wallet.Get)
		api.POST("/deposit", hb.Wallet.Deposit)
		api.GET("/ledger", hb.Wallet.Ledger)
	}
}

// RegisterNotificationRoutes registers the notification feed.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Notifications.List)
		api.POST("/:id/read", hb.Notifications.MarkRead)
	}
}

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.Users.Me)
		api.PUT("/me", hb.Users.UpdateMe)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Servana"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterUserRoutes(r, hb)
}
