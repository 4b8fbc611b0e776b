package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EngineConfig struct {
	Production  bool
	CORSOrigins []string
}

// NewEngine builds the gin engine with every route registered
func NewEngine(cfg EngineConfig, h *Handler, tokens TokenVerifier, logger *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger.Named("access")))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", SessionHeader},
		ExposeHeaders:    []string{"Content-Length", SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	InitializeRoutes(router, h, tokens)
	return router
}

func InitializeRoutes(router *gin.Engine, h *Handler, tokens TokenVerifier) {
	api := router.Group("/api")
	api.GET("/health", h.HealthCheck)

	api.Use(OwnerMiddleware(tokens))
	{
		products := api.Group("/products")
		{
			products.GET("", h.GetAllProducts)
			products.GET("/:id", h.GetProductByID)
			products.GET("/:id/related", h.GetRelatedProducts)
			products.GET("/category/:category", h.GetProductsByCategory)
		}

		api.GET("/categories", h.GetAllCategories)
		api.GET("/deals/countdown", h.GetDealCountdown)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Signup)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/me", RequireUser(), h.Me)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.DELETE("", h.ClearCart)
			cart.POST("/items", h.AddToCart)
			cart.PUT("/items/:id", h.UpdateCartItem)
			cart.DELETE("/items/:id", h.RemoveFromCart)
		}

		wishlist := api.Group("/wishlist")
		{
			wishlist.GET("", h.GetWishlist)
			wishlist.DELETE("", h.ClearWishlist)
			wishlist.POST("/items", h.AddToWishlist)
			wishlist.POST("/toggle", h.ToggleWishlist)
			wishlist.DELETE("/items/:id", h.RemoveFromWishlist)
		}

		orderGroup := api.Group("/orders")
		orderGroup.Use(RequireUser())
		{
			orderGroup.POST("/checkout", h.Checkout)
			orderGroup.GET("", h.GetOrders)
			orderGroup.GET("/insights", h.GetOrderInsights)
		}
	}
}
