package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/krishikbazar/backend/internal/handlers"
  "github.com/krishikbazar/backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler         *handlers.AuthHandler
  AuthMiddleware      *middleware.AuthMiddleware
  RateLimitMiddleware *middleware.RateLimitMiddleware
  UserHandler         *handlers.UserHandler
  ProductHandler      *handlers.ProductHandler
  CartHandler         *handlers.CartHandler
  OrderHandler        *handlers.OrderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(otelgin.Middleware("krishikbazar"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
  }
  router.POST("/refresh", cfg.AuthHandler.Refresh)
  // Catalog browsing is open to everyone.
  router.GET("/products", cfg.ProductHandler.List)
  router.GET("/products/:id", cfg.ProductHandler.Get)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  limited := cfg.RateLimitMiddleware.Limit()
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PUT("/user/profile", limited, cfg.UserHandler.UpdateProfile)
  // Catalog management (farmers)
  protected.POST("/products", limited, cfg.ProductHandler.Create)
  protected.PUT("/products/:id", limited, cfg.ProductHandler.Update)
  protected.DELETE("/products/:id", limited, cfg.ProductHandler.Delete)
  protected.GET("/my-products", cfg.ProductHandler.ListOwn)
  // Cart
  protected.GET("/cart", cfg.CartHandler.GetCart)
  protected.POST("/cart/add/:productId", limited, cfg.CartHandler.AddToCart)
  protected.POST("/cart/update-item/:itemId", limited, cfg.CartHandler.UpdateItem)
  protected.POST("/cart/remove/:itemId", limited, cfg.CartHandler.RemoveItem)
  // Checkout and orders
  protected.GET("/checkout", cfg.OrderHandler.GetCheckout)
  protected.POST("/checkout", limited, cfg.OrderHandler.Checkout)
  protected.GET("/order-confirmation/:orderId", cfg.OrderHandler.GetOrder)
  protected.POST("/cancel-order/:orderId", limited, cfg.OrderHandler.CancelOrder)
  protected.GET("/orders", cfg.OrderHandler.ListOrders)

  return router
}
