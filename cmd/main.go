package main

import (
  "context"
  "fmt"
  "os"
  "time"
  goredis "github.com/redis/go-redis/v9"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/utils"
  "github.com/krishikbazar/backend/internal/db"
  "github.com/krishikbazar/backend/internal/observability"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/services"
  "github.com/krishikbazar/backend/internal/handlers"
  "github.com/krishikbazar/backend/internal/middleware"
  "github.com/krishikbazar/backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  rateLimit := utils.GetEnvAsInt("RATE_LIMIT_PER_MINUTE", 60, log)

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "krishikbazar",
    Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
    Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Redis (optional, only backs the rate limiter)
  var rdb *goredis.Client
  if redisAddr := utils.GetEnv("REDIS_ADDR", "", log); redisAddr != "" {
    rdb = goredis.NewClient(&goredis.Options{
      Addr:        redisAddr,
      DialTimeout: 5 * time.Second,
    })
    pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    if err := rdb.Ping(pingCtx).Err(); err != nil {
      log.Warn("Redis unavailable, rate limiting disabled", "error", err)
      _ = rdb.Close()
      rdb = nil
    }
    cancel()
  }

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  productRepo := repos.NewProductRepo(thePG, log)
  orderRepo := repos.NewOrderRepo(thePG, log)
  orderItemRepo := repos.NewOrderItemRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  productService := services.NewProductService(thePG, log, productRepo)
  cartService := services.NewCartService(thePG, log, orderRepo, orderItemRepo, productRepo)
  orderService := services.NewOrderService(thePG, log, orderRepo, orderItemRepo, productRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  productHandler := handlers.NewProductHandler(productService)
  cartHandler := handlers.NewCartHandler(cartService)
  orderHandler := handlers.NewOrderHandler(orderService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  rateLimitMiddleware := middleware.NewRateLimitMiddleware(log, rdb, rateLimit, time.Minute)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    RateLimitMiddleware: rateLimitMiddleware,
    UserHandler:         userHandler,
    ProductHandler:      productHandler,
    CartHandler:         cartHandler,
    OrderHandler:        orderHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
