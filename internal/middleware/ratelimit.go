package middleware

import (
  "fmt"
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  goredis "github.com/redis/go-redis/v9"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/requestdata"
)

// RateLimitMiddleware caps mutating requests per user with a fixed window
// counter in redis. Without a redis client (or on redis errors) it fails
// open: losing the limiter must never take checkout down with it.
type RateLimitMiddleware struct {
  log    *logger.Logger
  rdb    *goredis.Client
  limit  int
  window time.Duration
}

func NewRateLimitMiddleware(log *logger.Logger, rdb *goredis.Client, limit int, window time.Duration) *RateLimitMiddleware {
  middlewareLogger := log.With("middleware", "RateLimitMiddleware")
  if limit <= 0 {
    limit = 60
  }
  if window <= 0 {
    window = time.Minute
  }
  return &RateLimitMiddleware{log: middlewareLogger, rdb: rdb, limit: limit, window: window}
}

func (rl *RateLimitMiddleware) Limit() gin.HandlerFunc {
  return func(c *gin.Context) {
    if rl.rdb == nil {
      c.Next()
      return
    }
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
      c.Next()
      return
    }
    ctx := c.Request.Context()
    key := fmt.Sprintf("ratelimit:%s:%d", rd.UserID, time.Now().Unix()/int64(rl.window.Seconds()))
    count, err := rl.rdb.Incr(ctx, key).Result()
    if err != nil {
      rl.log.Warn("Rate limit check failed, letting request through", "error", err)
      c.Next()
      return
    }
    if count == 1 {
      if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
        rl.log.Warn("Rate limit expire failed", "error", err)
      }
    }
    if count > int64(rl.limit) {
      c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
      return
    }
    c.Next()
  }
}
