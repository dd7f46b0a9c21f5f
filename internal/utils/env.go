package utils

import (
  "os"
  "strconv"
  "github.com/krishikbazar/backend/internal/logger"
)

// GetEnv reads a string setting with a fallback. All marketplace
// configuration (postgres DSN parts, JWT_SECRET_KEY, token TTLs,
// REDIS_ADDR, PORT) flows through here so every default is logged once
// at startup.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
  if log != nil {
    log = log.With("env_var", key)
  }
  val, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Setting not present, falling back to default", "default", defaultVal)
    }
    return defaultVal
  }
  if log != nil {
    log.Debug("Setting read from environment", "value", val)
  }
  return val
}

// GetEnvAsInt is GetEnv for numeric settings (TTL seconds, rate limits).
// An unparsable value counts the same as an absent one.
func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
  if log != nil {
    log = log.With("env_var", key)
  }
  valStr, ok := os.LookupEnv(key)
  if !ok {
    if log != nil {
      log.Debug("Setting not present, falling back to default", "default", defaultVal)
    }
    return defaultVal
  }
  i, err := strconv.Atoi(valStr)
  if err != nil {
    if log != nil {
      log.Debug("Setting is not a valid integer, falling back to default", "value", valStr, "default", defaultVal, "error", err)
    }
    return defaultVal
  }
  if log != nil {
    log.Debug("Setting read from environment", "value", i)
  }
  return i
}
