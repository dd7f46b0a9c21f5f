package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/krishikbazar/backend/internal/services"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service error classes onto statuses: business
// rejections are 4xx with the human-readable message, everything else is an
// opaque 500.
func RespondServiceError(c *gin.Context, err error) {
  var stockErr *services.InsufficientStockError
  switch {
  case errors.As(err, &stockErr):
    c.JSON(http.StatusBadRequest, gin.H{
      "error":     stockErr.Error(),
      "shortages": stockErr.Shortages,
    })
  case errors.Is(err, services.ErrNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, services.ErrFarmerOnly):
    RespondError(c, http.StatusForbidden, "farmer_only", err)
  case services.IsBusinessError(err):
    RespondError(c, http.StatusBadRequest, "validation", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
  }
}
