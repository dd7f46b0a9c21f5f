package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/requestdata"
  "github.com/krishikbazar/backend/internal/services"
)

type UserHandler struct {
  svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
  return &UserHandler{svc: svc}
}

// GET /user
func (h *UserHandler) GetMe(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  user, err := h.svc.GetUser(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"user": user})
}

type profileUpdateRequest struct {
  Username        string `json:"username"`
  Email           string `json:"email"`
  Role            string `json:"role"`
  Phone           string `json:"phone"`
  Address         string `json:"address"`
  Password        string `json:"password"`
  ConfirmPassword string `json:"confirm_password"`
}

// PUT /user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  var req profileUpdateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  user, err := h.svc.UpdateProfile(c.Request.Context(), rd.UserID, services.ProfileUpdate{
    Username:        req.Username,
    Email:           req.Email,
    Role:            req.Role,
    Phone:           req.Phone,
    Address:         req.Address,
    Password:        req.Password,
    ConfirmPassword: req.ConfirmPassword,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "Profile updated successfully.", "user": user})
}
