package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/krishikbazar/backend/internal/services"
  "github.com/krishikbazar/backend/internal/types"
)

type AuthHandler struct {
  svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
  return &AuthHandler{svc: svc}
}

type registerRequest struct {
  Username string `json:"username"`
  Email    string `json:"email"`
  Role     string `json:"role"`
  Phone    string `json:"phone"`
  Address  string `json:"address"`
  Password string `json:"password"`
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
  var req registerRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  user := &types.User{
    Username: req.Username,
    Email:    req.Email,
    Role:     req.Role,
    Phone:    req.Phone,
    Address:  req.Address,
    Password: req.Password,
  }
  if err := h.svc.RegisterUser(c.Request.Context(), user); err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully! You can now log in."})
}

type loginRequest struct {
  Email    string `json:"email"`
  Password string `json:"password"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  accessToken, refreshToken, err := h.svc.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "expires_in":    int(h.svc.GetAccessTTL().Seconds()),
  })
}

type refreshRequest struct {
  RefreshToken string `json:"refresh_token"`
}

// POST /refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
  var req refreshRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  accessToken, refreshToken, err := h.svc.RefreshUser(c.Request.Context(), req.RefreshToken)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "expires_in":    int(h.svc.GetAccessTTL().Seconds()),
  })
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
  if err := h.svc.LogoutUser(c.Request.Context()); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "You have been logged out."})
}
