package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/services"
)

type CartHandler struct {
  svc services.CartService
}

func NewCartHandler(svc services.CartService) *CartHandler {
  return &CartHandler{svc: svc}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
  view, err := h.svc.GetCart(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

type addToCartRequest struct {
  Quantity int `json:"quantity"`
}

// POST /cart/add/:productId
func (h *CartHandler) AddToCart(c *gin.Context) {
  productID, err := uuid.Parse(c.Param("productId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
    return
  }
  req := addToCartRequest{Quantity: 1}
  if c.Request.ContentLength > 0 {
    if err := c.ShouldBindJSON(&req); err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
  }
  view, err := h.svc.AddToCart(c.Request.Context(), productID, req.Quantity)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

type updateItemRequest struct {
  Quantity int `json:"quantity"`
}

// POST /cart/update-item/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
  itemID, err := uuid.Parse(c.Param("itemId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
    return
  }
  var req updateItemRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := h.svc.UpdateItem(c.Request.Context(), itemID, req.Quantity); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "Cart updated."})
}

// POST /cart/remove/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
  itemID, err := uuid.Parse(c.Param("itemId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
    return
  }
  if err := h.svc.RemoveItem(c.Request.Context(), itemID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "Item removed from cart."})
}
