package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/services"
)

type OrderHandler struct {
  svc services.OrderService
}

func NewOrderHandler(svc services.OrderService) *OrderHandler {
  return &OrderHandler{svc: svc}
}

// GET /checkout
func (h *OrderHandler) GetCheckout(c *gin.Context) {
  view, err := h.svc.GetCheckout(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

type checkoutRequest struct {
  ShippingAddress string `json:"shipping_address"`
  PaymentMethod   string `json:"payment_method"`
}

// POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
  var req checkoutRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  order, err := h.svc.Checkout(c.Request.Context(), services.CheckoutInput{
    ShippingAddress: req.ShippingAddress,
    PaymentMethod:   req.PaymentMethod,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "message": "Order placed successfully! Stock has been updated.",
    "order":   order,
  })
}

// GET /order-confirmation/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
  orderID, err := uuid.Parse(c.Param("orderId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
    return
  }
  view, err := h.svc.GetOrder(c.Request.Context(), orderID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, view)
}

// POST /cancel-order/:orderId
func (h *OrderHandler) CancelOrder(c *gin.Context) {
  orderID, err := uuid.Parse(c.Param("orderId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
    return
  }
  if err := h.svc.CancelOrder(c.Request.Context(), orderID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "Order has been cancelled and stock has been restored."})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
  orders, err := h.svc.ListOrders(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"orders": orders})
}
