package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/services"
)

type ProductHandler struct {
  svc services.ProductService
}

func NewProductHandler(svc services.ProductService) *ProductHandler {
  return &ProductHandler{svc: svc}
}

type productRequest struct {
  Name        string `json:"name"`
  Description string `json:"description"`
  Price       string `json:"price"`
  Stock       string `json:"stock"`
  Category    string `json:"category"`
  ImageURL    string `json:"image_url"`
}

func (r productRequest) toInput() services.ProductInput {
  return services.ProductInput{
    Name:        r.Name,
    Description: r.Description,
    Price:       r.Price,
    Stock:       r.Stock,
    Category:    r.Category,
    ImageURL:    r.ImageURL,
  }
}

// GET /products?q=&category=&sort=&page=
func (h *ProductHandler) List(c *gin.Context) {
  page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
  result, err := h.svc.ListProducts(c.Request.Context(), repos.ProductListQuery{
    Search:   c.Query("q"),
    Category: c.Query("category"),
    Sort:     c.DefaultQuery("sort", "date_desc"),
    Page:     page,
  })
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, result)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
    return
  }
  product, err := h.svc.GetProduct(c.Request.Context(), productID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"product": product})
}

// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
  var req productRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  product, err := h.svc.CreateProduct(c.Request.Context(), req.toInput())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"product": product})
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
    return
  }
  var req productRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  product, err := h.svc.UpdateProduct(c.Request.Context(), productID, req.toInput())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"product": product})
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
  productID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
    return
  }
  if err := h.svc.DeleteProduct(c.Request.Context(), productID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "Product deleted successfully!"})
}

// GET /my-products
func (h *ProductHandler) ListOwn(c *gin.Context) {
  products, err := h.svc.ListOwnProducts(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"products": products})
}
