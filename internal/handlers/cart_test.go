package handlers

import (
  "context"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/services"
  "github.com/krishikbazar/backend/internal/types"
)

type fakeCartService struct {
  view        *services.CartView
  err         error
  gotProduct  uuid.UUID
  gotItem     uuid.UUID
  gotQuantity int
}

func (f *fakeCartService) GetCart(ctx context.Context) (*services.CartView, error) {
  return f.view, f.err
}

func (f *fakeCartService) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*services.CartView, error) {
  f.gotProduct = productID
  f.gotQuantity = quantity
  return f.view, f.err
}

func (f *fakeCartService) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error {
  f.gotItem = itemID
  f.gotQuantity = quantity
  return f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
  f.gotItem = itemID
  return f.err
}

func newCartRouter(svc services.CartService) *gin.Engine {
  gin.SetMode(gin.TestMode)
  router := gin.New()
  h := NewCartHandler(svc)
  router.GET("/cart", h.GetCart)
  router.POST("/cart/add/:productId", h.AddToCart)
  router.POST("/cart/update-item/:itemId", h.UpdateItem)
  router.POST("/cart/remove/:itemId", h.RemoveItem)
  return router
}

func TestAddToCartDefaultsQuantityToOne(t *testing.T) {
  fake := &fakeCartService{view: &services.CartView{Order: &types.Order{ID: uuid.New()}}}
  router := newCartRouter(fake)
  productID := uuid.New()

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/add/"+productID.String(), nil)
  router.ServeHTTP(w, req)

  if w.Code != http.StatusOK {
    t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
  }
  if fake.gotProduct != productID {
    t.Fatalf("product id: want=%s got=%s", productID, fake.gotProduct)
  }
  if fake.gotQuantity != 1 {
    t.Fatalf("quantity: want=1 got=%d", fake.gotQuantity)
  }
}

func TestAddToCartPassesBodyQuantity(t *testing.T) {
  fake := &fakeCartService{view: &services.CartView{}}
  router := newCartRouter(fake)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/add/"+uuid.NewString(), strings.NewReader(`{"quantity": 4}`))
  req.Header.Set("Content-Type", "application/json")
  router.ServeHTTP(w, req)

  if w.Code != http.StatusOK {
    t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
  }
  if fake.gotQuantity != 4 {
    t.Fatalf("quantity: want=4 got=%d", fake.gotQuantity)
  }
}

func TestAddToCartRejectsBadProductID(t *testing.T) {
  fake := &fakeCartService{}
  router := newCartRouter(fake)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/add/not-a-uuid", nil)
  router.ServeHTTP(w, req)

  if w.Code != http.StatusBadRequest {
    t.Fatalf("status: want=400 got=%d", w.Code)
  }
}

func TestAddToCartInsufficientStockPayload(t *testing.T) {
  fake := &fakeCartService{err: &services.InsufficientStockError{
    Message: "Cannot add 3. Only 2 left in stock.",
    Shortages: []services.StockShortage{
      {ProductName: "Cucumbers", Available: 2, Requested: 3},
    },
  }}
  router := newCartRouter(fake)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/add/"+uuid.NewString(), strings.NewReader(`{"quantity": 3}`))
  req.Header.Set("Content-Type", "application/json")
  router.ServeHTTP(w, req)

  if w.Code != http.StatusBadRequest {
    t.Fatalf("status: want=400 got=%d body=%s", w.Code, w.Body.String())
  }
  var body struct {
    Error     string `json:"error"`
    Shortages []struct {
      ProductName string `json:"product_name"`
      Available   int    `json:"available"`
      Requested   int    `json:"requested"`
    } `json:"shortages"`
  }
  if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
    t.Fatalf("unmarshal: %v", err)
  }
  if body.Error != "Cannot add 3. Only 2 left in stock." {
    t.Fatalf("error message: got %q", body.Error)
  }
  if len(body.Shortages) != 1 || body.Shortages[0].ProductName != "Cucumbers" {
    t.Fatalf("shortages: got %+v", body.Shortages)
  }
}

func TestUpdateItemNotFoundMapsTo404(t *testing.T) {
  fake := &fakeCartService{err: services.ErrNotFound}
  router := newCartRouter(fake)
  itemID := uuid.New()

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/update-item/"+itemID.String(), strings.NewReader(`{"quantity": 2}`))
  req.Header.Set("Content-Type", "application/json")
  router.ServeHTTP(w, req)

  if w.Code != http.StatusNotFound {
    t.Fatalf("status: want=404 got=%d body=%s", w.Code, w.Body.String())
  }
  if fake.gotItem != itemID {
    t.Fatalf("item id: want=%s got=%s", itemID, fake.gotItem)
  }
}

func TestRemoveItemSuccessMessage(t *testing.T) {
  fake := &fakeCartService{}
  router := newCartRouter(fake)

  w := httptest.NewRecorder()
  req := httptest.NewRequest(http.MethodPost, "/cart/remove/"+uuid.NewString(), nil)
  router.ServeHTTP(w, req)

  if w.Code != http.StatusOK {
    t.Fatalf("status: want=200 got=%d", w.Code)
  }
  if !strings.Contains(w.Body.String(), "Item removed from cart.") {
    t.Fatalf("unexpected body: %s", w.Body.String())
  }
}
