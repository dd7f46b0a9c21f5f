package services

import (
  "errors"
  "testing"
  "github.com/shopspring/decimal"
)

func TestAddToCartCreatesCartAndCapturesPrice(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Tomatoes", "10.00", 5)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 3)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  if view.Order == nil || view.Order.Status != "cart" {
    t.Fatalf("expected cart order, got %+v", view.Order)
  }
  if len(view.Items) != 1 {
    t.Fatalf("item count: want=1 got=%d", len(view.Items))
  }
  if !view.Order.TotalPrice.Equal(decimal.NewFromInt(30)) {
    t.Fatalf("total: want=30 got=%s", view.Order.TotalPrice)
  }

  // A later catalog price change must not move the captured price.
  if err := env.db.Model(product).Update("price", decimal.NewFromInt(99)).Error; err != nil {
    t.Fatalf("update price: %v", err)
  }
  got, err := env.cart.GetCart(ctx)
  if err != nil {
    t.Fatalf("GetCart: %v", err)
  }
  if !got.Order.TotalPrice.Equal(decimal.NewFromInt(30)) {
    t.Fatalf("total after price change: want=30 got=%s", got.Order.TotalPrice)
  }
}

func TestAddToCartReusesSingleCart(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  a := env.createProduct(t, farmer, "Apples", "2.00", 10)
  b := env.createProduct(t, farmer, "Beets", "3.00", 10)
  ctx := env.ctxFor(buyer)

  first, err := env.cart.AddToCart(ctx, a.ID, 1)
  if err != nil {
    t.Fatalf("AddToCart a: %v", err)
  }
  second, err := env.cart.AddToCart(ctx, b.ID, 2)
  if err != nil {
    t.Fatalf("AddToCart b: %v", err)
  }
  if first.Order.ID != second.Order.ID {
    t.Fatalf("expected one cart per buyer, got %s and %s", first.Order.ID, second.Order.ID)
  }
  if len(second.Items) != 2 {
    t.Fatalf("item count: want=2 got=%d", len(second.Items))
  }
}

func TestAddToCartBumpsExistingItem(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Carrots", "1.50", 10)
  ctx := env.ctxFor(buyer)

  if _, err := env.cart.AddToCart(ctx, product.ID, 2); err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  view, err := env.cart.AddToCart(ctx, product.ID, 3)
  if err != nil {
    t.Fatalf("AddToCart again: %v", err)
  }
  if len(view.Items) != 1 {
    t.Fatalf("item count: want=1 got=%d", len(view.Items))
  }
  if view.Items[0].Quantity != 5 {
    t.Fatalf("quantity: want=5 got=%d", view.Items[0].Quantity)
  }
  if !view.Order.TotalPrice.Equal(decimal.RequireFromString("7.50")) {
    t.Fatalf("total: want=7.50 got=%s", view.Order.TotalPrice)
  }
}

func TestAddToCartRejectsOverStock(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Cucumbers", "4.00", 2)
  ctx := env.ctxFor(buyer)

  _, err := env.cart.AddToCart(ctx, product.ID, 3)
  var stockErr *InsufficientStockError
  if !errors.As(err, &stockErr) {
    t.Fatalf("expected InsufficientStockError, got %v", err)
  }
}

func TestUpdateItemZeroQuantityRemoves(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Onions", "2.00", 10)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 4)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  if err := env.cart.UpdateItem(ctx, view.Items[0].ID, 0); err != nil {
    t.Fatalf("UpdateItem: %v", err)
  }
  if count := env.countItems(t, view.Order.ID); count != 0 {
    t.Fatalf("item count after zero-quantity update: want=0 got=%d", count)
  }
  order := env.reloadOrder(t, view.Order.ID)
  if !order.TotalPrice.Equal(decimal.Zero) {
    t.Fatalf("total for empty cart: want=0 got=%s", order.TotalPrice)
  }
}

func TestUpdateItemNegativeQuantityRemoves(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Leeks", "2.00", 10)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 4)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  if err := env.cart.UpdateItem(ctx, view.Items[0].ID, -2); err != nil {
    t.Fatalf("UpdateItem: %v", err)
  }
  if count := env.countItems(t, view.Order.ID); count != 0 {
    t.Fatalf("item count after negative update: want=0 got=%d", count)
  }
}

func TestUpdateItemRejectsOverStockAndLeavesItemUnchanged(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Pumpkins", "6.00", 3)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 2)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  err = env.cart.UpdateItem(ctx, view.Items[0].ID, 7)
  var stockErr *InsufficientStockError
  if !errors.As(err, &stockErr) {
    t.Fatalf("expected InsufficientStockError, got %v", err)
  }

  got, err := env.cart.GetCart(ctx)
  if err != nil {
    t.Fatalf("GetCart: %v", err)
  }
  if got.Items[0].Quantity != 2 {
    t.Fatalf("quantity after rejection: want=2 got=%d", got.Items[0].Quantity)
  }
  if !got.Order.TotalPrice.Equal(decimal.NewFromInt(12)) {
    t.Fatalf("total after rejection: want=12 got=%s", got.Order.TotalPrice)
  }
}

func TestUpdateItemSetsQuantityAndRecomputes(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Spinach", "3.00", 10)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 1)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  if err := env.cart.UpdateItem(ctx, view.Items[0].ID, 4); err != nil {
    t.Fatalf("UpdateItem: %v", err)
  }
  order := env.reloadOrder(t, view.Order.ID)
  if !order.TotalPrice.Equal(decimal.NewFromInt(12)) {
    t.Fatalf("total: want=12 got=%s", order.TotalPrice)
  }
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  a := env.createProduct(t, farmer, "Apples", "10.00", 5)
  b := env.createProduct(t, farmer, "Berries", "5.00", 5)
  ctx := env.ctxFor(buyer)

  if _, err := env.cart.AddToCart(ctx, a.ID, 3); err != nil {
    t.Fatalf("AddToCart a: %v", err)
  }
  view, err := env.cart.AddToCart(ctx, b.ID, 2)
  if err != nil {
    t.Fatalf("AddToCart b: %v", err)
  }
  var removed bool
  for _, item := range view.Items {
    if item.ProductID == b.ID {
      if err := env.cart.RemoveItem(ctx, item.ID); err != nil {
        t.Fatalf("RemoveItem: %v", err)
      }
      removed = true
    }
  }
  if !removed {
    t.Fatalf("item for product b not found")
  }
  order := env.reloadOrder(t, view.Order.ID)
  if !order.TotalPrice.Equal(decimal.NewFromInt(30)) {
    t.Fatalf("total after removal: want=30 got=%s", order.TotalPrice)
  }
  // Stock is never touched while the order is still a cart.
  if got := env.reloadProduct(t, b.ID).Stock; got != 5 {
    t.Fatalf("stock after removal: want=5 got=%d", got)
  }
}

func TestUpdateItemZeroQuantityRemovesAfterProductDeleted(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  product := env.createProduct(t, farmer, "Radishes", "2.00", 10)
  ctx := env.ctxFor(buyer)

  view, err := env.cart.AddToCart(ctx, product.ID, 2)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  if err := env.products.DeleteProduct(env.ctxFor(farmer), product.ID); err != nil {
    t.Fatalf("DeleteProduct: %v", err)
  }

  // Removal must still work; otherwise the orphan item blocks checkout.
  if err := env.cart.UpdateItem(ctx, view.Items[0].ID, 0); err != nil {
    t.Fatalf("UpdateItem after product delete: %v", err)
  }
  if count := env.countItems(t, view.Order.ID); count != 0 {
    t.Fatalf("item count: want=0 got=%d", count)
  }
  order := env.reloadOrder(t, view.Order.ID)
  if !order.TotalPrice.Equal(decimal.Zero) {
    t.Fatalf("total for empty cart: want=0 got=%s", order.TotalPrice)
  }
}

func TestCartItemsAreOwnerScoped(t *testing.T) {
  env := setupTestEnv(t)
  farmer := env.createUser(t, "farmer1", "farmer")
  buyer := env.createUser(t, "buyer1", "buyer")
  intruder := env.createUser(t, "buyer2", "buyer")
  product := env.createProduct(t, farmer, "Garlic", "2.00", 10)

  view, err := env.cart.AddToCart(env.ctxFor(buyer), product.ID, 2)
  if err != nil {
    t.Fatalf("AddToCart: %v", err)
  }
  err = env.cart.UpdateItem(env.ctxFor(intruder), view.Items[0].ID, 5)
  if !errors.Is(err, ErrNotFound) {
    t.Fatalf("expected ErrNotFound for foreign item, got %v", err)
  }
}
