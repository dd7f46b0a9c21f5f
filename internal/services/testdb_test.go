package services

import (
  "context"
  "fmt"
  "strings"
  "testing"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/requestdata"
  "github.com/krishikbazar/backend/internal/types"
)

type testEnv struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  productRepo   repos.ProductRepo
  orderRepo     repos.OrderRepo
  orderItemRepo repos.OrderItemRepo
  cart          CartService
  orders        OrderService
  products      ProductService
}

func setupTestEnv(t *testing.T) *testEnv {
  t.Helper()
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  // A named shared-cache database keeps every pooled connection on the same
  // in-memory store.
  name := strings.ReplaceAll(t.Name(), "/", "_")
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("gorm.Open: %v", err)
  }
  if err := db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Product{},
    &types.Order{},
    &types.OrderItem{},
  ); err != nil {
    t.Fatalf("AutoMigrate: %v", err)
  }

  userRepo := repos.NewUserRepo(db, log)
  productRepo := repos.NewProductRepo(db, log)
  orderRepo := repos.NewOrderRepo(db, log)
  orderItemRepo := repos.NewOrderItemRepo(db, log)

  return &testEnv{
    db:            db,
    log:           log,
    userRepo:      userRepo,
    productRepo:   productRepo,
    orderRepo:     orderRepo,
    orderItemRepo: orderItemRepo,
    cart:          NewCartService(db, log, orderRepo, orderItemRepo, productRepo),
    orders:        NewOrderService(db, log, orderRepo, orderItemRepo, productRepo),
    products:      NewProductService(db, log, productRepo),
  }
}

func (env *testEnv) createUser(t *testing.T, username, role string) *types.User {
  t.Helper()
  user := &types.User{
    ID:       uuid.New(),
    Username: username,
    Email:    username + "@example.com",
    Password: "hashed",
    Role:     role,
  }
  if err := env.db.Create(user).Error; err != nil {
    t.Fatalf("create user: %v", err)
  }
  return user
}

func (env *testEnv) createProduct(t *testing.T, seller *types.User, name string, price string, stock int) *types.Product {
  t.Helper()
  product := &types.Product{
    ID:          uuid.New(),
    UserID:      seller.ID,
    Name:        name,
    Description: name + " from the farm",
    Price:       decimal.RequireFromString(price),
    Stock:       stock,
    Category:    types.CategoryVegetable,
  }
  if err := env.db.Create(product).Error; err != nil {
    t.Fatalf("create product: %v", err)
  }
  return product
}

func (env *testEnv) ctxFor(user *types.User) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID: user.ID,
    Role:   user.Role,
  })
}

func (env *testEnv) reloadProduct(t *testing.T, productID uuid.UUID) *types.Product {
  t.Helper()
  var product types.Product
  if err := env.db.Where("id = ?", productID).First(&product).Error; err != nil {
    t.Fatalf("reload product: %v", err)
  }
  return &product
}

func (env *testEnv) reloadOrder(t *testing.T, orderID uuid.UUID) *types.Order {
  t.Helper()
  var order types.Order
  if err := env.db.Where("id = ?", orderID).First(&order).Error; err != nil {
    t.Fatalf("reload order: %v", err)
  }
  return &order
}

func (env *testEnv) countItems(t *testing.T, orderID uuid.UUID) int {
  t.Helper()
  var count int64
  if err := env.db.Model(&types.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
    t.Fatalf("count items: %v", err)
  }
  return int(count)
}
