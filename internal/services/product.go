package services

import (
  "context"
  "fmt"
  "strconv"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/requestdata"
  "github.com/krishikbazar/backend/internal/types"
  "github.com/krishikbazar/backend/internal/utils"
)

type ProductInput struct {
  Name        string
  Description string
  Price       string
  Stock       string
  Category    string
  ImageURL    string
}

type ProductPage struct {
  Products []*types.Product `json:"products"`
  Total    int64            `json:"total"`
  Page     int              `json:"page"`
  PerPage  int              `json:"per_page"`
}

type ProductService interface {
  CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error)
  UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error)
  DeleteProduct(ctx context.Context, productID uuid.UUID) error
  GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
  ListProducts(ctx context.Context, query repos.ProductListQuery) (*ProductPage, error)
  ListOwnProducts(ctx context.Context) ([]*types.Product, error)
}

type productService struct {
  db          *gorm.DB
  log         *logger.Logger
  productRepo repos.ProductRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) ProductService {
  serviceLog := log.With("service", "ProductService")
  return &productService{db: db, log: serviceLog, productRepo: productRepo}
}

// requireFarmer is the single capability gate for catalog management. The
// role rides on the token claims, so there is no per-handler duck typing.
func requireFarmer(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, ErrNotFound
  }
  if rd.Role != types.RoleFarmer {
    return nil, ErrFarmerOnly
  }
  return rd, nil
}

func (ps *productService) parseInput(input ProductInput) (decimal.Decimal, int, error) {
  if input.Name == "" || input.Description == "" || input.Price == "" || input.Stock == "" || input.Category == "" {
    return decimal.Zero, 0, ErrMissingFields
  }
  price, err := decimal.NewFromString(input.Price)
  if err != nil {
    return decimal.Zero, 0, ErrInvalidNumber
  }
  stock, err := strconv.Atoi(input.Stock)
  if err != nil {
    return decimal.Zero, 0, ErrInvalidNumber
  }
  if price.IsNegative() || stock < 0 {
    return decimal.Zero, 0, ErrInvalidNumber
  }
  if !types.ValidCategory(input.Category) {
    return decimal.Zero, 0, ErrInvalidCategory
  }
  return price, stock, nil
}

func (ps *productService) CreateProduct(ctx context.Context, input ProductInput) (*types.Product, error) {
  rd, err := requireFarmer(ctx)
  if err != nil {
    return nil, err
  }
  input.Name = utils.ParseInputString(input.Name)
  input.Description = utils.ParseInputString(input.Description)
  price, stock, err := ps.parseInput(input)
  if err != nil {
    return nil, err
  }
  product := &types.Product{
    ID:          uuid.New(),
    UserID:      rd.UserID,
    Name:        input.Name,
    Description: input.Description,
    Price:       price,
    Stock:       stock,
    Category:    input.Category,
    ImageURL:    input.ImageURL,
  }
  if _, err := ps.productRepo.Create(ctx, nil, []*types.Product{product}); err != nil {
    return nil, fmt.Errorf("Failed to create product: %w", err)
  }
  ps.log.Info("Product created", "product_id", product.ID, "name", product.Name)
  return product, nil
}

func (ps *productService) UpdateProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error) {
  rd, err := requireFarmer(ctx)
  if err != nil {
    return nil, err
  }
  product, err := ps.productRepo.GetByID(ctx, nil, productID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get product: %w", err)
  }
  if product == nil || product.UserID != rd.UserID {
    return nil, ErrNotFound
  }
  input.Name = utils.ParseInputString(input.Name)
  input.Description = utils.ParseInputString(input.Description)
  price, stock, err := ps.parseInput(input)
  if err != nil {
    return nil, err
  }
  product.Name = input.Name
  product.Description = input.Description
  product.Price = price
  product.Stock = stock
  product.Category = input.Category
  if input.ImageURL != "" {
    product.ImageURL = input.ImageURL
  }
  if err := ps.productRepo.Update(ctx, nil, product); err != nil {
    return nil, fmt.Errorf("Failed to update product: %w", err)
  }
  return product, nil
}

func (ps *productService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
  rd, err := requireFarmer(ctx)
  if err != nil {
    return err
  }
  product, err := ps.productRepo.GetByID(ctx, nil, productID)
  if err != nil {
    return fmt.Errorf("Failed to get product: %w", err)
  }
  if product == nil || product.UserID != rd.UserID {
    return ErrNotFound
  }
  if err := ps.productRepo.Delete(ctx, nil, productID); err != nil {
    return fmt.Errorf("Failed to delete product: %w", err)
  }
  ps.log.Info("Product deleted", "product_id", productID)
  return nil
}

func (ps *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
  product, err := ps.productRepo.GetByID(ctx, nil, productID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get product: %w", err)
  }
  if product == nil {
    return nil, ErrNotFound
  }
  return product, nil
}

func (ps *productService) ListProducts(ctx context.Context, query repos.ProductListQuery) (*ProductPage, error) {
  products, total, err := ps.productRepo.List(ctx, nil, query)
  if err != nil {
    return nil, fmt.Errorf("Failed to list products: %w", err)
  }
  page := query.Page
  if page < 1 {
    page = 1
  }
  return &ProductPage{
    Products: products,
    Total:    total,
    Page:     page,
    PerPage:  repos.ProductsPerPage,
  }, nil
}

func (ps *productService) ListOwnProducts(ctx context.Context) ([]*types.Product, error) {
  rd, err := requireFarmer(ctx)
  if err != nil {
    return nil, err
  }
  products, err := ps.productRepo.ListByUserID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list products: %w", err)
  }
  return products, nil
}
