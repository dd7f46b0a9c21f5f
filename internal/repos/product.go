package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/types"
)

const ProductsPerPage = 12

type ProductListQuery struct {
  Search   string
  Category string
  Sort     string
  Page     int
}

type ProductRepo interface {
  Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
  GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Product, error)
  List(ctx context.Context, tx *gorm.DB, query ProductListQuery) ([]*types.Product, int64, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Product, error)
  Update(ctx context.Context, tx *gorm.DB, product *types.Product) error
  Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error
  DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) (bool, error)
  IncrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error
}

type productRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
  repoLog := baseLog.With("repo", "ProductRepo")
  return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if len(products) == 0 {
    return []*types.Product{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
    return nil, err
  }
  return products, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var result types.Product
  if err := transaction.WithContext(ctx).
    Where("id = ?", productID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.Product
  if len(productIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", productIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, query ProductListQuery) ([]*types.Product, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  q := transaction.WithContext(ctx).Model(&types.Product{})
  if query.Search != "" {
    pattern := "%" + query.Search + "%"
    q = q.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
  }
  if query.Category != "" {
    q = q.Where("category = ?", query.Category)
  }

  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  switch query.Sort {
  case "price_asc":
    q = q.Order("price ASC")
  case "price_desc":
    q = q.Order("price DESC")
  case "date_asc":
    q = q.Order("created_at ASC")
  default:
    q = q.Order("created_at DESC")
  }

  page := query.Page
  if page < 1 {
    page = 1
  }
  lastPage := int((total + ProductsPerPage - 1) / ProductsPerPage)
  if lastPage > 0 && page > lastPage {
    page = lastPage
  }

  var results []*types.Product
  if err := q.Offset((page - 1) * ProductsPerPage).
    Limit(ProductsPerPage).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}

func (pr *productRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Product, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.Product
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (pr *productRepo) Update(ctx context.Context, tx *gorm.DB, product *types.Product) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).Save(product).Error
}

func (pr *productRepo) Delete(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).
    Where("id = ?", productID).
    Delete(&types.Product{}).Error
}

// DecrementStock applies a guarded single-statement decrement. The stock
// check and the write happen in one UPDATE, so two concurrent checkouts can
// never jointly drive stock below zero: the second one simply matches no row
// and reports false.
func (pr *productRepo) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  result := transaction.WithContext(ctx).
    Model(&types.Product{}).
    Where("id = ? AND stock >= ?", productID, quantity).
    Update("stock", gorm.Expr("stock - ?", quantity))
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected == 1, nil
}

// IncrementStock restores stock unconditionally, soft-deleted rows included:
// a cancellation must hand back exactly what checkout took, even if the
// farmer has since removed the product from the catalog.
func (pr *productRepo) IncrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity int) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  return transaction.WithContext(ctx).
    Unscoped().
    Model(&types.Product{}).
    Where("id = ?", productID).
    Update("stock", gorm.Expr("stock + ?", quantity)).Error
}
