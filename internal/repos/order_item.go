package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/types"
)

type OrderItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error)
  GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.OrderItem, error)
  GetByOrderAndProduct(ctx context.Context, tx *gorm.DB, orderID, productID uuid.UUID) (*types.OrderItem, error)
  ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderItem, error)
  UpdateQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error
  Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
}

type orderItemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
  repoLog := baseLog.With("repo", "OrderItemRepo")
  return &orderItemRepo{db: db, log: repoLog}
}

func (oir *orderItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  if len(items) == 0 {
    return []*types.OrderItem{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
    return nil, err
  }
  return items, nil
}

func (oir *orderItemRepo) GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.OrderItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  var result types.OrderItem
  if err := transaction.WithContext(ctx).
    Preload("Order").
    Preload("Product").
    Where("id = ?", itemID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (oir *orderItemRepo) GetByOrderAndProduct(ctx context.Context, tx *gorm.DB, orderID, productID uuid.UUID) (*types.OrderItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  var result types.OrderItem
  if err := transaction.WithContext(ctx).
    Where("order_id = ? AND product_id = ?", orderID, productID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (oir *orderItemRepo) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  var results []*types.OrderItem
  if err := transaction.WithContext(ctx).
    Preload("Product").
    Where("order_id = ?", orderID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (oir *orderItemRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  return transaction.WithContext(ctx).
    Model(&types.OrderItem{}).
    Where("id = ?", itemID).
    Update("quantity", quantity).Error
}

func (oir *orderItemRepo) Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = oir.db
  }
  return transaction.WithContext(ctx).
    Where("id = ?", itemID).
    Delete(&types.OrderItem{}).Error
}
