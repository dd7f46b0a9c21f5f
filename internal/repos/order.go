package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/types"
)

type OrderRepo interface {
  Create(ctx context.Context, tx *gorm.DB, orders []*types.Order) ([]*types.Order, error)
  GetCartByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Order, error)
  GetByIDAndUserID(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) (*types.Order, error)
  UpdateTotalPrice(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, total decimal.Decimal) error
  UpdateFields(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, fields map[string]interface{}) error
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, excludeCart bool) ([]*types.Order, error)
}

type orderRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
  repoLog := baseLog.With("repo", "OrderRepo")
  return &orderRepo{db: db, log: repoLog}
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.Order) ([]*types.Order, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  if len(orders) == 0 {
    return []*types.Order{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
    return nil, err
  }
  return orders, nil
}

func (or *orderRepo) GetCartByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Order, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  var result types.Order
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND status = ?", userID, types.OrderStatusCart).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (or *orderRepo) GetByIDAndUserID(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) (*types.Order, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  var result types.Order
  if err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", orderID, userID).
    First(&result).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (or *orderRepo) UpdateTotalPrice(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, total decimal.Decimal) error {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Order{}).
    Where("id = ?", orderID).
    Update("total_price", total).Error
}

func (or *orderRepo) UpdateFields(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, fields map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  if len(fields) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.Order{}).
    Where("id = ?", orderID).
    Updates(fields).Error
}

func (or *orderRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, excludeCart bool) ([]*types.Order, error) {
  transaction := tx
  if transaction == nil {
    transaction = or.db
  }
  q := transaction.WithContext(ctx).
    Where("user_id = ?", userID)
  if excludeCart {
    q = q.Where("status <> ?", types.OrderStatusCart)
  }
  var results []*types.Order
  if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
