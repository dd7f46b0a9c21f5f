package types

import (
  "time"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
)

const (
  OrderStatusCart      = "cart"
  OrderStatusPending   = "pending"
  OrderStatusCompleted = "completed"
  OrderStatusCancelled = "cancelled"
)

type Order struct {
  ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
  UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
  User            *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  Status          string            `gorm:"column:status;not null;default:cart;index" json:"status"`
  TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:decimal(10,2);not null" json:"total_price"`
  ShippingAddress string            `gorm:"column:shipping_address" json:"shipping_address"`
  PaymentMethod   string            `gorm:"column:payment_method" json:"payment_method"`
  Items           []*OrderItem      `gorm:"foreignKey:OrderID;references:ID" json:"items,omitempty"`
  CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
  UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "order" }
