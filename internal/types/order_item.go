package types

import (
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
)

// Price is captured from the product at add-time so later catalog price
// changes never move a historical total.
type OrderItem struct {
  ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
  OrderID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
  Order     *Order            `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"-"`
  ProductID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
  Product   *Product          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
  Quantity  int               `gorm:"column:quantity;not null" json:"quantity"`
  Price     decimal.Decimal   `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
}

func (OrderItem) TableName() string { return "order_item" }
