package types

import (
  "time"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"
)

const (
  CategoryVegetable = "vegetable"
  CategoryFruit     = "fruit"
  CategorySeed      = "seed"
  CategoryDairy     = "dairy"
  CategoryOther     = "other"
)

func ValidCategory(category string) bool {
  switch category {
  case CategoryVegetable, CategoryFruit, CategorySeed, CategoryDairy, CategoryOther:
    return true
  }
  return false
}

type Product struct {
  ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Name        string            `gorm:"column:name;not null" json:"name"`
  Description string            `gorm:"column:description" json:"description"`
  Price       decimal.Decimal   `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
  Stock       int               `gorm:"column:stock;not null;default:0" json:"stock"`
  Category    string            `gorm:"column:category;not null;index" json:"category"`
  ImageURL    string            `gorm:"column:image_url" json:"image_url"`
  CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
  DeletedAt   gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }
