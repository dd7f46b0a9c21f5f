package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  RoleFarmer = "farmer"
  RoleBuyer  = "buyer"
)

type User struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Username    string      `gorm:"uniqueIndex;not null;column:username" json:"username"`
  Email       string      `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password    string      `gorm:"not null;column:password" json:"-"`
  Role        string      `gorm:"not null;column:role" json:"role"`
  Phone       string      `gorm:"column:phone" json:"phone"`
  Address     string      `gorm:"column:address" json:"address"`
  CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
