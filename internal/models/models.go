package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	FullName     string `gorm:"not null"                 json:"fullname"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

// Discount is in percentage points; the catalog filter compares it against
// minimum-discount thresholds.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"             json:"id"`
	Name        string    `gorm:"not null"                             json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null;check:price>=0"              json:"price"`
	Discount    float64   `gorm:"not null;default:0;check:discount>=0" json:"discount"`
	CreatedAt   time.Time `gorm:"autoCreateTime"                       json:"created_at"`
}

// CartItem holds one (product, quantity) line of a user's cart. The unique
// index keeps at most one line per product per user; repeated adds collapse
// into the quantity instead.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"              json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"            json:"quantity"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
