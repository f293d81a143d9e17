package models

import "time"

// CartItem is unique per (user, product). Rows with a quantity below one
// are deleted instead of stored.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_product" json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_user_product;index" json:"-"`
	Quantity  int       `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
	CreatedAt time.Time `json:"-"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product"`
}
