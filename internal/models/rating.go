package models

import "time"

// Rating is unique per (user, product); a zero rating is never stored.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:user_product_unique" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:user_product_unique;index" json:"product_id"`
	Rating    int       `gorm:"type:smallint;not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// All returns every model managed by the migrator, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&CartItem{},
		&Rating{},
	}
}
