package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;check:price >= 0" json:"price"`
	Media       string          `gorm:"type:text;not null" json:"media"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
