package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Barcode       *string         `gorm:"type:varchar(100)" json:"barcode"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"selling_price"`
	Stock         int             `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
