package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is immutable once created and owns its items.
type Sale struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	AmountPaid   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	ChangeAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"change_amount"`
	CreatedAt    time.Time       `json:"created_at"`

	Items []SaleItem `json:"items"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem carries price and name snapshots taken at commit time so that
// historical receipts stay stable after later product edits.
type SaleItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SaleID      uint            `gorm:"not null;index" json:"sale_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}
