package model

import "time"

type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "ADD"
	AdjustmentReduce AdjustmentType = "REDUCE"
)

// StockAdjustment is an immutable audit record of a manual stock delta.
// It stores the requested delta, not the resulting stock level.
type StockAdjustment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ProductID      uint           `gorm:"not null;index" json:"product_id"`
	AdjustmentType AdjustmentType `gorm:"type:varchar(10);not null" json:"adjustment_type"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	Reason         *string        `json:"reason"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}
