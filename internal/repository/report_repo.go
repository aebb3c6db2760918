package repository

import (
	"time"

	"go-kasir-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleItemCostRow joins a sale line with the product's current purchase
// price for profit/loss aggregation. The join is live: cost of goods sold
// always reflects the purchase price at report time.
type SaleItemCostRow struct {
	SaleID        uint            `json:"sale_id"`
	SaleCreatedAt time.Time       `json:"sale_created_at"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

type ReportRepository interface {
	SalesInRange(start, end time.Time) ([]model.Sale, error)
	SaleItemCostsInRange(start, end time.Time) ([]SaleItemCostRow, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// SalesInRange returns sale headers with created_at in [start, end),
// oldest first.
func (r *reportRepo) SalesInRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC, id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *reportRepo) SaleItemCostsInRange(start, end time.Time) ([]SaleItemCostRow, error) {
	var rows []SaleItemCostRow
	err := r.db.
		Table("sale_items").
		Select(`sale_items.sale_id AS sale_id,
			sales.created_at AS sale_created_at,
			sale_items.quantity AS quantity,
			sale_items.total_price AS total_price,
			products.purchase_price AS purchase_price`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.created_at >= ? AND sales.created_at < ?", start, end).
		Order("sales.created_at ASC, sale_items.id ASC").
		Scan(&rows).Error
	return rows, err
}
