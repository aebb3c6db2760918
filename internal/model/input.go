package model

import "github.com/shopspring/decimal"

// Request payloads accepted at the API boundary. Decimal fields are
// sign-checked in the services; validator tags cover the rest.

type CreateProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Barcode       *string         `json:"barcode"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Stock         int             `json:"stock_quantity" validate:"gte=0"`
}

type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Barcode       *string          `json:"barcode"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	Stock         *int             `json:"stock_quantity"`
}

// SaleLineInput is one cart line. A product may appear in more than one
// line; lines are never merged.
type SaleLineInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type CreateSaleInput struct {
	Items      []SaleLineInput `json:"items" validate:"required,min=1,dive"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

type CreateStockAdjustmentInput struct {
	ProductID      uint           `json:"product_id" validate:"required"`
	AdjustmentType AdjustmentType `json:"adjustment_type" validate:"required,oneof=ADD REDUCE"`
	Quantity       int            `json:"quantity" validate:"required,gt=0"`
	Reason         *string        `json:"reason"`
}
