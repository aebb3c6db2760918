package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when one or more referenced products do
// not exist in the catalog. Raised before any mutation.
var ErrProductNotFound = errors.New("one or more products not found")

// ErrSaleNotFound is returned when a sale id has no persisted sale.
var ErrSaleNotFound = errors.New("sale not found")

// ErrConsistency labels persistence failures that occur after validation
// already passed. The surrounding transaction rolls back, but the failure
// is surfaced verbatim and never retried automatically.
var ErrConsistency = errors.New("persistence consistency fault")

// ValidationError rejects malformed input at the boundary, before the
// engines run.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// InsufficientStockError names the offending product together with the
// available and the aggregate requested quantity.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

type InsufficientPaymentError struct {
	TotalAmount decimal.Decimal
	AmountPaid  decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %s, paid %s",
		e.TotalAmount.StringFixed(2), e.AmountPaid.StringFixed(2))
}
