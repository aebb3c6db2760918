package service

import (
	"errors"
	"fmt"

	"go-kasir-pos/internal/metrics"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(input *model.CreateSaleInput) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uint) (*model.Sale, error)
}

type saleService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	hub         *ws.Hub
	logger      *zap.Logger
}

func NewSaleService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub, logger *zap.Logger) SaleService {
	return &saleService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		db:          db,
		hub:         hub,
		logger:      logger,
	}
}

// CreateSale commits a cart as one atomic unit: validate, price against the
// current catalog, persist header plus items, decrement stock. Any failure
// rolls the whole thing back, so a retry always starts from clean state.
//
// Duplicate lines for the same product are kept as separate items, but the
// stock check uses the aggregate quantity across all of them.
func (s *saleService) CreateSale(input *model.CreateSaleInput) (*model.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		metrics.SaleCommitFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	var sale *model.Sale
	stockAfter := make(map[uint]int)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Distinct ids in first-appearance order, plus the aggregate
		// requested quantity per product.
		distinct := make([]uint, 0, len(input.Items))
		requested := make(map[uint]int, len(input.Items))
		for _, line := range input.Items {
			if _, ok := requested[line.ProductID]; !ok {
				distinct = append(distinct, line.ProductID)
			}
			requested[line.ProductID] += line.Quantity
		}

		products, err := s.productRepo.FindByIDs(tx, distinct)
		if err != nil {
			return err
		}
		if len(products) != len(distinct) {
			return ErrProductNotFound
		}

		byID := make(map[uint]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		for _, id := range distinct {
			p := byID[id]
			if p.Stock < requested[id] {
				return &InsufficientStockError{
					ProductID:   id,
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   requested[id],
				}
			}
			stockAfter[id] = p.Stock - requested[id]
		}

		// Price every line from the current selling price, never from the
		// client. Name and price are snapshotted into the item.
		items := make([]model.SaleItem, 0, len(input.Items))
		total := decimal.Zero
		for _, line := range input.Items {
			p := byID[line.ProductID]
			lineTotal := p.SellingPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, model.SaleItem{
				ProductID:   p.ID,
				Quantity:    line.Quantity,
				UnitPrice:   p.SellingPrice,
				TotalPrice:  lineTotal,
				ProductName: p.Name,
			})
		}

		if input.AmountPaid.LessThan(total) {
			return &InsufficientPaymentError{TotalAmount: total, AmountPaid: input.AmountPaid}
		}
		change := input.AmountPaid.Sub(total)
		if change.IsNegative() {
			change = decimal.Zero
		}

		sale = &model.Sale{
			TotalAmount:  total,
			AmountPaid:   input.AmountPaid,
			ChangeAmount: change,
			Items:        items,
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return fmt.Errorf("%w: sale insert: %v", ErrConsistency, err)
		}

		for _, id := range distinct {
			if err := s.productRepo.AdjustStock(tx, id, -requested[id]); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					// Lost a race after the pre-check passed on a stale
					// read. Report against fresh state; the rollback
					// discards the header and items written above.
					fresh, ferr := s.productRepo.FindByIDs(tx, []uint{id})
					if ferr == nil && len(fresh) == 1 {
						return &InsufficientStockError{
							ProductID:   id,
							ProductName: fresh[0].Name,
							Available:   fresh[0].Stock,
							Requested:   requested[id],
						}
					}
					return ErrProductNotFound
				}
				return fmt.Errorf("%w: stock decrement: %v", ErrConsistency, err)
			}
		}

		return nil
	})

	if err != nil {
		metrics.SaleCommitFailures.WithLabelValues(failureReason(err)).Inc()
		s.logger.Warn("sale commit rejected", zap.Error(err))
		return nil, err
	}

	metrics.SalesCommitted.Inc()
	s.logger.Info("sale committed",
		zap.Uint("sale_id", sale.ID),
		zap.String("total_amount", sale.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(sale.Items)),
	)

	stocks := make([]map[string]interface{}, 0, len(stockAfter))
	for id, stock := range stockAfter {
		stocks = append(stocks, map[string]interface{}{"product_id": id, "new_stock": stock})
	}
	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_committed",
		"sale": map[string]interface{}{
			"id":           sale.ID,
			"total_amount": sale.TotalAmount,
			"lines":        len(sale.Items),
		},
		"stocks": stocks,
	})

	return sale, nil
}

func (s *saleService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *saleService) GetSaleByID(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func validateSaleInput(input *model.CreateSaleInput) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Reason: fmt.Sprintf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)}
	}
	if !input.AmountPaid.IsPositive() {
		return &ValidationError{Reason: "amount_paid must be positive"}
	}
	return nil
}

func failureReason(err error) string {
	var stockErr *InsufficientStockError
	var paymentErr *InsufficientPaymentError
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.As(err, &paymentErr):
		return "insufficient_payment"
	case errors.Is(err, ErrConsistency):
		return "consistency"
	default:
		return "internal"
	}
}
