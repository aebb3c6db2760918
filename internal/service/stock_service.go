package service

import (
	"errors"
	"fmt"

	"go-kasir-pos/internal/metrics"
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StockService interface {
	CreateAdjustment(input *model.CreateStockAdjustmentInput) (*model.StockAdjustment, error)
	GetAllAdjustments() ([]model.StockAdjustment, error)
}

type stockService struct {
	productRepo    repository.ProductRepository
	adjustmentRepo repository.StockAdjustmentRepository
	db             *gorm.DB
	hub            *ws.Hub
	logger         *zap.Logger
}

func NewStockService(pRepo repository.ProductRepository, aRepo repository.StockAdjustmentRepository, db *gorm.DB, hub *ws.Hub, logger *zap.Logger) StockService {
	return &stockService{
		productRepo:    pRepo,
		adjustmentRepo: aRepo,
		db:             db,
		hub:            hub,
		logger:         logger,
	}
}

// CreateAdjustment applies a manual ADD/REDUCE delta and records the audit
// row in one transaction. REDUCE down to exactly zero is allowed; below
// zero is not.
func (s *stockService) CreateAdjustment(input *model.CreateStockAdjustmentInput) (*model.StockAdjustment, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return nil, &ValidationError{Reason: fmt.Sprintf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)}
	}

	var adjustment *model.StockAdjustment
	var newStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.FindByIDs(tx, []uint{input.ProductID})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return ErrProductNotFound
		}
		product := products[0]

		delta := input.Quantity
		if input.AdjustmentType == model.AdjustmentReduce {
			if product.Stock < input.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   input.Quantity,
				}
			}
			delta = -input.Quantity
		}
		newStock = product.Stock + delta

		if err := s.productRepo.AdjustStock(tx, product.ID, delta); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				// Concurrent writer consumed the stock between read and
				// write; fail the adjustment against fresh state.
				fresh, ferr := s.productRepo.FindByIDs(tx, []uint{product.ID})
				if ferr == nil && len(fresh) == 1 {
					return &InsufficientStockError{
						ProductID:   product.ID,
						ProductName: fresh[0].Name,
						Available:   fresh[0].Stock,
						Requested:   input.Quantity,
					}
				}
				return ErrProductNotFound
			}
			return fmt.Errorf("%w: stock update: %v", ErrConsistency, err)
		}

		// Audit row records the requested delta, not the resulting level.
		adjustment = &model.StockAdjustment{
			ProductID:      input.ProductID,
			AdjustmentType: input.AdjustmentType,
			Quantity:       input.Quantity,
			Reason:         input.Reason,
		}
		if err := s.adjustmentRepo.Create(tx, adjustment); err != nil {
			return fmt.Errorf("%w: adjustment insert: %v", ErrConsistency, err)
		}

		return nil
	})

	if err != nil {
		s.logger.Warn("stock adjustment rejected", zap.Uint("product_id", input.ProductID), zap.Error(err))
		return nil, err
	}

	metrics.StockAdjustments.WithLabelValues(string(input.AdjustmentType)).Inc()
	s.logger.Info("stock adjusted",
		zap.Uint("product_id", input.ProductID),
		zap.String("type", string(input.AdjustmentType)),
		zap.Int("quantity", input.Quantity),
		zap.Int("new_stock", newStock),
	)

	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_adjusted",
		"adjustment": map[string]interface{}{
			"id":         adjustment.ID,
			"product_id": adjustment.ProductID,
			"type":       adjustment.AdjustmentType,
			"quantity":   adjustment.Quantity,
			"new_stock":  newStock,
		},
	})

	return adjustment, nil
}

func (s *stockService) GetAllAdjustments() ([]model.StockAdjustment, error) {
	return s.adjustmentRepo.FindAll()
}
