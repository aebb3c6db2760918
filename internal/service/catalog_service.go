package service

import (
	"errors"
	"fmt"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"
	"go-kasir-pos/internal/ws"
	"go-kasir-pos/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(input *model.CreateProductInput) (*model.Product, error)
	UpdateProduct(id uint, input *model.UpdateProductInput) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	SearchProducts(query string) ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	hub         *ws.Hub
	logger      *zap.Logger
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		hub:         hub,
		logger:      logger,
	}
}

func (s *catalogService) CreateProduct(input *model.CreateProductInput) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return nil, &ValidationError{Reason: fmt.Sprintf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)}
	}
	if input.PurchasePrice.IsNegative() {
		return nil, &ValidationError{Reason: "purchase_price must not be negative"}
	}
	if !input.SellingPrice.IsPositive() {
		return nil, &ValidationError{Reason: "selling_price must be positive"}
	}

	product := &model.Product{
		Name:          input.Name,
		Barcode:       input.Barcode,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Stock:         input.Stock,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_created",
		"product": map[string]interface{}{
			"id":            product.ID,
			"name":          product.Name,
			"stock":         product.Stock,
			"selling_price": product.SellingPrice,
		},
	})

	return product, nil
}

// UpdateProduct changes only the provided fields. An explicit empty-string
// barcode clears it to NULL.
//
// The write is column-scoped inside a transaction: the stock level is only
// touched when the input sets it, so a decrement landing between the read
// and the write here is never overwritten from this read.
func (s *catalogService) UpdateProduct(id uint, input *model.UpdateProductInput) (*model.Product, error) {
	var product *model.Product
	var oldStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := s.productRepo.FindByIDs(tx, []uint{id})
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return ErrProductNotFound
		}
		oldStock = current[0].Stock

		fields := make(map[string]interface{})
		if input.Name != nil {
			if *input.Name == "" {
				return &ValidationError{Reason: "name must not be empty"}
			}
			fields["name"] = *input.Name
		}
		if input.Barcode != nil {
			if *input.Barcode == "" {
				fields["barcode"] = nil
			} else {
				fields["barcode"] = *input.Barcode
			}
		}
		if input.PurchasePrice != nil {
			if input.PurchasePrice.IsNegative() {
				return &ValidationError{Reason: "purchase_price must not be negative"}
			}
			fields["purchase_price"] = *input.PurchasePrice
		}
		if input.SellingPrice != nil {
			if !input.SellingPrice.IsPositive() {
				return &ValidationError{Reason: "selling_price must be positive"}
			}
			fields["selling_price"] = *input.SellingPrice
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				return &ValidationError{Reason: "stock_quantity must not be negative"}
			}
			fields["stock_quantity"] = *input.Stock
		}

		if len(fields) > 0 {
			if err := s.productRepo.UpdateFields(tx, id, fields); err != nil {
				return err
			}
		}

		fresh, err := s.productRepo.FindByIDs(tx, []uint{id})
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			return ErrProductNotFound
		}
		product = &fresh[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "product_updated",
		"product": map[string]interface{}{
			"id":            product.ID,
			"name":          product.Name,
			"old_stock":     oldStock,
			"new_stock":     product.Stock,
			"selling_price": product.SellingPrice,
		},
	})

	return product, nil
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) SearchProducts(query string) ([]model.Product, error) {
	return s.productRepo.Search(query)
}
