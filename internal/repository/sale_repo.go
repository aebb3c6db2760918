package repository

import (
	"go-kasir-pos/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uint) (*model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create inserts the sale header and all of its items in one go; gorm
// fills SaleID on each item. Must run inside the caller's transaction.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC") // line-insertion order
		}).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
