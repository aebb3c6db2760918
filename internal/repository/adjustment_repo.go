package repository

import (
	"go-kasir-pos/internal/model"

	"gorm.io/gorm"
)

type StockAdjustmentRepository interface {
	Create(tx *gorm.DB, adjustment *model.StockAdjustment) error
	FindAll() ([]model.StockAdjustment, error)
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewStockAdjustmentRepo(db *gorm.DB) StockAdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) Create(tx *gorm.DB, adjustment *model.StockAdjustment) error {
	return tx.Create(adjustment).Error
}

func (r *adjustmentRepo) FindAll() ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	err := r.db.Order("created_at DESC, id DESC").Find(&adjustments).Error
	return adjustments, err
}
