package repository

import (
	"errors"
	"strings"
	"time"

	"go-kasir-pos/internal/model"

	"gorm.io/gorm"
)

// ErrStockConflict is returned when a guarded stock decrement matches no
// row: the product vanished or its stock can no longer cover the delta.
var ErrStockConflict = errors.New("stock update conflict")

type ProductRepository interface {
	Create(product *model.Product) error
	UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error)
	Search(query string) ([]model.Product, error)
	AdjustStock(tx *gorm.DB, id uint, delta int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

// UpdateFields writes only the given columns and bumps updated_at.
// Columns outside the map keep whatever value the row has at write time.
func (r *productRepo) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs menerima tx agar bisa berjalan dalam transaksi.
// Returns only the rows that exist; callers compare counts.
func (r *productRepo) FindByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error) {
	var products []model.Product
	err := tx.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Search matches a case-insensitive substring of the name OR the exact
// barcode. An empty or whitespace query returns everything.
func (r *productRepo) Search(query string) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.FindAll()
	}

	var products []model.Product
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(name) LIKE ? OR barcode = ?", pattern, query).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// AdjustStock applies a signed delta and bumps updated_at in one UPDATE.
// Negative deltas are conditional: the row only matches while the
// resulting stock stays non-negative, so two racing commits cannot
// oversell even when both passed their pre-checks against a stale read.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	q := tx.Model(&model.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock_quantity >= ?", -delta)
	}

	res := q.Updates(map[string]interface{}{
		"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
		"updated_at":     time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}
