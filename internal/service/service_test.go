package service

import (
	"testing"
	"time"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the services against a throwaway in-memory database so the
// engines run through real transactions.
type testEnv struct {
	db       *gorm.DB
	products repository.ProductRepository
	catalog  CatalogService
	sales    SaleService
	stock    StockService
	reports  ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockAdjustment{},
	))

	logger := zaptest.NewLogger(t)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adjustmentRepo := repository.NewStockAdjustmentRepo(db)
	reportRepo := repository.NewReportRepo(db)

	return &testEnv{
		db:       db,
		products: productRepo,
		catalog:  NewCatalogService(productRepo, db, nil, logger),
		sales:    NewSaleService(productRepo, saleRepo, db, nil, logger),
		stock:    NewStockService(productRepo, adjustmentRepo, db, nil, logger),
		reports:  NewReportService(reportRepo, productRepo),
	}
}

func seedProduct(t *testing.T, env *testEnv, name, purchasePrice, sellingPrice string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		PurchasePrice: decimal.RequireFromString(purchasePrice),
		SellingPrice:  decimal.RequireFromString(sellingPrice),
		Stock:         stock,
	}
	require.NoError(t, env.products.Create(product))
	return product
}

func currentStock(t *testing.T, env *testEnv, id uint) int {
	t.Helper()
	product, err := env.products.FindByID(id)
	require.NoError(t, err)
	return product.Stock
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got.String())
}

func countRows(t *testing.T, env *testEnv, mdl interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(mdl).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

// racingProductRepo simulates a competing writer: the first AdjustStock
// call shrinks the row out from under the caller and reports the conflict
// a lost guarded decrement would, then delegates normally.
type racingProductRepo struct {
	repository.ProductRepository
	shrinkTo int
	tripped  bool
}

func (r *racingProductRepo) AdjustStock(tx *gorm.DB, id uint, delta int) error {
	if !r.tripped {
		r.tripped = true
		if err := tx.Model(&model.Product{}).Where("id = ?", id).
			Update("stock_quantity", r.shrinkTo).Error; err != nil {
			return err
		}
		return repository.ErrStockConflict
	}
	return r.ProductRepository.AdjustStock(tx, id, delta)
}
