package service

import (
	"testing"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCreateSale_DuplicateLinesAggregated(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Kopi Susu", "10.00", "15.00", 100)

	sale, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items: []model.SaleLineInput{
			{ProductID: p.ID, Quantity: 2},
			{ProductID: p.ID, Quantity: 3},
		},
		AmountPaid: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	requireDecimal(t, "75.00", sale.TotalAmount)
	requireDecimal(t, "100.00", sale.AmountPaid)
	requireDecimal(t, "25.00", sale.ChangeAmount)

	// duplicate lines stay separate items, in cart order
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.Equal(t, 3, sale.Items[1].Quantity)
	requireDecimal(t, "30.00", sale.Items[0].TotalPrice)
	requireDecimal(t, "45.00", sale.Items[1].TotalPrice)
	for _, item := range sale.Items {
		assert.Equal(t, p.ID, item.ProductID)
		assert.Equal(t, "Kopi Susu", item.ProductName)
		requireDecimal(t, "15.00", item.UnitPrice)
	}

	// stock decremented once by the aggregate quantity
	assert.Equal(t, 95, currentStock(t, env, p.ID))
}

func TestCreateSale_MultipleProducts(t *testing.T) {
	env := newTestEnv(t)
	a := seedProduct(t, env, "Teh Botol", "3.00", "5.50", 10)
	b := seedProduct(t, env, "Roti Bakar", "7.00", "12.25", 4)

	sale, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items: []model.SaleLineInput{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
		AmountPaid: decimal.RequireFromString("23.25"),
	})
	require.NoError(t, err)

	requireDecimal(t, "23.25", sale.TotalAmount)
	requireDecimal(t, "0", sale.ChangeAmount)
	assert.Equal(t, 8, currentStock(t, env, a.ID))
	assert.Equal(t, 3, currentStock(t, env, b.ID))
}

func TestCreateSale_AggregateStockExceeded(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Gula Pasir", "8.00", "15.00", 100)

	_, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items: []model.SaleLineInput{
			{ProductID: p.ID, Quantity: 60},
			{ProductID: p.ID, Quantity: 50},
		},
		AmountPaid: decimal.RequireFromString("2000.00"),
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 100, stockErr.Available)
	assert.Equal(t, 110, stockErr.Requested)

	// nothing persisted, stock untouched
	assert.Equal(t, 100, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
	assert.EqualValues(t, 0, countRows(t, env, &model.SaleItem{}))
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Mie Instan", "2.00", "3.50", 50)

	_, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items: []model.SaleLineInput{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
		AmountPaid: decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	assert.Equal(t, 50, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
}

func TestCreateSale_InsufficientPayment(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Susu Kotak", "9.00", "15.00", 100)

	_, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 5}},
		AmountPaid: decimal.RequireFromString("50.00"),
	})

	var payErr *InsufficientPaymentError
	require.ErrorAs(t, err, &payErr)
	requireDecimal(t, "75.00", payErr.TotalAmount)
	requireDecimal(t, "50.00", payErr.AmountPaid)

	assert.Equal(t, 100, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
}

func TestCreateSale_Validation(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Air Mineral", "1.00", "2.00", 10)

	cases := []struct {
		name  string
		input *model.CreateSaleInput
	}{
		{"empty cart", &model.CreateSaleInput{
			Items:      []model.SaleLineInput{},
			AmountPaid: decimal.RequireFromString("10.00"),
		}},
		{"zero quantity", &model.CreateSaleInput{
			Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 0}},
			AmountPaid: decimal.RequireFromString("10.00"),
		}},
		{"negative quantity", &model.CreateSaleInput{
			Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: -1}},
			AmountPaid: decimal.RequireFromString("10.00"),
		}},
		{"zero amount paid", &model.CreateSaleInput{
			Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 1}},
			AmountPaid: decimal.Zero,
		}},
		{"negative amount paid", &model.CreateSaleInput{
			Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 1}},
			AmountPaid: decimal.RequireFromString("-5.00"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.sales.CreateSale(tc.input)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}

	assert.Equal(t, 10, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
}

func TestCreateSale_FailedCommitLeavesCleanState(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Minyak Goreng", "12.00", "18.00", 5)

	oversized := &model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 6}},
		AmountPaid: decimal.RequireFromString("200.00"),
	}

	// the same failing cart fails identically on retry
	for i := 0; i < 2; i++ {
		_, err := env.sales.CreateSale(oversized)
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Available)
		assert.Equal(t, 6, stockErr.Requested)
	}

	assert.Equal(t, 5, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
	assert.EqualValues(t, 0, countRows(t, env, &model.SaleItem{}))

	// a valid cart still goes through afterwards
	sale, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 5}},
		AmountPaid: decimal.RequireFromString("90.00"),
	})
	require.NoError(t, err)
	requireDecimal(t, "90.00", sale.TotalAmount)
	assert.Equal(t, 0, currentStock(t, env, p.ID))
}

func TestCreateSale_LostRaceReportsFreshStock(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Kopi Botol", "10.00", "15.00", 100)

	// the pre-check passes on stock 100, then the guarded decrement loses
	// to a writer that left only 1 unit
	racing := &racingProductRepo{ProductRepository: env.products, shrinkTo: 1}
	sales := NewSaleService(racing, repository.NewSaleRepo(env.db), env.db, nil, zaptest.NewLogger(t))

	_, err := sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 5}},
		AmountPaid: decimal.RequireFromString("100.00"),
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// the rejected transaction leaves no writes of its own behind
	assert.Equal(t, 100, currentStock(t, env, p.ID))
	assert.EqualValues(t, 0, countRows(t, env, &model.Sale{}))
	assert.EqualValues(t, 0, countRows(t, env, &model.SaleItem{}))
}

func TestSale_SnapshotSurvivesCatalogEdits(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Sabun Mandi", "4.00", "8.00", 20)

	sale, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 2}},
		AmountPaid: decimal.RequireFromString("16.00"),
	})
	require.NoError(t, err)

	newName := "Sabun Mandi Premium"
	newPrice := decimal.RequireFromString("9.50")
	_, err = env.catalog.UpdateProduct(p.ID, &model.UpdateProductInput{
		Name:         &newName,
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)

	reloaded, err := env.sales.GetSaleByID(sale.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Sabun Mandi", reloaded.Items[0].ProductName)
	requireDecimal(t, "8.00", reloaded.Items[0].UnitPrice)
	requireDecimal(t, "16.00", reloaded.Items[0].TotalPrice)
}

func TestGetAllSales_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Keripik", "5.00", "10.00", 100)

	first, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 1}},
		AmountPaid: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	second, err := env.sales.CreateSale(&model.CreateSaleInput{
		Items:      []model.SaleLineInput{{ProductID: p.ID, Quantity: 2}},
		AmountPaid: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	sales, err := env.sales.GetAllSales()
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)
	require.Len(t, sales[0].Items, 1)
	require.Len(t, sales[1].Items, 1)
}

func TestGetSaleByID_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sales.GetSaleByID(42)
	require.ErrorIs(t, err, ErrSaleNotFound)
}
