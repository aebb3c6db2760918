package service

import (
	"time"

	"go-kasir-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// Report rows are derived on demand from persisted state; nothing here is
// cached between calls.

type SalesReport struct {
	Date              string          `json:"date"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

type ProfitLossReport struct {
	Date              string          `json:"date"`
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal `json:"cost_of_goods_sold"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	TotalTransactions int64           `json:"total_transactions"`
}

type StockReport struct {
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	CurrentStock  int             `json:"current_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockValue    decimal.Decimal `json:"stock_value"`
}

type ReportService interface {
	DailySalesReport(startDate, endDate string) ([]SalesReport, error)
	MonthlySalesReport(year, month int) (*SalesReport, error)
	DailyProfitLossReport(startDate, endDate string) ([]ProfitLossReport, error)
	MonthlyProfitLossReport(year, month int) (*ProfitLossReport, error)
	StockReport() ([]StockReport, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
}

func NewReportService(rRepo repository.ReportRepository, pRepo repository.ProductRepository) ReportService {
	return &reportService{
		reportRepo:  rRepo,
		productRepo: pRepo,
	}
}

const dateLayout = "2006-01-02"

// dailyRange interprets both bounds as UTC calendar days and returns the
// half-open range covering them, end date inclusive.
func dailyRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Reason: "start_date must be YYYY-MM-DD"}
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Reason: "end_date must be YYYY-MM-DD"}
	}
	return start, end.AddDate(0, 0, 1), nil
}

func monthlyRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, &ValidationError{Reason: "month must be between 1 and 12"}
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

func dayBucket(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (s *reportService) DailySalesReport(startDate, endDate string) ([]SalesReport, error) {
	start, end, err := dailyRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	sales, err := s.reportRepo.SalesInRange(start, end)
	if err != nil {
		return nil, err
	}

	// Rows come in ascending order, so buckets appear ordered by date.
	var reports []SalesReport
	index := make(map[string]int)
	for _, sale := range sales {
		day := dayBucket(sale.CreatedAt)
		i, ok := index[day]
		if !ok {
			i = len(reports)
			index[day] = i
			reports = append(reports, SalesReport{Date: day, TotalRevenue: decimal.Zero})
		}
		reports[i].TotalTransactions++
		reports[i].TotalRevenue = reports[i].TotalRevenue.Add(sale.TotalAmount)
	}
	return reports, nil
}

func (s *reportService) MonthlySalesReport(year, month int) (*SalesReport, error) {
	start, end, err := monthlyRange(year, month)
	if err != nil {
		return nil, err
	}

	sales, err := s.reportRepo.SalesInRange(start, end)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		Date:         start.Format("2006-01"),
		TotalRevenue: decimal.Zero,
	}
	for _, sale := range sales {
		report.TotalTransactions++
		report.TotalRevenue = report.TotalRevenue.Add(sale.TotalAmount)
	}
	return report, nil
}

func (s *reportService) DailyProfitLossReport(startDate, endDate string) ([]ProfitLossReport, error) {
	start, end, err := dailyRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.SaleItemCostsInRange(start, end)
	if err != nil {
		return nil, err
	}

	var reports []ProfitLossReport
	index := make(map[string]int)
	seenSales := make(map[string]map[uint]bool)
	for _, row := range rows {
		day := dayBucket(row.SaleCreatedAt)
		i, ok := index[day]
		if !ok {
			i = len(reports)
			index[day] = i
			seenSales[day] = make(map[uint]bool)
			reports = append(reports, ProfitLossReport{
				Date:            day,
				Revenue:         decimal.Zero,
				CostOfGoodsSold: decimal.Zero,
			})
		}
		reports[i].Revenue = reports[i].Revenue.Add(row.TotalPrice)
		cost := row.PurchasePrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		reports[i].CostOfGoodsSold = reports[i].CostOfGoodsSold.Add(cost)
		if !seenSales[day][row.SaleID] {
			seenSales[day][row.SaleID] = true
			reports[i].TotalTransactions++
		}
	}
	for i := range reports {
		reports[i].NetProfit = reports[i].Revenue.Sub(reports[i].CostOfGoodsSold)
	}
	return reports, nil
}

func (s *reportService) MonthlyProfitLossReport(year, month int) (*ProfitLossReport, error) {
	start, end, err := monthlyRange(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.SaleItemCostsInRange(start, end)
	if err != nil {
		return nil, err
	}

	report := &ProfitLossReport{
		Date:            start.Format("2006-01"),
		Revenue:         decimal.Zero,
		CostOfGoodsSold: decimal.Zero,
	}
	seenSales := make(map[uint]bool)
	for _, row := range rows {
		report.Revenue = report.Revenue.Add(row.TotalPrice)
		cost := row.PurchasePrice.Mul(decimal.NewFromInt(int64(row.Quantity)))
		report.CostOfGoodsSold = report.CostOfGoodsSold.Add(cost)
		if !seenSales[row.SaleID] {
			seenSales[row.SaleID] = true
			report.TotalTransactions++
		}
	}
	report.NetProfit = report.Revenue.Sub(report.CostOfGoodsSold)
	return report, nil
}

// StockReport values every product at its current purchase price, read
// fresh from the catalog on each call.
func (s *reportService) StockReport() ([]StockReport, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	reports := make([]StockReport, 0, len(products))
	for _, p := range products {
		value := p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock))).Round(2)
		reports = append(reports, StockReport{
			ProductID:     p.ID,
			ProductName:   p.Name,
			CurrentStock:  p.Stock,
			PurchasePrice: p.PurchasePrice,
			SellingPrice:  p.SellingPrice,
			StockValue:    value,
		})
	}
	return reports, nil
}
