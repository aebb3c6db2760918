package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SalesCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sales_committed_total",
			Help: "Total number of successfully committed sales",
		},
	)

	SaleCommitFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_sale_commit_failures_total",
			Help: "Total number of rejected sale commits by reason",
		},
		[]string{"reason"},
	)

	StockAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_stock_adjustments_total",
			Help: "Total number of applied manual stock adjustments by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(SalesCommitted)
	prometheus.MustRegister(SaleCommitFailures)
	prometheus.MustRegister(StockAdjustments)
}
