package handler

import (
	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetDailySalesReport(c *fiber.Ctx) error {
	report, err := h.service.DailySalesReport(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetMonthlySalesReport(c *fiber.Ctx) error {
	report, err := h.service.MonthlySalesReport(c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetDailyProfitLossReport(c *fiber.Ctx) error {
	report, err := h.service.DailyProfitLossReport(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetMonthlyProfitLossReport(c *fiber.Ctx) error {
	report, err := h.service.MonthlyProfitLossReport(c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetStockReport(c *fiber.Ctx) error {
	report, err := h.service.StockReport()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}
