package handler

import (
	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

func (h *StockHandler) CreateAdjustment(c *fiber.Ctx) error {
	var input model.CreateStockAdjustmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	adjustment, err := h.service.CreateAdjustment(&input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": adjustment})
}

func (h *StockHandler) GetAdjustments(c *fiber.Ctx) error {
	adjustments, err := h.service.GetAllAdjustments()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(adjustments)
}
