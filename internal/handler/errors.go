package handler

import (
	"errors"
	"strconv"

	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// fail maps the service error taxonomy onto HTTP statuses. Client-facing
// taxonomy members travel verbatim; consistency faults collapse to the
// sentinel text so driver detail stays in the logs.
func fail(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var stockErr *service.InsufficientStockError
	var paymentErr *service.InsufficientPaymentError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrSaleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &stockErr), errors.As(err, &paymentErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConsistency):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": service.ErrConsistency.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
