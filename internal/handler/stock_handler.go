package handler

import (
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Restock records a delivery for a stock-tracked product
// POST /api/v1/products/:id/restock {quantity, note}
func (h *StockHandler) Restock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.stockService.Restock(c.UserContext(), productID, &req, getUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message":     "Stock updated",
		"stock_after": movement.StockAfter,
		"data":        movement,
	})
}

// GET /api/v1/orders/:id/stock-movements
func (h *StockHandler) OrderMovements(c *fiber.Ctx) error {
	orderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	movements, err := h.stockService.MovementsForOrder(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movements)
}
