package handler

import (
	"strconv"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CashHandler struct {
	ledger service.CashLedger
}

func NewCashHandler(ledger service.CashLedger) *CashHandler {
	return &CashHandler{ledger: ledger}
}

// ShiftAction opens or closes the register turn
// POST /api/v1/shifts/open  {opening_float}
// POST /api/v1/shifts/close {actual_closing, notes}
func (h *CashHandler) ShiftAction(c *fiber.Ctx) error {
	switch c.Params("action") {
	case "open":
		var req service.OpenTurnRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
		turn, err := h.ledger.OpenTurn(c.UserContext(), &req, getUserName(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"message": "Cash turn opened", "data": turn})

	case "close":
		var req service.CloseTurnRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
		closing, err := h.ledger.CloseTurn(c.UserContext(), &req, getUserName(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Cash turn closed", "data": closing})

	default:
		return c.Status(400).JSON(fiber.Map{"error": "Unknown action, use open or close"})
	}
}

// GET /api/v1/shifts/current
func (h *CashHandler) CurrentTurn(c *fiber.Ctx) error {
	turn, err := h.ledger.CurrentTurn()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(turn)
}

// History lists closing records, newest first
// GET /api/v1/shifts/history?limit=20
func (h *CashHandler) History(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	closings, err := h.ledger.History(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(closings)
}
