package handler

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"
	"go-pos-ws/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type ItemStateRequest struct {
	State model.ItemState `json:"state" validate:"required,item_state"`
}

// CreateOrder opens an order for a table
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.WaiterName == "" {
		req.WaiterName = getUserName(c)
	}

	order, err := h.service.CreateOrder(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	tableNumber := 0
	if order.Table != nil {
		tableNumber = order.Table.Number
	}
	return c.Status(201).JSON(fiber.Map{
		"message":      "Order created",
		"order_id":     order.ID,
		"table_number": tableNumber,
		"total":        order.Total,
		"data":         order,
	})
}

// GET /api/v1/orders/active
func (h *OrderHandler) GetActiveOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListActiveOrders()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CloseOrder settles the order, frees the table and books the sale
// POST /api/v1/orders/:id/close
func (h *OrderHandler) CloseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.CloseOrder(c.UserContext(), id, getUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order closed", "data": order})
}

// TransitionItemState moves a kitchen ticket line
// POST /api/v1/order-items/:id/state
func (h *OrderHandler) TransitionItemState(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req ItemStateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   "State must be pending, in_progress or ready",
			"details": errs,
		})
	}

	item, err := h.service.TransitionItemState(c.UserContext(), id, req.State)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Item " + item.ProductName + " is now " + string(item.State),
		"timestamp": time.Now(),
	})
}

// KitchenBoard lists unfinished orders with per-item progress
// GET /api/v1/kitchen/orders
func (h *OrderHandler) KitchenBoard(c *fiber.Ctx) error {
	board, err := h.service.KitchenBoard()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}
