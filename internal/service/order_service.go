package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error)
	TransitionItemState(ctx context.Context, itemID uuid.UUID, state model.ItemState) (*model.OrderItem, error)
	CloseOrder(ctx context.Context, orderID uuid.UUID, closedBy string) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	ListActiveOrders() ([]model.Order, error)
	KitchenBoard() ([]model.KitchenOrder, error)
}

type CreateOrderRequest struct {
	TableID    uuid.UUID          `json:"table_id" validate:"uuid_required"`
	WaiterName string             `json:"waiter_name" validate:"max=255"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string             `json:"notes"`
	Origin     string             `json:"origin" validate:"max=50"`
}

type OrderItemRequest struct {
	ProductID        uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity         int       `json:"quantity" validate:"gte=1"`
	Notes            string    `json:"notes"`
	EstimatedMinutes int       `json:"estimated_minutes" validate:"gte=0"`
}

// NewOrderPayload is published as new_order.
type NewOrderPayload struct {
	OrderID     uuid.UUID           `json:"order_id"`
	TableNumber int                 `json:"table_number"`
	WaiterName  string              `json:"waiter_name"`
	Total       decimal.Decimal     `json:"total"`
	Notes       string              `json:"notes,omitempty"`
	Items       []TicketLinePayload `json:"items"`
	Timestamp   time.Time           `json:"timestamp"`
}

type TicketLinePayload struct {
	ItemID           uuid.UUID         `json:"item_id"`
	ProductName      string            `json:"product_name"`
	ProductType      model.ProductType `json:"product_type"`
	Quantity         int               `json:"quantity"`
	Notes            string            `json:"notes,omitempty"`
	State            model.ItemState   `json:"state"`
	EstimatedMinutes int               `json:"estimated_minutes"`
}

// ItemStatePayload is published as item_state_changed.
type ItemStatePayload struct {
	ItemID      uuid.UUID        `json:"item_id"`
	OrderID     uuid.UUID        `json:"order_id"`
	State       model.ItemState  `json:"state"`
	ProductName string           `json:"product_name"`
	TableNumber int              `json:"table_number"`
	OrderState  model.OrderState `json:"order_state"`
	Timestamp   time.Time        `json:"timestamp"`
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	tableRepo    repository.TableRepository
	movementRepo repository.StockMovementRepository
	ledger       CashLedger
	db           *gorm.DB
	publisher    ws.Publisher
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	tableRepo repository.TableRepository,
	movementRepo repository.StockMovementRepository,
	ledger CashLedger,
	db *gorm.DB,
	publisher ws.Publisher,
) OrderService {
	if publisher == nil {
		publisher = ws.Nop{}
	}
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		tableRepo:    tableRepo,
		movementRepo: movementRepo,
		ledger:       ledger,
		db:           db,
		publisher:    publisher,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error) {
	if err := structError(req); err != nil {
		return nil, err
	}

	var order *model.Order
	var table *model.Table

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		table, err = s.tableRepo.FindByID(tx, req.TableID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationError("table %s does not exist", req.TableID)
		}
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(req.Items))
		for _, line := range req.Items {
			ids = append(ids, line.ProductID)
		}
		products, err := s.productRepo.FindByIDs(tx, ids)
		if err != nil {
			return err
		}

		// 1. Freeze name, type and price per line; total from the frozen prices
		now := time.Now()
		items := make([]model.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for i, line := range req.Items {
			product, ok := products[line.ProductID]
			if !ok {
				return validationError("item %d: product %s does not exist", i+1, line.ProductID)
			}
			if err := product.Validate(); err != nil {
				return validationError("item %d: %s: %v", i+1, product.Name, err)
			}
			item := model.OrderItem{
				ProductID:        product.ID,
				ProductName:      product.Name,
				ProductType:      product.Type,
				UnitPrice:        product.Price,
				Quantity:         line.Quantity,
				Notes:            line.Notes,
				State:            model.ItemPending,
				EstimatedMinutes: line.EstimatedMinutes,
			}
			item.CreatedBy = req.WaiterName
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		// 2. Persist order and items
		order = &model.Order{
			TableID:    table.ID,
			WaiterName: req.WaiterName,
			State:      model.OrderOpen,
			Total:      total,
			OpenedAt:   now,
			Notes:      req.Notes,
			Origin:     req.Origin,
			Items:      items,
		}
		order.CreatedBy = req.WaiterName
		order.UpdatedBy = req.WaiterName
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		// 3. Consume stock for everything that is not cooked to order
		for _, item := range order.Items {
			product := products[item.ProductID]
			if !product.TracksStock() {
				continue
			}
			stockAfter, err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity, req.WaiterName)
			if err != nil {
				return fmt.Errorf("decrement stock of %s: %w", product.Name, err)
			}
			orderID := order.ID
			movement := &model.StockMovement{
				ProductID:  item.ProductID,
				OrderID:    &orderID,
				Type:       model.MovementOut,
				Quantity:   item.Quantity,
				StockAfter: stockAfter,
				Note:       fmt.Sprintf("order for table %d", table.Number),
			}
			movement.CreatedBy = req.WaiterName
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}

		// 4. Occupy the table
		if err := s.tableRepo.SetState(tx, table.ID, model.TableOccupied, req.WaiterName); err != nil {
			return err
		}
		table.State = model.TableOccupied
		return nil
	})
	if err != nil {
		return nil, persistence("create order", err)
	}

	order.Table = table
	s.publishNewOrder(order, table)
	return order, nil
}

func (s *orderService) TransitionItemState(ctx context.Context, itemID uuid.UUID, state model.ItemState) (*model.OrderItem, error) {
	if !state.Valid() {
		return nil, validationError("unknown item state %q", state)
	}

	var item *model.OrderItem
	var order *model.Order
	var tableNumber int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.orderRepo.FindItemByID(tx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(fmt.Sprintf("order item %s", itemID))
		}
		if err != nil {
			return err
		}

		// Lock the parent order before touching any of its items, then re-read
		// the item under the lock.
		order, err = s.orderRepo.LockByID(tx, found.OrderID)
		if err != nil {
			return err
		}
		item, err = s.orderRepo.FindItemByID(tx, itemID)
		if err != nil {
			return err
		}

		now := time.Now()
		item.State = state
		switch state {
		case model.ItemInProgress:
			item.StartedAt = &now
		case model.ItemReady:
			item.FinishedAt = &now
		}
		if err := s.orderRepo.UpdateItemState(tx, item); err != nil {
			return err
		}

		// Only "every item ready" moves the order automatically.
		stats, err := s.orderRepo.ItemStats(tx, order.ID)
		if err != nil {
			return err
		}
		if stats.AllReady() && order.State != model.OrderReady && order.State != model.OrderClosed {
			if err := s.orderRepo.UpdateState(tx, order.ID, model.OrderReady); err != nil {
				return err
			}
			order.State = model.OrderReady
		}

		table, err := s.tableRepo.FindByID(tx, order.TableID)
		if err != nil {
			return err
		}
		tableNumber = table.Number
		return nil
	})
	if err != nil {
		return nil, persistence("transition item state", err)
	}

	s.publish(ws.EventItemStateChanged, ItemStatePayload{
		ItemID:      item.ID,
		OrderID:     order.ID,
		State:       item.State,
		ProductName: item.ProductName,
		TableNumber: tableNumber,
		OrderState:  order.State,
		Timestamp:   time.Now(),
	})
	return item, nil
}

func (s *orderService) CloseOrder(ctx context.Context, orderID uuid.UUID, closedBy string) (*model.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByID(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(fmt.Sprintf("order %s", orderID))
		}
		if err != nil {
			return err
		}
		if order.State == model.OrderClosed {
			return conflict("order %s is already closed", orderID)
		}

		now := time.Now()
		order.State = model.OrderClosed
		order.ClosedAt = &now
		order.UpdatedBy = closedBy
		if err := s.orderRepo.Close(tx, order); err != nil {
			return err
		}
		if err := s.tableRepo.SetState(tx, order.TableID, model.TableAvailable, closedBy); err != nil {
			return err
		}
		return s.ledger.AccumulateSale(tx, order.Total)
	})
	if err != nil {
		return nil, persistence("close order", err)
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, persistence("reload order", err)
	}
	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(fmt.Sprintf("order %s", id))
	}
	if err != nil {
		return nil, persistence("get order", err)
	}
	return order, nil
}

func (s *orderService) ListActiveOrders() ([]model.Order, error) {
	orders, err := s.orderRepo.FindActive()
	if err != nil {
		return nil, persistence("list active orders", err)
	}
	return orders, nil
}

func (s *orderService) KitchenBoard() ([]model.KitchenOrder, error) {
	orders, err := s.orderRepo.FindActive()
	if err != nil {
		return nil, persistence("kitchen board", err)
	}
	board := make([]model.KitchenOrder, 0, len(orders))
	for i := range orders {
		board = append(board, orders[i].ToKitchen())
	}
	return board, nil
}

func (s *orderService) publishNewOrder(order *model.Order, table *model.Table) {
	lines := make([]TicketLinePayload, len(order.Items))
	for i, it := range order.Items {
		lines[i] = TicketLinePayload{
			ItemID:           it.ID,
			ProductName:      it.ProductName,
			ProductType:      it.ProductType,
			Quantity:         it.Quantity,
			Notes:            it.Notes,
			State:            it.State,
			EstimatedMinutes: it.EstimatedMinutes,
		}
	}
	s.publish(ws.EventNewOrder, NewOrderPayload{
		OrderID:     order.ID,
		TableNumber: table.Number,
		WaiterName:  order.WaiterName,
		Total:       order.Total,
		Notes:       order.Notes,
		Items:       lines,
		Timestamp:   order.OpenedAt,
	})
}

// publish runs after commit only; both channels get the same payload.
func (s *orderService) publish(event ws.EventType, payload interface{}) {
	e := ws.Event{Type: event, Payload: payload}
	s.publisher.Publish(ws.ChannelKitchen, e)
	s.publisher.Publish(ws.ChannelGeneral, e)
}
