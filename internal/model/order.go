package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderState string

const (
	OrderOpen       OrderState = "open"
	OrderInProgress OrderState = "in_progress"
	OrderReady      OrderState = "ready"
	OrderClosed     OrderState = "closed"
)

type ItemState string

const (
	ItemPending    ItemState = "pending"
	ItemInProgress ItemState = "in_progress"
	ItemReady      ItemState = "ready"
)

func (s ItemState) Valid() bool {
	switch s {
	case ItemPending, ItemInProgress, ItemReady:
		return true
	}
	return false
}

// Order is one table's bill. Orders are never deleted, only closed.
type Order struct {
	BaseModel
	TableID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"table_id"`
	Table      *Table          `json:"table,omitempty"`
	WaiterName string          `gorm:"type:varchar(255)" json:"waiter_name"`
	State      OrderState      `gorm:"type:varchar(20);not null;default:'open';index" json:"state"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	OpenedAt   time.Time       `gorm:"not null" json:"opened_at"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	Origin     string          `gorm:"type:varchar(50)" json:"origin,omitempty"`
	Items      []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is a single kitchen ticket line. Name, type and price are copied
// from the product when the order is created and never refreshed.
type OrderItem struct {
	BaseModel
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductType      ProductType     `gorm:"type:varchar(20);not null" json:"product_type"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	State            ItemState       `gorm:"type:varchar(20);not null;default:'pending'" json:"state"`
	StartedAt        *time.Time      `json:"started_at,omitempty"`
	FinishedAt       *time.Time      `json:"finished_at,omitempty"`
	EstimatedMinutes int             `gorm:"default:0" json:"estimated_minutes"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemStats summarises item states of one order for the kitchen board.
type ItemStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Ready      int `json:"ready"`
	Total      int `json:"total"`
}

func (s ItemStats) AllReady() bool {
	return s.Total > 0 && s.Ready == s.Total
}

func StatsFor(items []OrderItem) ItemStats {
	var stats ItemStats
	for _, it := range items {
		switch it.State {
		case ItemPending:
			stats.Pending++
		case ItemInProgress:
			stats.InProgress++
		case ItemReady:
			stats.Ready++
		}
		stats.Total++
	}
	return stats
}

// KitchenOrder is the kitchen board view of an active order.
type KitchenOrder struct {
	ID          uuid.UUID       `json:"id"`
	TableNumber int             `json:"table_number"`
	WaiterName  string          `json:"waiter_name"`
	State       OrderState      `json:"state"`
	OpenedAt    time.Time       `json:"opened_at"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items"`
	Stats       ItemStats       `json:"stats"`
}

func (o *Order) ToKitchen() KitchenOrder {
	ko := KitchenOrder{
		ID:         o.ID,
		WaiterName: o.WaiterName,
		State:      o.State,
		OpenedAt:   o.OpenedAt,
		Total:      o.Total,
		Items:      o.Items,
		Stats:      StatsFor(o.Items),
	}
	if o.Table != nil {
		ko.TableNumber = o.Table.Number
	}
	return ko
}
