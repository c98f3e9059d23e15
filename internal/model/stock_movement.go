package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement logs every stock change. Order creation writes one OUT row per
// stock-tracked line in the same transaction as the decrement.
type StockMovement struct {
	BaseModel
	ProductID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product     `json:"product,omitempty"`
	OrderID    *uuid.UUID   `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Type       MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity   int          `gorm:"not null" json:"quantity"`
	StockAfter int          `json:"stock_after"`
	Note       string       `json:"note,omitempty"`
}
