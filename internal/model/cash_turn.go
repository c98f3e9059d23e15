package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TurnState string

const (
	TurnOpen   TurnState = "open"
	TurnClosed TurnState = "closed"
)

// CashTurn is a register session between an opening and a closing count.
// The partial unique index allows a single open row at any time.
type CashTurn struct {
	BaseModel
	OpenedAt        time.Time        `gorm:"not null" json:"opened_at"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	OpeningFloat    decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"opening_float"`
	SalesTotal      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"sales_total"`
	ExpectedClosing decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"expected_closing"`
	ActualClosing   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"actual_closing,omitempty"`
	Variance        *decimal.Decimal `gorm:"type:decimal(12,2)" json:"variance,omitempty"`
	State           TurnState        `gorm:"type:varchar(10);not null;uniqueIndex:idx_cash_turns_single_open,where:state = 'open'" json:"state"`
	OpenedBy        string           `gorm:"type:varchar(255)" json:"opened_by"`
	ClosedBy        string           `gorm:"type:varchar(255)" json:"closed_by,omitempty"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
}

// Expected is the cash the drawer should hold given the sales recorded so far.
func (t *CashTurn) Expected() decimal.Decimal {
	return t.OpeningFloat.Add(t.SalesTotal)
}

// CashTurnClosing is the audit record written once when a turn closes.
type CashTurnClosing struct {
	BaseModel
	TurnID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"turn_id"`
	OpenedAt        time.Time       `json:"opened_at"`
	ClosedAt        time.Time       `json:"closed_at"`
	OpeningFloat    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"opening_float"`
	SalesTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sales_total"`
	ExpectedClosing decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"expected_closing"`
	ActualClosing   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"actual_closing"`
	Variance        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"variance"`
	ClosedBy        string          `gorm:"type:varchar(255)" json:"closed_by"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
}
