package model

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductMeal        ProductType = "meal"
	ProductDrink       ProductType = "drink"
	ProductStockedGood ProductType = "stocked_good"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductMeal, ProductDrink, ProductStockedGood:
		return true
	}
	return false
}

var (
	ErrMealWithStock      = errors.New("meal products cannot carry a stock count")
	ErrStockRequired      = errors.New("drink and stocked goods require a stock count")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrUnknownProductType = errors.New("unknown product type")
)

type Product struct {
	BaseModel
	Code       *string         `gorm:"type:varchar(50);uniqueIndex" json:"code,omitempty"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Type       ProductType     `gorm:"type:varchar(20);not null;index" json:"type" validate:"required"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category       `json:"category,omitempty"`
	SupplierID *uuid.UUID      `gorm:"type:uuid" json:"supplier_id,omitempty"`
	Supplier   *Supplier       `json:"supplier,omitempty"`

	// Stock is nil for meals.
	Stock *int `json:"stock"`
}

// TracksStock reports whether orders for this product consume stock.
func (p *Product) TracksStock() bool {
	return p.Type != ProductMeal
}

func (p *Product) Validate() error {
	if !p.Type.Valid() {
		return ErrUnknownProductType
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Type == ProductMeal && p.Stock != nil {
		return ErrMealWithStock
	}
	if p.Type != ProductMeal && p.Stock == nil {
		return ErrStockRequired
	}
	return nil
}
