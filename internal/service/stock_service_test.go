package service

import (
	"context"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRestock(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(repository.NewProductRepo(db), repository.NewStockMovementRepo(db), db)
	soda := seedProduct(t, db, "Soda", model.ProductDrink, 800, intPtr(3))

	movement, err := stock.Restock(context.Background(), soda.ID, &RestockRequest{Quantity: 24, Note: "proveedor"}, "admin")
	require.NoError(t, err)

	assert.Equal(t, model.MovementIn, movement.Type)
	assert.Equal(t, 24, movement.Quantity)
	assert.Equal(t, 27, movement.StockAfter)
	assert.Nil(t, movement.OrderID)
	assert.Equal(t, "admin", movement.CreatedBy)

	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ?", soda.ID).Error)
	require.NotNil(t, stored.Stock)
	assert.Equal(t, 27, *stored.Stock)
}

func TestRestock_Rejections(t *testing.T) {
	db := newTestDB(t)
	stock := NewStockService(repository.NewProductRepo(db), repository.NewStockMovementRepo(db), db)
	meal := seedProduct(t, db, "Bife", model.ProductMeal, 4500, nil)
	soda := seedProduct(t, db, "Soda", model.ProductDrink, 800, intPtr(3))
	ctx := context.Background()

	_, err := stock.Restock(ctx, meal.ID, &RestockRequest{Quantity: 1}, "admin")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = stock.Restock(ctx, uuid.New(), &RestockRequest{Quantity: 1}, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = stock.Restock(ctx, soda.ID, &RestockRequest{Quantity: 0}, "admin")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", soda.ID).Update("stock", gorm.Expr("NULL")).Error)
	_, err = stock.Restock(ctx, soda.ID, &RestockRequest{Quantity: 5}, "admin")
	assert.ErrorIs(t, err, ErrValidation)

	var movements int64
	require.NoError(t, db.Model(&model.StockMovement{}).Count(&movements).Error)
	assert.Zero(t, movements)
}
