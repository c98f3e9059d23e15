package service

import (
	"context"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	orderRepo := repository.NewOrderRepo(db)
	tableRepo := repository.NewTableRepo(db)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	ledger := NewCashService(repository.NewCashTurnRepo(db), db)
	orders := NewOrderService(orderRepo, productRepo, tableRepo, movementRepo, ledger, db, nil)
	dashboard := NewDashboardService(orderRepo, tableRepo, productRepo, movementRepo, 10)

	t1 := seedTable(t, db, 1)
	t2 := seedTable(t, db, 2)
	seedTable(t, db, 3)
	beer := seedProduct(t, db, "Cerveza", model.ProductDrink, 1200, intPtr(12))
	seedProduct(t, db, "Agua", model.ProductDrink, 500, intPtr(30))

	first, err := orders.CreateOrder(ctx, &CreateOrderRequest{
		TableID: t1.ID,
		Items:   []OrderItemRequest{{ProductID: beer.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = orders.CreateOrder(ctx, &CreateOrderRequest{
		TableID: t2.ID,
		Items:   []OrderItemRequest{{ProductID: beer.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = orders.CloseOrder(ctx, first.ID, "cajero")
	require.NoError(t, err)

	stats, err := dashboard.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OpenOrders)
	assert.Equal(t, int64(1), stats.OccupiedTables)
	assert.True(t, stats.SalesToday.Equal(decimal.NewFromInt(3600)), "sales were %s", stats.SalesToday)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "Cerveza", stats.LowStock[0].Name)
	assert.Equal(t, 8, *stats.LowStock[0].Stock)
}
