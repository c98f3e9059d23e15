package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *service.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) TransitionItemState(ctx context.Context, itemID uuid.UUID, state model.ItemState) (*model.OrderItem, error) {
	args := m.Called(ctx, itemID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderItem), args.Error(1)
}

func (m *MockOrderService) CloseOrder(ctx context.Context, orderID uuid.UUID, closedBy string) (*model.Order, error) {
	args := m.Called(ctx, orderID, closedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListActiveOrders() ([]model.Order, error) {
	args := m.Called()
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) KitchenBoard() ([]model.KitchenOrder, error) {
	args := m.Called()
	return args.Get(0).([]model.KitchenOrder), args.Error(1)
}

// newTestApp mounts routes behind a stub that plays the part of RequireAuth.
func newTestApp(userName string, mount func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_name", userName)
		return c.Next()
	})
	mount(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func orderApp(svc service.OrderService) *fiber.App {
	h := NewOrderHandler(svc)
	return newTestApp("Mozo Principal", func(app *fiber.App) {
		app.Post("/orders", h.CreateOrder)
		app.Get("/orders/:id", h.GetOrder)
		app.Post("/orders/:id/close", h.CloseOrder)
		app.Post("/order-items/:id/state", h.TransitionItemState)
	})
}

func TestCreateOrder_DefaultsWaiterToCaller(t *testing.T) {
	svc := &MockOrderService{}
	tableID, productID := uuid.New(), uuid.New()
	order := &model.Order{
		Table: &model.Table{Number: 4},
		Total: decimal.NewFromInt(4800),
	}
	order.ID = uuid.New()

	svc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *service.CreateOrderRequest) bool {
		return req.WaiterName == "Mozo Principal" && req.TableID == tableID && len(req.Items) == 1
	})).Return(order, nil).Once()

	body := fmt.Sprintf(`{"table_id":%q,"items":[{"product_id":%q,"quantity":2}]}`, tableID, productID)
	status, out := doJSON(t, orderApp(svc), "POST", "/orders", body)

	assert.Equal(t, 201, status)
	assert.Equal(t, order.ID.String(), out["order_id"])
	assert.Equal(t, float64(4), out["table_number"])
	assert.Equal(t, "4800", out["total"])
	svc.AssertExpectations(t)
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	svc := &MockOrderService{}
	status, out := doJSON(t, orderApp(svc), "POST", "/orders", `{"table_id":`)

	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid JSON", out["error"])
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: table 9 does not exist", service.ErrValidation), 400},
		{fmt.Errorf("%w: order already closed", service.ErrConflict), 409},
		{fmt.Errorf("%w: order x", service.ErrNotFound), 404},
		{fmt.Errorf("%w: close order", service.ErrPersistence), 500},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			svc := &MockOrderService{}
			id := uuid.New()
			svc.On("CloseOrder", mock.Anything, id, "Mozo Principal").Return(nil, tc.err).Once()

			status, out := doJSON(t, orderApp(svc), "POST", "/orders/"+id.String()+"/close", "")
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, out["error"])
			svc.AssertExpectations(t)
		})
	}
}

func TestGetOrder_InvalidID(t *testing.T) {
	status, _ := doJSON(t, orderApp(&MockOrderService{}), "GET", "/orders/not-a-uuid", "")
	assert.Equal(t, 400, status)
}

func TestTransitionItemState(t *testing.T) {
	svc := &MockOrderService{}
	id := uuid.New()
	svc.On("TransitionItemState", mock.Anything, id, model.ItemReady).
		Return(&model.OrderItem{ProductName: "Pizza", State: model.ItemReady}, nil).Once()

	status, out := doJSON(t, orderApp(svc), "POST", "/order-items/"+id.String()+"/state", `{"state":"ready"}`)

	assert.Equal(t, 200, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Item Pizza is now ready", out["message"])
	assert.NotEmpty(t, out["timestamp"])
	svc.AssertExpectations(t)
}

func TestTransitionItemState_RejectsUnknownStateBeforeService(t *testing.T) {
	svc := &MockOrderService{}
	id := uuid.New()

	for _, body := range []string{`{"state":"served"}`, `{}`} {
		status, out := doJSON(t, orderApp(svc), "POST", "/order-items/"+id.String()+"/state", body)
		assert.Equal(t, 400, status)
		assert.NotEmpty(t, out["details"])
	}
	svc.AssertNotCalled(t, "TransitionItemState", mock.Anything, mock.Anything, mock.Anything)
}
