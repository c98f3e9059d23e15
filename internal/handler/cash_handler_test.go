package handler

import (
	"context"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockCashLedger struct {
	mock.Mock
}

func (m *MockCashLedger) OpenTurn(ctx context.Context, req *service.OpenTurnRequest, openedBy string) (*model.CashTurn, error) {
	args := m.Called(ctx, req, openedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashTurn), args.Error(1)
}

func (m *MockCashLedger) AccumulateSale(tx *gorm.DB, amount decimal.Decimal) error {
	return m.Called(tx, amount).Error(0)
}

func (m *MockCashLedger) CloseTurn(ctx context.Context, req *service.CloseTurnRequest, closedBy string) (*model.CashTurnClosing, error) {
	args := m.Called(ctx, req, closedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashTurnClosing), args.Error(1)
}

func (m *MockCashLedger) CurrentTurn() (*model.CashTurn, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CashTurn), args.Error(1)
}

func (m *MockCashLedger) History(limit int) ([]model.CashTurnClosing, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.CashTurnClosing), args.Error(1)
}

func cashApp(ledger service.CashLedger) *fiber.App {
	h := NewCashHandler(ledger)
	return newTestApp("Cajero Principal", func(app *fiber.App) {
		app.Get("/shifts/current", h.CurrentTurn)
		app.Get("/shifts/history", h.History)
		app.Post("/shifts/:action", h.ShiftAction)
	})
}

func TestShiftAction_Open(t *testing.T) {
	ledger := &MockCashLedger{}
	ledger.On("OpenTurn", mock.Anything, mock.MatchedBy(func(req *service.OpenTurnRequest) bool {
		return req.OpeningFloat.Equal(decimal.NewFromInt(1500))
	}), "Cajero Principal").Return(&model.CashTurn{State: model.TurnOpen}, nil).Once()

	status, out := doJSON(t, cashApp(ledger), "POST", "/shifts/open", `{"opening_float":"1500"}`)

	assert.Equal(t, 201, status)
	assert.Equal(t, "Cash turn opened", out["message"])
	ledger.AssertExpectations(t)
}

func TestShiftAction_OpenTwiceConflicts(t *testing.T) {
	ledger := &MockCashLedger{}
	ledger.On("OpenTurn", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrConflict).Once()

	status, _ := doJSON(t, cashApp(ledger), "POST", "/shifts/open", `{"opening_float":100}`)
	assert.Equal(t, 409, status)
}

func TestShiftAction_Close(t *testing.T) {
	ledger := &MockCashLedger{}
	ledger.On("CloseTurn", mock.Anything, mock.MatchedBy(func(req *service.CloseTurnRequest) bool {
		return req.ActualClosing.Equal(decimal.NewFromInt(5750)) && req.Notes == "ok"
	}), "Cajero Principal").Return(&model.CashTurnClosing{Variance: decimal.NewFromInt(-50)}, nil).Once()

	status, out := doJSON(t, cashApp(ledger), "POST", "/shifts/close", `{"actual_closing":5750,"notes":"ok"}`)

	assert.Equal(t, 200, status)
	assert.Equal(t, "Cash turn closed", out["message"])
	ledger.AssertExpectations(t)
}

func TestShiftAction_UnknownAction(t *testing.T) {
	status, _ := doJSON(t, cashApp(&MockCashLedger{}), "POST", "/shifts/pause", `{}`)
	assert.Equal(t, 400, status)
}

func TestCurrentTurn_NoneOpen(t *testing.T) {
	ledger := &MockCashLedger{}
	ledger.On("CurrentTurn").Return(nil, service.ErrNotFound).Once()

	status, _ := doJSON(t, cashApp(ledger), "GET", "/shifts/current", "")
	assert.Equal(t, 404, status)
}

func TestHistory_DefaultLimit(t *testing.T) {
	ledger := &MockCashLedger{}
	ledger.On("History", 20).Return([]model.CashTurnClosing{}, nil).Once()

	status, _ := doJSON(t, cashApp(ledger), "GET", "/shifts/history?limit=abc", "")
	assert.Equal(t, 200, status)
	ledger.AssertExpectations(t)
}
