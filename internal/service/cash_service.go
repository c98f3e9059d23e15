package service

import (
	"context"
	"errors"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashLedger tracks the single open register turn and its running sales.
type CashLedger interface {
	OpenTurn(ctx context.Context, req *OpenTurnRequest, openedBy string) (*model.CashTurn, error)
	// AccumulateSale adds amount to the open turn inside tx. A nil tx runs
	// in a transaction of its own. Without an open turn it does nothing.
	AccumulateSale(tx *gorm.DB, amount decimal.Decimal) error
	CloseTurn(ctx context.Context, req *CloseTurnRequest, closedBy string) (*model.CashTurnClosing, error)
	CurrentTurn() (*model.CashTurn, error)
	History(limit int) ([]model.CashTurnClosing, error)
}

type OpenTurnRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float" validate:"gte=0"`
	Notes        string          `json:"notes"`
}

type CloseTurnRequest struct {
	ActualClosing decimal.Decimal `json:"actual_closing" validate:"gte=0"`
	Notes         string          `json:"notes"`
}

type cashService struct {
	turnRepo repository.CashTurnRepository
	db       *gorm.DB
}

func NewCashService(turnRepo repository.CashTurnRepository, db *gorm.DB) CashLedger {
	return &cashService{turnRepo: turnRepo, db: db}
}

func (s *cashService) OpenTurn(ctx context.Context, req *OpenTurnRequest, openedBy string) (*model.CashTurn, error) {
	if err := structError(req); err != nil {
		return nil, err
	}

	turn := &model.CashTurn{
		OpenedAt:        time.Now(),
		OpeningFloat:    req.OpeningFloat,
		SalesTotal:      decimal.Zero,
		ExpectedClosing: req.OpeningFloat,
		State:           model.TurnOpen,
		OpenedBy:        openedBy,
		Notes:           req.Notes,
	}
	turn.CreatedBy = openedBy
	turn.UpdatedBy = openedBy

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.turnRepo.LockOpen(tx)
		if err == nil {
			return conflict("a cash turn is already open")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// The partial unique index catches a concurrent opener the lock missed.
		if err := s.turnRepo.Create(tx, turn); err != nil {
			if isUniqueViolation(err) {
				return conflict("a cash turn is already open")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, persistence("open cash turn", err)
	}
	return turn, nil
}

func (s *cashService) AccumulateSale(tx *gorm.DB, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationError("sale amount must not be negative")
	}
	if tx == nil {
		return s.db.Transaction(func(tx *gorm.DB) error {
			return s.accumulate(tx, amount)
		})
	}
	return s.accumulate(tx, amount)
}

func (s *cashService) accumulate(tx *gorm.DB, amount decimal.Decimal) error {
	turn, err := s.turnRepo.LockOpen(tx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	turn.SalesTotal = turn.SalesTotal.Add(amount)
	turn.ExpectedClosing = turn.Expected()
	return s.turnRepo.Save(tx, turn)
}

func (s *cashService) CloseTurn(ctx context.Context, req *CloseTurnRequest, closedBy string) (*model.CashTurnClosing, error) {
	if err := structError(req); err != nil {
		return nil, err
	}

	var closing *model.CashTurnClosing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		turn, err := s.turnRepo.LockOpen(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("open cash turn")
		}
		if err != nil {
			return err
		}

		now := time.Now()
		expected := turn.Expected()
		actual := req.ActualClosing
		variance := actual.Sub(expected)

		turn.State = model.TurnClosed
		turn.ClosedAt = &now
		turn.ExpectedClosing = expected
		turn.ActualClosing = &actual
		turn.Variance = &variance
		turn.ClosedBy = closedBy
		turn.UpdatedBy = closedBy
		if req.Notes != "" {
			turn.Notes = req.Notes
		}
		if err := s.turnRepo.Save(tx, turn); err != nil {
			return err
		}

		closing = &model.CashTurnClosing{
			TurnID:          turn.ID,
			OpenedAt:        turn.OpenedAt,
			ClosedAt:        now,
			OpeningFloat:    turn.OpeningFloat,
			SalesTotal:      turn.SalesTotal,
			ExpectedClosing: expected,
			ActualClosing:   actual,
			Variance:        variance,
			ClosedBy:        closedBy,
			Notes:           turn.Notes,
		}
		closing.CreatedBy = closedBy
		return s.turnRepo.CreateClosing(tx, closing)
	})
	if err != nil {
		return nil, persistence("close cash turn", err)
	}
	return closing, nil
}

func (s *cashService) CurrentTurn() (*model.CashTurn, error) {
	turn, err := s.turnRepo.FindOpen(nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("open cash turn")
	}
	if err != nil {
		return nil, persistence("current cash turn", err)
	}
	return turn, nil
}

func (s *cashService) History(limit int) ([]model.CashTurnClosing, error) {
	closings, err := s.turnRepo.FindClosings(limit)
	if err != nil {
		return nil, persistence("cash turn history", err)
	}
	return closings, nil
}
