package repository

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CashTurnRepository interface {
	FindOpen(tx *gorm.DB) (*model.CashTurn, error)
	LockOpen(tx *gorm.DB) (*model.CashTurn, error)
	Create(tx *gorm.DB, turn *model.CashTurn) error
	Save(tx *gorm.DB, turn *model.CashTurn) error
	CreateClosing(tx *gorm.DB, closing *model.CashTurnClosing) error
	FindClosings(limit int) ([]model.CashTurnClosing, error)
}

type cashTurnRepo struct {
	db *gorm.DB
}

func NewCashTurnRepo(db *gorm.DB) CashTurnRepository {
	return &cashTurnRepo{db}
}

// FindOpen returns the open turn or gorm.ErrRecordNotFound.
func (r *cashTurnRepo) FindOpen(tx *gorm.DB) (*model.CashTurn, error) {
	if tx == nil {
		tx = r.db
	}
	var turn model.CashTurn
	if err := tx.Where("state = ?", model.TurnOpen).First(&turn).Error; err != nil {
		return nil, err
	}
	return &turn, nil
}

// LockOpen is FindOpen with a row lock, for read-modify-write of the running totals.
func (r *cashTurnRepo) LockOpen(tx *gorm.DB) (*model.CashTurn, error) {
	var turn model.CashTurn
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("state = ?", model.TurnOpen).
		First(&turn).Error
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

func (r *cashTurnRepo) Create(tx *gorm.DB, turn *model.CashTurn) error {
	return tx.Create(turn).Error
}

func (r *cashTurnRepo) Save(tx *gorm.DB, turn *model.CashTurn) error {
	return tx.Save(turn).Error
}

func (r *cashTurnRepo) CreateClosing(tx *gorm.DB, closing *model.CashTurnClosing) error {
	return tx.Create(closing).Error
}

func (r *cashTurnRepo) FindClosings(limit int) ([]model.CashTurnClosing, error) {
	var closings []model.CashTurnClosing
	q := r.db.Order("closed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&closings).Error
	return closings, err
}
