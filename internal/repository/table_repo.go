package repository

import (
	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(table *model.Table) error
	FindAll() ([]model.Table, error)
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Table, error)
	FindByNumber(number int) (*model.Table, error)
	SetState(tx *gorm.DB, id uuid.UUID, state model.TableState, updatedBy string) error
	CountByState(state model.TableState) (int64, error)
}

type tableRepo struct {
	db *gorm.DB
}

func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db}
}

func (r *tableRepo) Create(table *model.Table) error {
	return r.db.Create(table).Error
}

func (r *tableRepo) FindAll() ([]model.Table, error) {
	var tables []model.Table
	err := r.db.Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Table, error) {
	if tx == nil {
		tx = r.db
	}
	var table model.Table
	if err := tx.First(&table, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) FindByNumber(number int) (*model.Table, error) {
	var table model.Table
	if err := r.db.First(&table, "number = ?", number).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// SetState takes tx so it runs inside the order transaction.
func (r *tableRepo) SetState(tx *gorm.DB, id uuid.UUID, state model.TableState, updatedBy string) error {
	return tx.Model(&model.Table{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_by": updatedBy,
		}).Error
}

func (r *tableRepo) CountByState(state model.TableState) (int64, error) {
	var count int64
	err := r.db.Model(&model.Table{}).Where("state = ?", state).Count(&count).Error
	return count, err
}
