package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uuid.UUID) (*model.Order, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindItemByID(tx *gorm.DB, id uuid.UUID) (*model.OrderItem, error)
	UpdateItemState(tx *gorm.DB, item *model.OrderItem) error
	ItemStats(tx *gorm.DB, orderID uuid.UUID) (model.ItemStats, error)
	UpdateState(tx *gorm.DB, orderID uuid.UUID, state model.OrderState) error
	Close(tx *gorm.DB, order *model.Order) error
	FindActive() ([]model.Order, error)
	FindItemsOverdue(now time.Time) ([]OverdueItem, error)
	CountActive() (int64, error)
	SalesBetween(start, end time.Time) (decimal.Decimal, error)
}

// OverdueItem is a ticket line still cooking past its estimate.
type OverdueItem struct {
	ItemID           uuid.UUID
	OrderID          uuid.UUID
	TableNumber      int
	ProductName      string
	State            model.ItemState
	OpenedAt         time.Time
	EstimatedMinutes int
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func itemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// Create inserts the order together with its items.
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Table").Preload("Items", itemsByCreation).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID reads the order row with FOR UPDATE. Every write that touches an
// order's items goes through this lock first, so item transitions on the same
// order are serialized.
func (r *orderRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindItemByID(tx *gorm.DB, id uuid.UUID) (*model.OrderItem, error) {
	if tx == nil {
		tx = r.db
	}
	var item model.OrderItem
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepo) UpdateItemState(tx *gorm.DB, item *model.OrderItem) error {
	return tx.Model(&model.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"state":       item.State,
			"started_at":  item.StartedAt,
			"finished_at": item.FinishedAt,
		}).Error
}

// ItemStats counts the order's items per state with a single grouped query.
func (r *orderRepo) ItemStats(tx *gorm.DB, orderID uuid.UUID) (model.ItemStats, error) {
	var rows []struct {
		State model.ItemState
		N     int
	}
	err := tx.Model(&model.OrderItem{}).
		Select("state, COUNT(*) AS n").
		Where("order_id = ?", orderID).
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return model.ItemStats{}, err
	}

	var stats model.ItemStats
	for _, row := range rows {
		switch row.State {
		case model.ItemPending:
			stats.Pending = row.N
		case model.ItemInProgress:
			stats.InProgress = row.N
		case model.ItemReady:
			stats.Ready = row.N
		}
		stats.Total += row.N
	}
	return stats, nil
}

func (r *orderRepo) UpdateState(tx *gorm.DB, orderID uuid.UUID, state model.OrderState) error {
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Update("state", state).Error
}

func (r *orderRepo) Close(tx *gorm.DB, order *model.Order) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"state":      order.State,
			"closed_at":  order.ClosedAt,
			"updated_by": order.UpdatedBy,
		}).Error
}

func (r *orderRepo) FindActive() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Table").Preload("Items", itemsByCreation).
		Where("state <> ?", model.OrderClosed).
		Order("opened_at ASC").
		Find(&orders).Error
	return orders, err
}

// FindItemsOverdue returns unfinished items whose estimate has elapsed since the order opened.
func (r *orderRepo) FindItemsOverdue(now time.Time) ([]OverdueItem, error) {
	var candidates []OverdueItem
	err := r.db.Table("order_items AS i").
		Select(`i.id AS item_id, i.order_id, t.number AS table_number, i.product_name,
			i.state, o.opened_at, i.estimated_minutes`).
		Joins("JOIN orders o ON o.id = i.order_id").
		Joins("JOIN dining_tables t ON t.id = o.table_id").
		Where("o.state <> ? AND i.state <> ? AND i.estimated_minutes > 0", model.OrderClosed, model.ItemReady).
		Where("i.deleted_at IS NULL").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}

	var overdue []OverdueItem
	for _, it := range candidates {
		if now.Sub(it.OpenedAt) > time.Duration(it.EstimatedMinutes)*time.Minute {
			overdue = append(overdue, it)
		}
	}
	return overdue, nil
}

func (r *orderRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("state <> ?", model.OrderClosed).Count(&count).Error
	return count, err
}

// SalesBetween sums totals of orders closed in [start, end), in decimal.
func (r *orderRepo) SalesBetween(start, end time.Time) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.db.Model(&model.Order{}).
		Where("state = ? AND closed_at >= ? AND closed_at < ?", model.OrderClosed, start, end).
		Pluck("total", &totals).Error
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}
