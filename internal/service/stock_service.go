package service

import (
	"context"
	"errors"
	"fmt"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService handles deliveries of stock-tracked products. Consumption is
// recorded by order creation.
type StockService interface {
	Restock(ctx context.Context, productID uuid.UUID, req *RestockRequest, userName string) (*model.StockMovement, error)
	MovementsForOrder(orderID uuid.UUID) ([]model.StockMovement, error)
}

type RestockRequest struct {
	Quantity int    `json:"quantity" validate:"gte=1"`
	Note     string `json:"note" validate:"max=255"`
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
}

func NewStockService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository, db *gorm.DB) StockService {
	return &stockService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		db:           db,
	}
}

func (s *stockService) Restock(ctx context.Context, productID uuid.UUID, req *RestockRequest, userName string) (*model.StockMovement, error) {
	if err := structError(req); err != nil {
		return nil, err
	}

	var movement *model.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByID(tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(fmt.Sprintf("product %s", productID))
		}
		if err != nil {
			return err
		}
		if !product.TracksStock() {
			return validationError("%s is cooked to order and has no stock", product.Name)
		}
		if err := product.Validate(); err != nil {
			return validationError("%s: %v", product.Name, err)
		}

		stockAfter, err := s.productRepo.IncrementStock(tx, product.ID, req.Quantity, userName)
		if err != nil {
			return err
		}

		movement = &model.StockMovement{
			ProductID:  product.ID,
			Type:       model.MovementIn,
			Quantity:   req.Quantity,
			StockAfter: stockAfter,
			Note:       req.Note,
		}
		movement.CreatedBy = userName
		return s.movementRepo.Create(tx, movement)
	})
	if err != nil {
		return nil, persistence("restock", err)
	}
	return movement, nil
}

func (s *stockService) MovementsForOrder(orderID uuid.UUID) ([]model.StockMovement, error) {
	movements, err := s.movementRepo.FindByOrder(orderID)
	if err != nil {
		return nil, persistence("stock movements", err)
	}
	return movements, nil
}
