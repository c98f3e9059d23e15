package service

import (
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type DashboardStats struct {
	OpenOrders     int64           `json:"open_orders"`
	OccupiedTables int64           `json:"occupied_tables"`
	SalesToday     decimal.Decimal `json:"sales_today"`
	LowStock       []model.Product `json:"low_stock"`
}

type dashboardService struct {
	orderRepo         repository.OrderRepository
	tableRepo         repository.TableRepository
	productRepo       repository.ProductRepository
	movementRepo      repository.StockMovementRepository
	lowStockThreshold int
}

func NewDashboardService(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	lowStockThreshold int,
) DashboardService {
	return &dashboardService{
		orderRepo:         orderRepo,
		tableRepo:         tableRepo,
		productRepo:       productRepo,
		movementRepo:      movementRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.movementRepo.GetStockMovement(startDate, endDate)
	if err != nil {
		return nil, persistence("stock movement", err)
	}
	return data, nil
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	open, err := s.orderRepo.CountActive()
	if err != nil {
		return nil, persistence("count open orders", err)
	}
	occupied, err := s.tableRepo.CountByState(model.TableOccupied)
	if err != nil {
		return nil, persistence("count occupied tables", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sales, err := s.orderRepo.SalesBetween(startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, persistence("sales today", err)
	}

	low, err := s.productRepo.FindLowStock(s.lowStockThreshold)
	if err != nil {
		return nil, persistence("low stock", err)
	}

	return &DashboardStats{
		OpenOrders:     open,
		OccupiedTables: occupied,
		SalesToday:     sales,
		LowStock:       low,
	}, nil
}
