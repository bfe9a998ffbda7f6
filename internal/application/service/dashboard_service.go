package service

import (
	"context"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/repository"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	base
	reportRepo        repository.ReportRepository
	lowStockThreshold int
	now               func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(deps Deps, reportRepo repository.ReportRepository, lowStockThreshold int) *DashboardService {
	return &DashboardService{
		base:              newBase(deps),
		reportRepo:        reportRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	InventoryItems    int64   `json:"inventoryItems"`
	Customers         int64   `json:"customers"`
	LowStockItems     int64   `json:"lowStockItems"`
	LowStockThreshold int     `json:"lowStockThreshold"`
	InvoicesToday     int64   `json:"invoicesToday"`
	SalesToday        int64   `json:"salesToday"`
	SalesTodayTotal   float64 `json:"salesTodayTotal"`
	Outstanding       float64 `json:"outstanding"`
}

// GetDashboardStats returns dashboard statistics. Today starts at local midnight.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts, err := s.reportRepo.ShopCounts(ctx, dayStart, s.lowStockThreshold)
	if err != nil {
		return nil, s.fail(ctx, "dashboardStats", err)
	}

	return &DashboardStats{
		InventoryItems:    counts.InventoryItems,
		Customers:         counts.Customers,
		LowStockItems:     counts.LowStockItems,
		LowStockThreshold: s.lowStockThreshold,
		InvoicesToday:     counts.InvoicesToday,
		SalesToday:        counts.SalesToday,
		SalesTodayTotal:   amount(counts.SalesTodayTotal),
		Outstanding:       amount(counts.OutstandingAmount),
	}, nil
}
