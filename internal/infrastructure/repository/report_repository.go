package repository

import (
	"context"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) InvoiceTaxTotals(ctx context.Context) (*domainRepo.TaxTotals, error) {
	var totals domainRepo.TaxTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0),
			COALESCE(SUM(tax), 0)
		FROM invoices
	`).Row().Scan(&totals.TotalAmount, &totals.TotalTax)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *reportRepository) ShopCounts(ctx context.Context, dayStart time.Time, lowStockThreshold int) (*domainRepo.ShopCounts, error) {
	var counts domainRepo.ShopCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&entity.InventoryItem{}).Count(&counts.InventoryItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.InventoryItem{}).
		Where("quantity <= ?", lowStockThreshold).
		Count(&counts.LowStockItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Customer{}).Count(&counts.Customers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Invoice{}).
		Where("created_at >= ?", dayStart).
		Count(&counts.InvoicesToday).Error; err != nil {
		return nil, err
	}

	err := db.Raw(`
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = ? AND created_at >= ?
	`, enum.SaleStatusCompleted, dayStart).Row().Scan(&counts.SalesToday, &counts.SalesTodayTotal)
	if err != nil {
		return nil, err
	}

	var outstanding decimal.Decimal
	err = db.Raw(`SELECT COALESCE(SUM(balance), 0) FROM customers WHERE balance > 0`).
		Row().Scan(&outstanding)
	if err != nil {
		return nil, err
	}
	counts.OutstandingAmount = outstanding

	return &counts, nil
}
