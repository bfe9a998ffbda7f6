package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TaxTotals is the sum of invoice totals and tax
type TaxTotals struct {
	TotalAmount decimal.Decimal
	TotalTax    decimal.Decimal
}

// ShopCounts holds the headline numbers shown on the dashboard
type ShopCounts struct {
	InventoryItems    int64
	Customers         int64
	LowStockItems     int64
	InvoicesToday     int64
	SalesToday        int64
	SalesTodayTotal   decimal.Decimal
	OutstandingAmount decimal.Decimal
}

// ReportRepository defines read-only aggregation queries
type ReportRepository interface {
	// InvoiceTaxTotals sums total and tax over every invoice
	InvoiceTaxTotals(ctx context.Context) (*TaxTotals, error)
	// ShopCounts computes dashboard counters. Today starts at dayStart.
	ShopCounts(ctx context.Context, dayStart time.Time, lowStockThreshold int) (*ShopCounts, error)
}
