package service

import (
	"context"
	"strings"

	"github.com/sangkips/garage-pos-api/internal/domain/repository"
)

// AllMonths is reported when no month was asked for
const AllMonths = "ALL"

// ReportService computes read-only aggregations
type ReportService struct {
	base
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(deps Deps, reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{base: newBase(deps), reportRepo: reportRepo}
}

// GstSummary is the tax collected over invoices
type GstSummary struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	TotalTax    float64 `json:"totalTax"`
}

// GstSummary sums total and tax over every invoice. The month is echoed
// back but does not narrow the sum.
func (s *ReportService) GstSummary(ctx context.Context, month string) (*GstSummary, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		month = AllMonths
	}

	totals, err := s.reportRepo.InvoiceTaxTotals(ctx)
	if err != nil {
		return nil, s.fail(ctx, "gstSummaryHttp", err)
	}

	return &GstSummary{
		Month:       month,
		TotalAmount: amount(totals.TotalAmount),
		TotalTax:    amount(totals.TotalTax),
	}, nil
}
