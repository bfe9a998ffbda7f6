package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/spreadsheet"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/sangkips/garage-pos-api/pkg/utils"
	"go.uber.org/zap"
)

// InvoiceService issues and lists invoices for completed sales
type InvoiceService struct {
	base
	invoiceRepo repository.InvoiceRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(deps Deps, invoiceRepo repository.InvoiceRepository, saleRepo repository.SaleRepository) *InvoiceService {
	return &InvoiceService{
		base:        newBase(deps),
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		now:         time.Now,
	}
}

// IssueInvoice creates the invoice of a sale. A sale has at most one invoice,
// so issuing again returns the one already stored.
func (s *InvoiceService) IssueInvoice(ctx context.Context, userID string, rawSaleID string) (*entity.Invoice, error) {
	const op = "issueInvoice"

	saleID, err := idArg("id", rawSaleID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	existing, err := s.invoiceRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if existing != nil {
		return existing, nil
	}

	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if sale == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Sale"))
	}
	if sale.IsDeleted() {
		return nil, s.fail(ctx, op, apperror.NewFailedPrecondition("cannot invoice a deleted sale"))
	}

	invoice := &entity.Invoice{
		ID:         uuid.New(),
		Number:     utils.GenerateInvoiceNo(s.now()),
		SaleID:     sale.ID,
		CustomerID: sale.CustomerID,
		Subtotal:   sale.Subtotal,
		Tax:        sale.Tax,
		Total:      sale.Total,
		CreatedBy:  userID,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		// A concurrent request may have issued it first.
		if winner, getErr := s.invoiceRepo.GetBySaleID(ctx, saleID); getErr == nil && winner != nil {
			return winner, nil
		}
		return nil, s.fail(ctx, op, err)
	}

	s.logger.Info("invoice issued",
		zap.String("op", op),
		zap.String("invoice_no", invoice.Number),
		zap.String("sale_id", sale.ID.String()),
	)
	s.notify(ctx, event.CollectionInvoices, event.OpCreated, invoice.ID)

	return invoice, nil
}

// GetInvoice retrieves an invoice by id
func (s *InvoiceService) GetInvoice(ctx context.Context, rawID string) (*entity.Invoice, error) {
	id, err := idArg("id", rawID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "getInvoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, "listInvoices", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ExportInvoices writes the invoices of a month (YYYY-MM) as a workbook.
// An empty month or "ALL" exports every invoice.
func (s *InvoiceService) ExportInvoices(ctx context.Context, month string, w io.Writer) error {
	from, to, err := monthRange(month, s.now())
	if err != nil {
		return err
	}

	invoices, err := s.invoiceRepo.ListBetween(ctx, from, to)
	if err != nil {
		return s.fail(ctx, "exportInvoices", err)
	}
	if err := spreadsheet.WriteInvoices(w, invoices); err != nil {
		return s.fail(ctx, "exportInvoices", err)
	}
	return nil
}

func monthRange(month string, now time.Time) (time.Time, time.Time, error) {
	month = strings.TrimSpace(month)
	if month == "" || strings.EqualFold(month, AllMonths) {
		return time.Time{}, now.AddDate(0, 0, 1), nil
	}
	start, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewInvalidArgument([]apperror.FieldError{{Field: "month", Message: "must be in YYYY-MM format"}})
	}
	return start, start.AddDate(0, 1, 0), nil
}
