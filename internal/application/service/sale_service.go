package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/application/validation"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService creates, edits and deletes sales. Every write moves stock and
// the customer's balance in the same batch as the sale record.
type SaleService struct {
	base
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	store        repository.Store
	strictStock  bool
}

// NewSaleService creates a new sale service. With strictStock a sale that
// would take an item below zero is refused instead of overselling.
func NewSaleService(
	deps Deps,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	store repository.Store,
	strictStock bool,
) *SaleService {
	return &SaleService{
		base:         newBase(deps),
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		store:        store,
		strictStock:  strictStock,
	}
}

// SaleLineInput is one line of a sale
type SaleLineInput struct {
	ItemID   string   `json:"itemId" validate:"required,uuid"`
	Quantity int      `json:"quantity" validate:"gt=0,max=10000"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
}

// CreateSaleInput represents the add sale input
type CreateSaleInput struct {
	CustomerID string          `json:"customerId" validate:"required,uuid"`
	Lines      []SaleLineInput `json:"lines" validate:"required,min=1,dive"`
	PaidAmount *float64        `json:"paidAmount" validate:"omitnil,gte=0"`
	Notes      *string         `json:"notes" validate:"omitnil,max=2000"`
}

// UpdateSaleInput replaces the lines of a sale
type UpdateSaleInput struct {
	ID    string          `json:"id" validate:"required,uuid"`
	Lines []SaleLineInput `json:"lines" validate:"required,min=1,dive"`
	Notes *string         `json:"notes" validate:"omitnil,max=2000"`
}

// CreateSaleResult is returned by AddSale
type CreateSaleResult struct {
	SaleID string  `json:"saleId"`
	Total  float64 `json:"total"`
	Due    float64 `json:"due"`
}

// UpdateSaleResult is returned by UpdateSale. Delta is the change in total.
type UpdateSaleResult struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
	Delta float64 `json:"delta"`
}

func toLines(in []SaleLineInput) []entity.SaleLine {
	lines := make([]entity.SaleLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.SaleLine{
			ItemID:   parseID(l.ItemID),
			Quantity: l.Quantity,
			Price:    money(*l.Price),
		})
	}
	return lines
}

func (s *SaleService) newBatch() *repository.Batch {
	b := repository.NewBatch()
	if s.strictStock {
		b.RequireStock()
	}
	return b
}

func (s *SaleService) requireCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return nil
}

// AddSale records a sale, takes its lines out of stock and adds the unpaid
// part of the total to the customer's balance.
func (s *SaleService) AddSale(ctx context.Context, userID string, input CreateSaleInput) (*CreateSaleResult, error) {
	const op = "addSale"

	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	customerID := parseID(input.CustomerID)
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	sale := &entity.Sale{
		ID:         uuid.New(),
		CustomerID: customerID,
		Lines:      toLines(input.Lines),
		PaidAmount: decimal.Zero,
		Notes:      trimmed(input.Notes),
		Status:     enum.SaleStatusCompleted,
		Version:    1,
		CreatedBy:  userID,
	}
	if input.PaidAmount != nil {
		sale.PaidAmount = money(*input.PaidAmount)
	}
	sale.ApplyTotals(entity.ComputeTotals(sale.Lines))
	due := sale.Due()

	b := s.newBatch()
	for _, l := range sale.Lines {
		b.AdjustQuantity(l.ItemID, -l.Quantity)
	}
	b.CreateSale(sale)
	b.AdjustBalance(customerID, due)

	if err := s.store.Commit(ctx, b); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.logger.Info("sale created",
		zap.String("op", op),
		zap.String("sale_id", sale.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	s.notifySale(ctx, event.OpCreated, sale, sale.Lines)

	return &CreateSaleResult{
		SaleID: sale.ID.String(),
		Total:  amount(sale.Total),
		Due:    amount(due),
	}, nil
}

// UpdateSale replaces a completed sale's lines. The old lines are put back
// into stock and the new ones taken out in the same batch, so an item on both
// sides only moves by the difference. The balance moves by the change in total.
// Old lines of items that were removed from inventory are not restored.
func (s *SaleService) UpdateSale(ctx context.Context, userID string, input UpdateSaleInput) (*UpdateSaleResult, error) {
	const op = "updateSale"

	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	sale, err := s.saleRepo.GetByID(ctx, parseID(input.ID))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if sale == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Sale"))
	}
	if sale.IsDeleted() {
		return nil, s.fail(ctx, op, apperror.NewFailedPrecondition("sale is deleted"))
	}
	customer, err := s.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if customer == nil {
		return nil, s.fail(ctx, op, apperror.NewFailedPrecondition("customer of this sale was deleted, the sale can only be deleted"))
	}

	oldTotals := entity.ComputeTotals(sale.Lines)
	newLines := toLines(input.Lines)
	newTotals := entity.ComputeTotals(newLines)
	delta := newTotals.Total.Sub(oldTotals.Total)

	edited := *sale
	edited.Lines = newLines
	edited.ApplyTotals(newTotals)
	if input.Notes != nil {
		edited.Notes = trimmed(input.Notes)
	}

	b := s.newBatch()
	for _, l := range sale.Lines {
		b.RestoreQuantity(l.ItemID, l.Quantity)
	}
	for _, l := range newLines {
		b.AdjustQuantity(l.ItemID, -l.Quantity)
	}
	b.AdjustBalance(sale.CustomerID, delta)
	b.SaveSale(&edited)

	if err := s.store.Commit(ctx, b); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			err = apperror.NewFailedPrecondition("sale was changed by another request, reload and retry")
		}
		return nil, s.fail(ctx, op, err)
	}

	s.logger.Info("sale updated",
		zap.String("op", op),
		zap.String("sale_id", sale.ID.String()),
		zap.String("user_id", userID),
		zap.String("delta", delta.StringFixed(2)),
	)
	s.notifySale(ctx, event.OpUpdated, &edited, append(sale.Lines, newLines...))

	return &UpdateSaleResult{
		ID:    sale.ID.String(),
		Total: amount(edited.Total),
		Delta: amount(delta),
	}, nil
}

// DeleteSale tombstones a sale, puts its lines back into stock and takes its
// total off the customer's balance. Items and customers that were removed
// since are skipped. Deleting a deleted sale changes nothing.
func (s *SaleService) DeleteSale(ctx context.Context, userID string, rawID string) (*DeleteResult, error) {
	const op = "deleteSale"

	id, err := idArg("id", rawID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if sale == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Sale"))
	}
	if sale.IsDeleted() {
		return &DeleteResult{ID: id.String(), Already: true}, nil
	}

	b := s.newBatch()
	for _, l := range sale.Lines {
		b.RestoreQuantity(l.ItemID, l.Quantity)
	}
	b.RestoreBalance(sale.CustomerID, sale.Total.Neg())
	b.DeleteSale(sale)

	if err := s.store.Commit(ctx, b); err != nil {
		if !errors.Is(err, repository.ErrStaleWrite) {
			return nil, s.fail(ctx, op, err)
		}
		// Lost a race: fine if the winner deleted it, otherwise ask for a retry.
		current, getErr := s.saleRepo.GetByID(ctx, id)
		if getErr != nil {
			return nil, s.fail(ctx, op, getErr)
		}
		if current != nil && current.IsDeleted() {
			return &DeleteResult{ID: id.String(), Already: true}, nil
		}
		return nil, s.fail(ctx, op, apperror.NewFailedPrecondition("sale was changed by another request, reload and retry"))
	}

	s.logger.Info("sale deleted",
		zap.String("op", op),
		zap.String("sale_id", id.String()),
		zap.String("user_id", userID),
	)
	s.notifySale(ctx, event.OpDeleted, sale, sale.Lines)

	return &DeleteResult{ID: id.String(), Deleted: true}, nil
}

func (s *SaleService) notifySale(ctx context.Context, op event.Op, sale *entity.Sale, touched []entity.SaleLine) {
	s.notify(ctx, event.CollectionSales, op, sale.ID)
	s.notify(ctx, event.CollectionCustomers, event.OpUpdated, sale.CustomerID)

	seen := make(map[uuid.UUID]bool, len(touched))
	for _, l := range touched {
		if !seen[l.ItemID] {
			seen[l.ItemID] = true
			s.notify(ctx, event.CollectionInventory, event.OpAdjusted, l.ItemID)
		}
	}
}

// GetSale retrieves a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, rawID string) (*entity.Sale, error) {
	id, err := idArg("id", rawID)
	if err != nil {
		return nil, err
	}
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "getSale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// SaleFilter holds the query filters of the sale list
type SaleFilter struct {
	CustomerID string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

func (f SaleFilter) parse() (*uuid.UUID, enum.SaleStatus, error) {
	var customerID *uuid.UUID
	if f.CustomerID != "" {
		id, err := idArg("customer_id", f.CustomerID)
		if err != nil {
			return nil, "", err
		}
		customerID = &id
	}
	status := enum.SaleStatus(f.Status)
	if status != "" && !status.IsValid() {
		return nil, "", apperror.NewInvalidArgument([]apperror.FieldError{{Field: "status", Message: "must be one of: completed deleted"}})
	}
	return customerID, status, nil
}

// ListSales lists sales newest first
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, filter SaleFilter) (*pagination.PaginatedResult[entity.Sale], error) {
	customerID, status, err := filter.parse()
	if err != nil {
		return nil, err
	}

	sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: params,
		CustomerID: customerID,
		Status:     status,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
	})
	if err != nil {
		return nil, s.fail(ctx, "listSales", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales newest first using keyset pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *pagination.CursorParams, filter SaleFilter) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	customerID, status, err := filter.parse()
	if err != nil {
		return nil, err
	}
	if _, err := params.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	sales, err := s.saleRepo.ListWithCursor(ctx, &repository.SaleCursorFilterParams{
		Cursor:     params,
		CustomerID: customerID,
		Status:     status,
	})
	if err != nil {
		return nil, s.fail(ctx, "listSales", err)
	}

	return pagination.NewCursorPaginatedResult(sales, params.Limit, func(sale entity.Sale) (string, time.Time) {
		return sale.ID.String(), sale.CreatedAt
	}), nil
}
