package service

import (
	"context"
	"strings"

	"github.com/sangkips/garage-pos-api/internal/application/validation"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	base
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	deps Deps,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
) *CustomerService {
	return &CustomerService{
		base:         newBase(deps),
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
	}
}

// AddCustomerInput represents the add customer input
type AddCustomerInput struct {
	Name      string   `json:"name" validate:"notblank,max=255"`
	Phone     *string  `json:"phone" validate:"omitempty,phone"`
	AltPhone  *string  `json:"altPhone" validate:"omitempty,phone"`
	GSTNumber *string  `json:"gstNumber" validate:"omitempty,max=20"`
	Email     *string  `json:"email" validate:"omitempty,max=254"`
	Address   *string  `json:"address" validate:"omitempty,max=1000"`
	Balance   *float64 `json:"balance"`
}

func (in *AddCustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	for _, s := range []*string{in.Phone, in.AltPhone, in.GSTNumber, in.Email, in.Address} {
		trimPtr(s)
	}
}

// AddCustomer creates a customer. The balance defaults to zero.
func (s *CustomerService) AddCustomer(ctx context.Context, input AddCustomerInput) (*IDResult, error) {
	const op = "addCustomer"

	input.normalize()
	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	customer := &entity.Customer{
		Name:      input.Name,
		Phone:     trimmed(input.Phone),
		AltPhone:  trimmed(input.AltPhone),
		GSTNumber: trimmed(input.GSTNumber),
		Email:     trimmed(input.Email),
		Address:   trimmed(input.Address),
		Balance:   decimal.Zero,
	}
	if input.Balance != nil {
		customer.Balance = money(*input.Balance)
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.notify(ctx, event.CollectionCustomers, event.OpCreated, customer.ID)
	return &IDResult{ID: customer.ID.String()}, nil
}

// UpdateCustomerInput represents a partial customer update. A field that is
// present but empty clears the stored value.
type UpdateCustomerInput struct {
	ID        string   `json:"id" validate:"required,uuid"`
	Name      *string  `json:"name" validate:"omitnil,notblank,max=255"`
	Phone     *string  `json:"phone" validate:"omitempty,phone"`
	AltPhone  *string  `json:"altPhone" validate:"omitempty,phone"`
	GSTNumber *string  `json:"gstNumber" validate:"omitempty,max=20"`
	Email     *string  `json:"email" validate:"omitempty,max=254"`
	Address   *string  `json:"address" validate:"omitempty,max=1000"`
	Balance   *float64 `json:"balance"`
}

// UpdateCustomer applies the fields present in input
func (s *CustomerService) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*IDResult, error) {
	const op = "updateCustomer"

	for _, p := range []*string{input.Name, input.Phone, input.AltPhone, input.GSTNumber, input.Email, input.Address} {
		trimPtr(p)
	}
	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	id := parseID(input.ID)
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if customer == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Customer"))
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}
	if input.AltPhone != nil {
		customer.AltPhone = trimmed(input.AltPhone)
	}
	if input.GSTNumber != nil {
		customer.GSTNumber = trimmed(input.GSTNumber)
	}
	if input.Email != nil {
		customer.Email = trimmed(input.Email)
	}
	if input.Address != nil {
		customer.Address = trimmed(input.Address)
	}
	if input.Balance != nil {
		customer.Balance = money(*input.Balance)
	}

	if err := s.customerRepo.Update(ctx, customer, input.Balance != nil); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.notify(ctx, event.CollectionCustomers, event.OpUpdated, customer.ID)
	return &IDResult{ID: customer.ID.String()}, nil
}

// DeleteCustomer removes the customer row. Sales and payments that reference it are kept.
func (s *CustomerService) DeleteCustomer(ctx context.Context, rawID string) (*IDResult, error) {
	const op = "deleteCustomer"

	id, err := idArg("id", rawID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	existed, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if !existed {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Customer"))
	}

	s.notify(ctx, event.CollectionCustomers, event.OpDeleted, id)
	return &IDResult{ID: id.String()}, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, rawID string) (*entity.Customer, error) {
	id, err := idArg("id", rawID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "getCustomer", err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers ordered by name
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, s.fail(ctx, "listCustomers", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomerSales lists a customer's sales, newest first, tombstones included
func (s *CustomerService) ListCustomerSales(ctx context.Context, rawID string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	customer, err := s.GetCustomer(ctx, rawID)
	if err != nil {
		return nil, err
	}

	sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: params,
		CustomerID: &customer.ID,
	})
	if err != nil {
		return nil, s.fail(ctx, "listCustomerSales", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListCustomerPayments lists a customer's payments, newest first
func (s *CustomerService) ListCustomerPayments(ctx context.Context, rawID string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Payment], error) {
	customer, err := s.GetCustomer(ctx, rawID)
	if err != nil {
		return nil, err
	}

	payments, total, err := s.paymentRepo.ListByCustomer(ctx, customer.ID, params)
	if err != nil {
		return nil, s.fail(ctx, "listCustomerPayments", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}
