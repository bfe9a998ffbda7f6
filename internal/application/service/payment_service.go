package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/application/validation"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"go.uber.org/zap"
)

// PaymentService records money received from customers
type PaymentService struct {
	base
	customerRepo repository.CustomerRepository
	store        repository.Store
}

// NewPaymentService creates a new payment service
func NewPaymentService(deps Deps, customerRepo repository.CustomerRepository, store repository.Store) *PaymentService {
	return &PaymentService{
		base:         newBase(deps),
		customerRepo: customerRepo,
		store:        store,
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	CustomerID string   `json:"customerId" validate:"required,uuid"`
	Amount     *float64 `json:"amount" validate:"required,gt=0"`
	Method     string   `json:"method" validate:"omitempty,oneof=cash upi card bank"`
	Note       *string  `json:"note" validate:"omitnil,max=500"`
}

// PaymentResult is returned by RecordPayment
type PaymentResult struct {
	PaymentID string `json:"paymentId"`
}

// RecordPayment stores a payment and takes its amount off the customer's balance
func (s *PaymentService) RecordPayment(ctx context.Context, userID string, input RecordPaymentInput) (*PaymentResult, error) {
	const op = "recordPayment"

	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	customerID := parseID(input.CustomerID)
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if customer == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Customer"))
	}

	method := enum.PaymentMethod(input.Method)
	if method == "" {
		method = enum.PaymentMethodCash
	}

	payment := &entity.Payment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     money(*input.Amount),
		Method:     method,
		Note:       trimmed(input.Note),
		CreatedBy:  userID,
	}

	b := repository.NewBatch()
	b.AdjustBalance(customerID, payment.Amount.Neg())
	b.CreatePayment(payment)

	if err := s.store.Commit(ctx, b); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.logger.Info("payment recorded",
		zap.String("op", op),
		zap.String("payment_id", payment.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("method", method.String()),
	)
	s.notify(ctx, event.CollectionPayments, event.OpCreated, payment.ID)
	s.notify(ctx, event.CollectionCustomers, event.OpUpdated, customerID)

	return &PaymentResult{PaymentID: payment.ID.String()}, nil
}
