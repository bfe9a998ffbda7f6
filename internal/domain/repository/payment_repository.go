package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// PaymentRepository reads a customer's payments, newest first
type PaymentRepository interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error)
}
