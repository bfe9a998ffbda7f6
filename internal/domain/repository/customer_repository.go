package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations.
// Sales and payments move the balance through a Batch.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// Update writes profile fields. Balance is overwritten only when setBalance is true.
	Update(ctx context.Context, customer *entity.Customer, setBalance bool) error
	// Delete removes the customer row. It reports whether a row existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// List returns customers ordered by name
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
}
