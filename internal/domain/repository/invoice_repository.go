package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
	// ListBetween returns invoices created in [from, to), oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Invoice, error)
}
