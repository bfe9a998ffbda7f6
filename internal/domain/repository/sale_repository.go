package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// SaleRepository reads sales. Every sale write goes through a Batch.
type SaleRepository interface {
	// GetByID returns the sale with its lines in entry order, including tombstones
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	CustomerID *uuid.UUID
	Status     enum.SaleStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// SaleCursorFilterParams contains cursor-based filtering parameters for sale queries
type SaleCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	CustomerID *uuid.UUID
	Status     enum.SaleStatus
}
