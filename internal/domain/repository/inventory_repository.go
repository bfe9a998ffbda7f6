package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// InventoryRepository defines the interface for inventory data operations
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	// GetByIDs retrieves multiple items in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error)
	// Update writes descriptive and pricing fields. Quantity is written only
	// when setQuantity is true.
	Update(ctx context.Context, item *entity.InventoryItem, setQuantity bool) error
	// Delete removes the item row. It reports whether a row existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params *InventoryFilterParams) ([]entity.InventoryItem, int64, error)
	// ListAll returns every item ordered by name, for exports
	ListAll(ctx context.Context) ([]entity.InventoryItem, error)
	// AdjustQuantity reads the current quantity under a row lock and writes
	// current+delta. It fails with ErrNotFound, ErrCorruptQuantity or
	// ErrInsufficientStock and leaves the row unchanged in those cases.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

// InventoryFilterParams contains filtering parameters for inventory queries
type InventoryFilterParams struct {
	Pagination        *pagination.PaginationParams
	Search            string
	LowStock          bool
	LowStockThreshold int
}
