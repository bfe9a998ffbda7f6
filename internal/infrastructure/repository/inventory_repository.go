package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetByIDs retrieves multiple items by their IDs in a single query
func (r *inventoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *inventoryRepository) Update(ctx context.Context, item *entity.InventoryItem, setQuantity bool) error {
	columns := []string{"brand", "name", "volume_ml", "purchase_price", "selling_price", "updated_at"}
	if setQuantity {
		columns = append(columns, "quantity")
	}
	return r.db.WithContext(ctx).Model(item).Select(columns).Updates(item).Error
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&entity.InventoryItem{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *inventoryRepository) List(ctx context.Context, params *domainRepo.InventoryFilterParams) ([]entity.InventoryItem, int64, error) {
	var items []entity.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Scopes(search(params.Search, "name", "brand"))
	if params.LowStock {
		query = query.Where("quantity <= ?", params.LowStockThreshold)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(paginate(params.Pagination), byName).Find(&items).Error

	return items, total, err
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.WithContext(ctx).Scopes(byName).Find(&items).Error
	return items, err
}

// AdjustQuantity runs a read-modify-write under SELECT ... FOR UPDATE so the
// non-negative check and the write cannot interleave with another writer.
func (r *inventoryRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current sql.NullInt64
		row := tx.Model(&entity.InventoryItem{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("quantity").
			Where("id = ?", id).
			Row()
		if err := row.Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("inventory item %s: %w", id, domainRepo.ErrNotFound)
			}
			return err
		}
		if !current.Valid {
			return fmt.Errorf("inventory item %s: %w", id, domainRepo.ErrCorruptQuantity)
		}

		next = int(current.Int64) + delta
		if next < 0 {
			return fmt.Errorf("inventory item %s has %d, cannot apply %d: %w",
				id, current.Int64, delta, domainRepo.ErrInsufficientStock)
		}

		return tx.Model(&entity.InventoryItem{}).
			Where("id = ?", id).
			Update("quantity", next).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
