package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

const itemInsertBatchSize = 100

type store struct {
	db *gorm.DB
}

// NewStore creates a Store that commits batches in a single database transaction
func NewStore(db *gorm.DB) domainRepo.Store {
	return &store{db: db}
}

func (s *store) Commit(ctx context.Context, b *domainRepo.Batch) error {
	if b.IsEmpty() {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if items := b.Items(); len(items) > 0 {
			if err := tx.CreateInBatches(items, itemInsertBatchSize).Error; err != nil {
				return fmt.Errorf("insert inventory items: %w", err)
			}
		}

		for _, d := range b.QuantityDeltas() {
			if err := applyQuantityDelta(tx, d, b.StockRequired()); err != nil {
				return err
			}
		}

		for _, d := range b.BalanceDeltas() {
			res := tx.Model(&entity.Customer{}).
				Where("id = ?", d.CustomerID).
				Update("balance", gorm.Expr("balance + ?", d.Delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 && !d.SkipMissing {
				return fmt.Errorf("customer %s: %w", d.CustomerID, domainRepo.ErrNotFound)
			}
		}

		for _, sale := range b.NewSales() {
			if err := tx.Omit("Lines").Create(sale).Error; err != nil {
				return fmt.Errorf("insert sale: %w", err)
			}
			if err := insertLines(tx, sale); err != nil {
				return err
			}
		}

		for _, sale := range b.SavedSales() {
			if err := saveSale(tx, sale); err != nil {
				return err
			}
		}

		for _, sale := range b.DeletedSales() {
			if err := deleteSale(tx, sale); err != nil {
				return err
			}
		}

		for _, p := range b.Payments() {
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}

		return nil
	})
}

// applyQuantityDelta adds the delta in SQL so it composes with concurrent
// writers. With requireStock a decrement only applies while enough stock is left.
func applyQuantityDelta(tx *gorm.DB, d domainRepo.QuantityDelta, requireStock bool) error {
	query := tx.Model(&entity.InventoryItem{}).Where("id = ?", d.ItemID)
	guarded := requireStock && d.Delta < 0
	if guarded {
		query = query.Where("quantity >= ?", -d.Delta)
	}

	res := query.Update("quantity", gorm.Expr("quantity + ?", d.Delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if guarded {
		var n int64
		if err := tx.Model(&entity.InventoryItem{}).Where("id = ?", d.ItemID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("inventory item %s cannot apply %d: %w", d.ItemID, d.Delta, domainRepo.ErrInsufficientStock)
		}
	}
	if d.SkipMissing {
		return nil
	}
	return fmt.Errorf("inventory item %s: %w", d.ItemID, domainRepo.ErrNotFound)
}

func insertLines(tx *gorm.DB, sale *entity.Sale) error {
	if len(sale.Lines) == 0 {
		return nil
	}
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
		sale.Lines[i].Position = i
	}
	if err := tx.Create(&sale.Lines).Error; err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}
	return nil
}

func saveSale(tx *gorm.DB, sale *entity.Sale) error {
	res := tx.Model(&entity.Sale{}).
		Where("id = ? AND version = ? AND status = ?", sale.ID, sale.Version, enum.SaleStatusCompleted).
		Updates(map[string]any{
			"subtotal":    sale.Subtotal,
			"tax":         sale.Tax,
			"total":       sale.Total,
			"paid_amount": sale.PaidAmount,
			"notes":       sale.Notes,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale %s at version %d: %w", sale.ID, sale.Version, domainRepo.ErrStaleWrite)
	}

	if err := tx.Where("sale_id = ?", sale.ID).Delete(&entity.SaleLine{}).Error; err != nil {
		return fmt.Errorf("replace sale lines: %w", err)
	}
	if err := insertLines(tx, sale); err != nil {
		return err
	}
	sale.Version++
	return nil
}

func deleteSale(tx *gorm.DB, sale *entity.Sale) error {
	now := time.Now()
	res := tx.Model(&entity.Sale{}).
		Where("id = ? AND version = ? AND status = ?", sale.ID, sale.Version, enum.SaleStatusCompleted).
		Updates(map[string]any{
			"status":     enum.SaleStatusDeleted,
			"deleted_at": now,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale %s at version %d: %w", sale.ID, sale.Version, domainRepo.ErrStaleWrite)
	}
	sale.Status = enum.SaleStatusDeleted
	sale.DeletedAt = &now
	sale.Version++
	return nil
}
