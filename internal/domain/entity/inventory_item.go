package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stock-keeping unit, e.g. one brand and grade of engine oil in one pack size
type InventoryItem struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Brand         string           `gorm:"size:120;not null;index" json:"brand"`
	Name          string           `gorm:"size:255;not null;index" json:"name"`
	VolumeMl      float64          `gorm:"not null" json:"volumeMl"`
	Quantity      int              `gorm:"not null;default:0" json:"quantity"`
	PurchasePrice *decimal.Decimal `gorm:"type:numeric" json:"-"`
	SellingPrice  *decimal.Decimal `gorm:"type:numeric" json:"-"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// MarshalJSON renders prices as plain numbers
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type Alias InventoryItem
	return json.Marshal(&struct {
		Alias
		PurchasePrice *float64 `json:"purchasePrice"`
		SellingPrice  *float64 `json:"sellingPrice"`
	}{
		Alias:         Alias(i),
		PurchasePrice: optionalAmount(i.PurchasePrice),
		SellingPrice:  optionalAmount(i.SellingPrice),
	})
}

// IsLowStock checks whether the quantity is at or below the threshold
func (i *InventoryItem) IsLowStock(threshold int) bool {
	return i.Quantity <= threshold
}

// BeforeCreate generates a UUID before creating a new item
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}
