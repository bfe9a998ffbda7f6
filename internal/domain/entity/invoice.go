package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a numbered tax document issued for a completed sale
type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number     string          `gorm:"size:40;uniqueIndex;not null" json:"number"`
	SaleID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"saleId"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	Subtotal   decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	Tax        decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	Total      decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	CreatedBy  string          `gorm:"size:128" json:"createdBy"`
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`
}

// MarshalJSON renders money fields as plain numbers
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(i),
		Subtotal: amount(i.Subtotal),
		Tax:      amount(i.Tax),
		Total:    amount(i.Total),
	})
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
