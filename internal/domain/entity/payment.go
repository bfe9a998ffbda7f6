package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an append-only record of money received from a customer
type Payment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index" json:"customerId"`
	Amount     decimal.Decimal    `gorm:"type:numeric;not null" json:"-"`
	Method     enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Note       *string            `gorm:"type:text" json:"note"`
	CreatedBy  string             `gorm:"size:128" json:"createdBy"`
	CreatedAt  time.Time          `gorm:"index" json:"createdAt"`
}

// MarshalJSON renders the amount as a plain number
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: amount(p.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
