package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale records items sold to a customer together with its derived totals.
// A deleted sale stays in the table as a tombstone.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	Lines      []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"lines"`
	Subtotal   decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	Tax        decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	Total      decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
	PaidAmount decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"-"`
	Notes      *string         `gorm:"type:text" json:"notes"`
	Status     enum.SaleStatus `gorm:"size:20;not null;index" json:"status"`
	Version    int             `gorm:"not null;default:1" json:"version"`
	CreatedBy  string          `gorm:"size:128" json:"createdBy"`
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  *time.Time      `json:"deletedAt,omitempty"`
}

// MarshalJSON renders money fields as plain numbers
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal   float64 `json:"subtotal"`
		Tax        float64 `json:"tax"`
		Total      float64 `json:"total"`
		PaidAmount float64 `json:"paidAmount"`
		Due        float64 `json:"due"`
	}{
		Alias:      Alias(s),
		Subtotal:   amount(s.Subtotal),
		Tax:        amount(s.Tax),
		Total:      amount(s.Total),
		PaidAmount: amount(s.PaidAmount),
		Due:        amount(s.Due()),
	})
}

// Due is the part of the total not paid at the counter
func (s *Sale) Due() decimal.Decimal {
	return s.Total.Sub(s.PaidAmount)
}

// IsDeleted checks if the sale has been tombstoned
func (s *Sale) IsDeleted() bool {
	return s.Status == enum.SaleStatusDeleted
}

// ApplyTotals copies derived totals onto the sale
func (s *Sale) ApplyTotals(t Totals) {
	s.Subtotal = t.Subtotal
	s.Tax = t.Tax
	s.Total = t.Total
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleLine is one (item, quantity, price) entry of a sale
type SaleLine struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	SaleID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position int             `gorm:"not null" json:"-"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"itemId"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric;not null" json:"-"`
}

// MarshalJSON renders the price as a plain number
func (l SaleLine) MarshalJSON() ([]byte, error) {
	type Alias SaleLine
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(l),
		Price: amount(l.Price),
	})
}

// BeforeCreate generates a UUID before creating a new line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}
