package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a shop customer with a running account balance.
// A positive balance is owed to the shop, a negative one is customer credit.
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"size:255;not null;index" json:"name"`
	Phone     *string         `gorm:"size:30" json:"phone"`
	AltPhone  *string         `gorm:"size:30" json:"altPhone"`
	GSTNumber *string         `gorm:"size:20;column:gst_number" json:"gstNumber"`
	Email     *string         `gorm:"size:255" json:"email"`
	Address   *string         `gorm:"type:text" json:"address"`
	Balance   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// MarshalJSON renders the balance as a plain number
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		Balance float64 `json:"balance"`
	}{
		Alias:   Alias(c),
		Balance: amount(c.Balance),
	})
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
