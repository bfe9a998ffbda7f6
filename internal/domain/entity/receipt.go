package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ShopDetails is printed at the top of every receipt
type ShopDetails struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTNumber string `json:"gstNumber,omitempty"`
}

// ReceiptLine is one sale line as the customer reads it
type ReceiptLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"-"`
	Amount      decimal.Decimal `json:"-"`
}

// MarshalJSON renders money fields as plain numbers
func (l ReceiptLine) MarshalJSON() ([]byte, error) {
	type Alias ReceiptLine
	return json.Marshal(&struct {
		Alias
		Price  float64 `json:"price"`
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(l),
		Price:  amount(l.Price),
		Amount: amount(l.Amount),
	})
}

// Receipt is composed from a sale at print time and never stored.
// Balance is the customer's account balance when the receipt was printed.
type Receipt struct {
	Shop     ShopDetails     `json:"shop"`
	Number   string          `json:"number"`
	Date     time.Time       `json:"date"`
	Customer string          `json:"customer"`
	Phone    string          `json:"phone,omitempty"`
	Lines    []ReceiptLine   `json:"lines"`
	Subtotal decimal.Decimal `json:"-"`
	Tax      decimal.Decimal `json:"-"`
	Total    decimal.Decimal `json:"-"`
	Paid     decimal.Decimal `json:"-"`
	Due      decimal.Decimal `json:"-"`
	Balance  decimal.Decimal `json:"-"`
}

// MarshalJSON renders money fields as plain numbers
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
		Paid     float64 `json:"paid"`
		Due      float64 `json:"due"`
		Balance  float64 `json:"balance"`
	}{
		Alias:    Alias(r),
		Subtotal: amount(r.Subtotal),
		Tax:      amount(r.Tax),
		Total:    amount(r.Total),
		Paid:     amount(r.Paid),
		Due:      amount(r.Due),
		Balance:  amount(r.Balance),
	})
}
