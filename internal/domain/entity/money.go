package entity

import "github.com/shopspring/decimal"

// TaxRate is the GST rate applied to every sale and invoice.
var TaxRate = decimal.RequireFromString("0.18")

// Round2 rounds an amount to two decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Totals holds the derived money values of a set of lines
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives subtotal, tax and total from sale lines.
// tax = round2(subtotal*rate) and total = round2(subtotal+tax).
func ComputeTotals(lines []SaleLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	tax := Round2(subtotal.Mul(TaxRate))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round2(subtotal.Add(tax)),
	}
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalAmount(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
