package spreadsheet

import (
	"io"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WriteInvoices writes invoices as a single-sheet workbook
func WriteInvoices(w io.Writer, invoices []entity.Invoice) error {
	header := []any{"Invoice No", "Date", "Sale ID", "Customer ID", "Subtotal", "Tax", "Total"}
	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []any{
			inv.Number,
			inv.CreatedAt.Format(time.DateOnly),
			inv.SaleID.String(),
			inv.CustomerID.String(),
			inv.Subtotal.InexactFloat64(),
			inv.Tax.InexactFloat64(),
			inv.Total.InexactFloat64(),
		})
	}
	return writeSheet(w, InvoiceSheet, header, rows)
}

func optionalNumber(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
