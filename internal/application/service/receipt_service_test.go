package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptService_PrintSaleReceipt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX 20W-50", 10)

	created, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 2, 100)},
	})
	require.NoError(t, err)

	result, err := f.receipts.PrintSaleReceipt(ctx, created.SaleID)
	require.NoError(t, err)
	assert.True(t, result.Printed)
	assert.Empty(t, result.Warning)

	r := result.Receipt
	assert.Equal(t, "S-"+created.SaleID[:8], r.Number)
	assert.Equal(t, "Ravi Motors", r.Customer)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Castrol GTX 20W-50 1L", r.Lines[0].Description)
	assertMoney(t, "200", r.Lines[0].Amount)
	assertMoney(t, "236", r.Total)
	assertMoney(t, "236", r.Due)
	assertMoney(t, "236", r.Balance)

	require.Len(t, f.printer.jobs, 1)
	job := string(f.printer.jobs[0])
	assert.Contains(t, job, "Sri Ganesh Garage")
	assert.Contains(t, job, "GSTIN: 29ABCDE1234F1Z5")
	assert.Contains(t, job, "2x Castrol GTX 20W-50 1L  200.00")
	assert.Contains(t, job, "GST 18%")
	assert.Contains(t, job, "236.00")
	assert.Contains(t, job, "Account balance")
	assert.NotContains(t, job, "Paid")

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total":236`)
	assert.Contains(t, string(raw), `"printed":true`)

	t.Run("uses the invoice number once issued", func(t *testing.T) {
		invoice, err := f.invoices.IssueInvoice(ctx, "user-1", created.SaleID)
		require.NoError(t, err)

		r, err := f.receipts.BuildReceipt(ctx, created.SaleID)
		require.NoError(t, err)
		assert.Equal(t, invoice.Number, r.Number)
	})

	t.Run("printer failure still returns the receipt", func(t *testing.T) {
		f.printer.err = errors.New("printer: connect 10.0.0.9:9100: connection refused")
		defer func() { f.printer.err = nil }()

		result, err := f.receipts.PrintSaleReceipt(ctx, created.SaleID)
		require.NoError(t, err)
		assert.False(t, result.Printed)
		assert.Contains(t, result.Warning, "connection refused")
		assert.NotNil(t, result.Receipt)
	})

	t.Run("deleted sale", func(t *testing.T) {
		_, err := f.sales.DeleteSale(ctx, "user-1", created.SaleID)
		require.NoError(t, err)

		_, err = f.receipts.PrintSaleReceipt(ctx, created.SaleID)
		assertKind(t, err, apperror.KindFailedPrecondition)
	})

	t.Run("bad and unknown ids", func(t *testing.T) {
		_, err := f.receipts.PrintSaleReceipt(ctx, "nope")
		assertKind(t, err, apperror.KindInvalidArgument)

		_, err = f.receipts.PrintSaleReceipt(ctx, "00000000-0000-0000-0000-000000000001")
		assertKind(t, err, apperror.KindNotFound)
	})
}

func TestReceiptService_Status(t *testing.T) {
	f := newFixture(t, false)

	status := f.receipts.Status(context.Background())
	assert.Equal(t, "network", status.Kind)
	assert.True(t, status.Ready)
	assert.Equal(t, 32, status.Width)
}

func TestRenderReceipt(t *testing.T) {
	r := &entity.Receipt{
		Shop:     entity.ShopDetails{Name: "Garage"},
		Number:   "INV-1",
		Date:     time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local),
		Customer: "Anil",
		Lines: []entity.ReceiptLine{{
			Description: "Motul 7100 4T 10W-50 fully synthetic motorcycle oil 1L",
			Quantity:    3,
			Price:       decimal.NewFromInt(950),
			Amount:      decimal.NewFromInt(2850),
		}},
		Subtotal: decimal.NewFromInt(2850),
		Tax:      decimal.RequireFromString("513"),
		Total:    decimal.RequireFromString("3363"),
		Paid:     decimal.NewFromInt(3000),
		Due:      decimal.NewFromInt(363),
		Balance:  decimal.NewFromInt(-100),
	}

	out := string(RenderReceipt(r, 32))
	assert.Contains(t, out, "18-10-2026 09:30")
	assert.Contains(t, out, "   @ 950.00")
	assert.Contains(t, out, "Paid")
	assert.Contains(t, out, "Account credit")

	for _, l := range strings.Split(out, "\n") {
		printable := strings.Map(func(r rune) rune {
			if r < 0x20 {
				return -1
			}
			return r
		}, l)
		assert.LessOrEqual(t, len([]rune(printable)), 40, "line %q", l)
	}
	assert.Contains(t, out, "2850.00")
}
