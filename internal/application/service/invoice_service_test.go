package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInvoiceService_IssueInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX", 10)

	sale, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 2, 100)},
	})
	require.NoError(t, err)

	invoice, err := f.invoices.IssueInvoice(ctx, "user-1", sale.SaleID)
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, invoice.Number)
	assertMoney(t, "236", invoice.Total)
	assertMoney(t, "36", invoice.Tax)
	assert.Equal(t, 8, f.quantity(t, itemID))

	again, err := f.invoices.IssueInvoice(ctx, "user-1", sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, again.ID)

	got, err := f.invoices.GetInvoice(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoice.Number, got.Number)

	list, err := f.invoices.ListInvoices(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = f.invoices.IssueInvoice(ctx, "user-1", uuid.NewString())
	assertKind(t, err, apperror.KindNotFound)
}

func TestInvoiceService_DeletedSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX", 10)

	sale, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 1, 100)},
	})
	require.NoError(t, err)
	_, err = f.sales.DeleteSale(ctx, "user-1", sale.SaleID)
	require.NoError(t, err)

	_, err = f.invoices.IssueInvoice(ctx, "user-1", sale.SaleID)
	assertKind(t, err, apperror.KindFailedPrecondition)
}

func TestInvoiceService_ExportInvoices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX", 10)

	for i := 0; i < 2; i++ {
		sale, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, 1, 100)},
		})
		require.NoError(t, err)
		_, err = f.invoices.IssueInvoice(ctx, "user-1", sale.SaleID)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, f.invoices.ExportInvoices(ctx, time.Now().Format("2006-01"), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Invoices")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	buf.Reset()
	require.NoError(t, f.invoices.ExportInvoices(ctx, "", &buf))

	err = f.invoices.ExportInvoices(ctx, "March", &buf)
	assertKind(t, err, apperror.KindInvalidArgument)
}

func TestMonthRange(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.Local)

	from, to, err := monthRange("2026-02", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), from)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), to)

	from, to, err = monthRange("all", now)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.After(now))
}
