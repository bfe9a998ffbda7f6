package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadInventory(t *testing.T) {
	buf := workbook(t,
		[]any{"Brand", "Name", "Volume (ml)", "Qty", "Purchase Price", "Selling Price"},
		[]any{"Castrol", "GTX 20W-50", 1000, 12, 310, 420},
		[]any{"Shell", "Helix HX7", "3.5L", 2.5, "", ""},
	)

	rows, err := ReadInventory(buf, 100)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Castrol", first.Brand)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 12, *first.Quantity)
	require.NotNil(t, first.SellingPrice)
	assert.Equal(t, 420.0, *first.SellingPrice)
	assert.Empty(t, first.Problems)

	second := rows[1]
	assert.Equal(t, 3, second.Line)
	assert.Nil(t, second.VolumeMl)
	assert.Nil(t, second.Quantity)
	assert.Nil(t, second.PurchasePrice)
	assert.Len(t, second.Problems, 2)
}

func TestReadInventory_Limits(t *testing.T) {
	_, err := ReadInventory(workbook(t, []any{"Brand", "Name"}), 10)
	assert.ErrorIs(t, err, ErrEmptyWorkbook)

	_, err = ReadInventory(workbook(t, []any{"Brand", "Volume"}, []any{"Castrol", 1000}), 10)
	assert.ErrorContains(t, err, `missing "name" column`)

	_, err = ReadInventory(workbook(t,
		[]any{"Brand", "Name"},
		[]any{"A", "one"},
		[]any{"B", "two"},
	), 1)
	assert.ErrorContains(t, err, "more than 1 rows")
}

func TestWriteInventory_RoundTrip(t *testing.T) {
	price := decimal.RequireFromString("420.5")
	items := []entity.InventoryItem{
		{Brand: "Castrol", Name: "GTX", VolumeMl: 1000, Quantity: 7, SellingPrice: &price, UpdatedAt: time.Now()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, items))

	rows, err := ReadInventory(&buf, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GTX", rows[0].Name)
	assert.Equal(t, 7, *rows[0].Quantity)
	assert.Equal(t, 420.5, *rows[0].SellingPrice)
	assert.Nil(t, rows[0].PurchasePrice)
}

func TestWriteInvoices(t *testing.T) {
	invoices := []entity.Invoice{{
		Number:     "INV-20260301-0001",
		SaleID:     uuid.New(),
		CustomerID: uuid.New(),
		Subtotal:   decimal.NewFromInt(200),
		Tax:        decimal.NewFromInt(36),
		Total:      decimal.NewFromInt(236),
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteInvoices(&buf, invoices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(InvoiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-20260301-0001", rows[1][0])
	assert.Equal(t, "236", rows[1][6])
}
