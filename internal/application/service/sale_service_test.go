package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_AddSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX 20W-50", 10)

	res, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 2, 100)},
	})
	require.NoError(t, err)

	assert.Equal(t, 236.0, res.Total)
	assert.Equal(t, 236.0, res.Due)
	assert.Equal(t, 8, f.quantity(t, itemID))
	assertMoney(t, "236", f.balance(t, customerID))

	sale, err := f.sales.GetSale(ctx, res.SaleID)
	require.NoError(t, err)
	assertMoney(t, "200", sale.Subtotal)
	assertMoney(t, "36", sale.Tax)
	assertMoney(t, "236", sale.Total)
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Equal(t, "user-1", sale.CreatedBy)
	require.Len(t, sale.Lines, 1)

	assert.Contains(t, f.events.collections(), event.CollectionSales)
	assert.Contains(t, f.events.collections(), event.CollectionInventory)
}

func TestSaleService_AddSale_PaidAtCounter(t *testing.T) {
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "Brake fluid", 4)
	paid := 50.0

	res, err := f.sales.AddSale(context.Background(), "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 1, 100)},
		PaidAmount: &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, 118.0, res.Total)
	assert.Equal(t, 68.0, res.Due)
	assertMoney(t, "68", f.balance(t, customerID))
}

func TestSaleService_AddSale_Rejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "Coolant", 3)

	t.Run("invalid payload reports every field", func(t *testing.T) {
		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: "nope",
			Lines:      []SaleLineInput{{ItemID: itemID, Quantity: 0}},
		})
		assertKind(t, err, apperror.KindInvalidArgument)

		appErr := apperror.GetAppError(err)
		fields := map[string]bool{}
		for _, fe := range appErr.Errors {
			fields[fe.Field] = true
		}
		assert.True(t, fields["customerId"])
		assert.True(t, fields["lines[0].quantity"])
		assert.True(t, fields["lines[0].price"])
	})

	t.Run("no lines", func(t *testing.T) {
		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{CustomerID: customerID})
		assertKind(t, err, apperror.KindInvalidArgument)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: uuid.NewString(),
			Lines:      []SaleLineInput{line(itemID, 1, 10)},
		})
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("unknown item rolls back", func(t *testing.T) {
		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, 1, 10), line(uuid.NewString(), 1, 10)},
		})
		assertKind(t, err, apperror.KindNotFound)
		assert.Equal(t, 3, f.quantity(t, itemID))
		assert.True(t, f.balance(t, customerID).IsZero())
	})
}

func TestSaleService_Oversell(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed by default", func(t *testing.T) {
		f := newFixture(t, false)
		customerID := f.addCustomer(t)
		itemID := f.addItem(t, "Gear oil", 1)

		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, 3, 10)},
		})
		require.NoError(t, err)
		assert.Equal(t, -2, f.quantity(t, itemID))
	})

	t.Run("refused with strict stock", func(t *testing.T) {
		f := newFixture(t, true)
		customerID := f.addCustomer(t)
		itemID := f.addItem(t, "Gear oil", 1)

		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, 3, 10)},
		})
		assertKind(t, err, apperror.KindFailedPrecondition)
		assert.Equal(t, 1, f.quantity(t, itemID))
		assert.True(t, f.balance(t, customerID).IsZero())
	})

	t.Run("huge quantities cannot wrap the stock delta", func(t *testing.T) {
		f := newFixture(t, true)
		customerID := f.addCustomer(t)
		itemID := f.addItem(t, "Gear oil", 1)
		huge := math.MaxInt64/3 + 1

		_, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, huge, 0), line(itemID, huge, 0), line(itemID, huge, 0)},
		})
		assertKind(t, err, apperror.KindInvalidArgument)
		assert.Contains(t, err.Error(), "lines[0].quantity: must be at most 10000")
		assert.Equal(t, 1, f.quantity(t, itemID))
		assert.True(t, f.balance(t, customerID).IsZero())
	})
}

func TestSaleService_DeleteSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "GTX 20W-50", 10)

	created, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(itemID, 2, 100)},
	})
	require.NoError(t, err)

	first, err := f.sales.DeleteSale(ctx, "user-1", created.SaleID)
	require.NoError(t, err)
	assert.True(t, first.Deleted)
	assert.False(t, first.Already)

	assert.Equal(t, 10, f.quantity(t, itemID))
	assert.True(t, f.balance(t, customerID).IsZero())

	sale, err := f.sales.GetSale(ctx, created.SaleID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusDeleted, sale.Status)
	assert.NotNil(t, sale.DeletedAt)

	second, err := f.sales.DeleteSale(ctx, "user-1", created.SaleID)
	require.NoError(t, err)
	assert.True(t, second.Already)
	assert.False(t, second.Deleted)
	assert.Equal(t, 10, f.quantity(t, itemID))
	assert.True(t, f.balance(t, customerID).IsZero())

	_, err = f.sales.DeleteSale(ctx, "user-1", uuid.NewString())
	assertKind(t, err, apperror.KindNotFound)

	_, err = f.sales.DeleteSale(ctx, "user-1", "not-an-id")
	assertKind(t, err, apperror.KindInvalidArgument)
}

func TestSaleService_RemovedCustomerOrItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	x := f.addItem(t, "GTX 20W-50", 10)
	z := f.addItem(t, "Coolant", 4)

	first, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(x, 2, 100), line(z, 1, 50)},
	})
	require.NoError(t, err)

	_, err = f.inventory.DeleteInventoryItem(ctx, z)
	require.NoError(t, err)

	t.Run("update skips restoring a removed item", func(t *testing.T) {
		res, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    first.SaleID,
			Lines: []SaleLineInput{line(x, 1, 100)},
		})
		require.NoError(t, err)
		assert.Equal(t, 118.0, res.Total)
		assert.Equal(t, 9, f.quantity(t, x))
		assertMoney(t, "118", f.balance(t, customerID))
	})

	t.Run("update cannot sell a removed item", func(t *testing.T) {
		_, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    first.SaleID,
			Lines: []SaleLineInput{line(z, 1, 50)},
		})
		assertKind(t, err, apperror.KindNotFound)
		assert.Equal(t, 9, f.quantity(t, x))
	})

	other, err := f.customers.AddCustomer(ctx, AddCustomerInput{Name: "Anil"})
	require.NoError(t, err)
	second, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: other.ID,
		Lines:      []SaleLineInput{line(x, 1, 100)},
	})
	require.NoError(t, err)
	_, err = f.customers.DeleteCustomer(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, f.quantity(t, x))

	t.Run("sale of a removed customer can only be deleted", func(t *testing.T) {
		_, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    second.SaleID,
			Lines: []SaleLineInput{line(x, 2, 100)},
		})
		assertKind(t, err, apperror.KindFailedPrecondition)

		res, err := f.sales.DeleteSale(ctx, "user-1", second.SaleID)
		require.NoError(t, err)
		assert.True(t, res.Deleted)
		assert.Equal(t, 9, f.quantity(t, x))
	})

	t.Run("delete skips the removed item", func(t *testing.T) {
		res, err := f.sales.DeleteSale(ctx, "user-1", first.SaleID)
		require.NoError(t, err)
		assert.True(t, res.Deleted)
		assert.Equal(t, 10, f.quantity(t, x))
		assert.True(t, f.balance(t, customerID).IsZero())
	})
}

func TestSaleService_UpdateSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	x := f.addItem(t, "GTX 20W-50", 10)
	y := f.addItem(t, "Brake fluid", 5)

	created, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
		CustomerID: customerID,
		Lines:      []SaleLineInput{line(x, 2, 100)},
	})
	require.NoError(t, err)

	t.Run("same item with a larger quantity", func(t *testing.T) {
		res, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    created.SaleID,
			Lines: []SaleLineInput{line(x, 5, 100)},
		})
		require.NoError(t, err)

		// 5 x 100 = 500, tax 90, total 590
		assert.Equal(t, 590.0, res.Total)
		assert.Equal(t, 354.0, res.Delta)
		assert.Equal(t, 5, f.quantity(t, x))
		assertMoney(t, "590", f.balance(t, customerID))
	})

	t.Run("read back matches a direct sale of the new lines", func(t *testing.T) {
		res, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    created.SaleID,
			Lines: []SaleLineInput{line(y, 1, 50), line(x, 1, 100)},
		})
		require.NoError(t, err)
		assert.Equal(t, 177.0, res.Total)

		sale, err := f.sales.GetSale(ctx, created.SaleID)
		require.NoError(t, err)
		require.Len(t, sale.Lines, 2)
		assert.Equal(t, uuid.MustParse(y), sale.Lines[0].ItemID)
		assert.Equal(t, uuid.MustParse(x), sale.Lines[1].ItemID)
		assertMoney(t, "150", sale.Subtotal)
		assertMoney(t, "27", sale.Tax)
		assertMoney(t, "177", sale.Total)
		assert.Equal(t, 3, sale.Version)

		assert.Equal(t, 9, f.quantity(t, x))
		assert.Equal(t, 4, f.quantity(t, y))
		assertMoney(t, "177", f.balance(t, customerID))
	})

	t.Run("deleted sale cannot be edited", func(t *testing.T) {
		_, err := f.sales.DeleteSale(ctx, "user-1", created.SaleID)
		require.NoError(t, err)

		_, err = f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    created.SaleID,
			Lines: []SaleLineInput{line(x, 1, 100)},
		})
		assertKind(t, err, apperror.KindFailedPrecondition)
		assert.Equal(t, 10, f.quantity(t, x))
		assert.Equal(t, 5, f.quantity(t, y))
	})

	t.Run("unknown sale", func(t *testing.T) {
		_, err := f.sales.UpdateSale(ctx, "user-1", UpdateSaleInput{
			ID:    uuid.NewString(),
			Lines: []SaleLineInput{line(x, 1, 100)},
		})
		assertKind(t, err, apperror.KindNotFound)
	})
}

func TestSaleService_ListSales(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	customerID := f.addCustomer(t)
	itemID := f.addItem(t, "Coolant", 50)

	var ids []string
	for i := 0; i < 3; i++ {
		res, err := f.sales.AddSale(ctx, "user-1", CreateSaleInput{
			CustomerID: customerID,
			Lines:      []SaleLineInput{line(itemID, 1, 10)},
		})
		require.NoError(t, err)
		ids = append(ids, res.SaleID)
	}
	_, err := f.sales.DeleteSale(ctx, "user-1", ids[0])
	require.NoError(t, err)

	params := &pagination.PaginationParams{Page: 1, PerPage: 10}
	completed, err := f.sales.ListSales(ctx, params, SaleFilter{CustomerID: customerID, Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, completed.Items, 2)
	assert.Equal(t, int64(2), completed.Pagination.Total)

	_, err = f.sales.ListSales(ctx, params, SaleFilter{Status: "pending"})
	assertKind(t, err, apperror.KindInvalidArgument)

	cursor := &pagination.CursorParams{Limit: 2}
	page, err := f.sales.ListSalesWithCursor(ctx, cursor, SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Pagination.HasNext)

	_, err = f.sales.ListSalesWithCursor(ctx, &pagination.CursorParams{Cursor: "%%%", Limit: 2}, SaleFilter{})
	assertKind(t, err, apperror.KindInvalidArgument)
}
