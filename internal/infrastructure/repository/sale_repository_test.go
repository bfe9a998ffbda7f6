package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/testutil"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleRepository_ListAndCursor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()
	ravi := seedCustomer(t, db, "0")
	anita := seedCustomer(t, db, "0")
	item := seedItem(t, db, "GTX", 50)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.Local)
	var sales []*entity.Sale
	for i := 0; i < 5; i++ {
		customer := ravi
		if i%2 == 1 {
			customer = anita
		}
		sale := newSale(customer.ID, item.ID, i+1, "100")
		sale.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		b := domainRepo.NewBatch()
		b.CreateSale(sale)
		require.NoError(t, NewStore(db).Commit(ctx, b))
		sales = append(sales, sale)
	}

	b := domainRepo.NewBatch()
	b.DeleteSale(sales[4])
	require.NoError(t, NewStore(db).Commit(ctx, b))

	t.Run("filters by customer newest first", func(t *testing.T) {
		got, total, err := repo.List(ctx, &domainRepo.SaleFilterParams{
			Pagination: &pagination.PaginationParams{},
			CustomerID: &ravi.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, sales[4].ID, got[0].ID)
		assert.Len(t, got[0].Lines, 1)
	})

	t.Run("filters by status and date", func(t *testing.T) {
		start := base.Add(time.Hour)
		got, total, err := repo.List(ctx, &domainRepo.SaleFilterParams{
			Pagination: &pagination.PaginationParams{},
			Status:     enum.SaleStatusCompleted,
			StartDate:  &start,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, s := range got {
			assert.Equal(t, enum.SaleStatusCompleted, s.Status)
		}
	})

	t.Run("cursor walks every sale once", func(t *testing.T) {
		params := &pagination.CursorParams{Limit: 2}
		var seen []string
		for {
			page, err := repo.ListWithCursor(ctx, &domainRepo.SaleCursorFilterParams{Cursor: params})
			require.NoError(t, err)
			result := pagination.NewCursorPaginatedResult(page, params.Limit, func(s entity.Sale) (string, time.Time) {
				return s.ID.String(), s.CreatedAt
			})
			for _, s := range result.Items {
				seen = append(seen, s.ID.String())
			}
			if !result.Pagination.HasNext {
				break
			}
			params = &pagination.CursorParams{Limit: 2, Cursor: *result.Pagination.NextCursor}
		}

		require.Len(t, seen, 5)
		assert.Equal(t, sales[4].ID.String(), seen[0])
		assert.Equal(t, sales[0].ID.String(), seen[4])
	})
}
