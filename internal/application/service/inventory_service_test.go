package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestInventoryService_AddInventoryItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	tests := []struct {
		name   string
		input  InventoryItemInput
		fields []string
	}{
		{
			name:   "missing everything",
			input:  InventoryItemInput{Brand: "  "},
			fields: []string{"brand", "name", "volumeMl", "quantity"},
		},
		{
			name: "negative quantity",
			input: InventoryItemInput{
				Brand: "Shell", Name: "Helix", VolumeMl: 500, Quantity: intPtr(-1),
			},
			fields: []string{"quantity"},
		},
		{
			name: "quantity too large",
			input: InventoryItemInput{
				Brand: "Shell", Name: "Helix", VolumeMl: 500, Quantity: intPtr(1_000_001),
			},
			fields: []string{"quantity"},
		},
		{
			name: "selling below purchase",
			input: InventoryItemInput{
				Brand: "Shell", Name: "Helix", VolumeMl: 500, Quantity: intPtr(1),
				PurchasePrice: floatPtr(300), SellingPrice: floatPtr(250),
			},
			fields: []string{"sellingPrice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.inventory.AddInventoryItem(ctx, tt.input)
			assertKind(t, err, apperror.KindInvalidArgument)

			var got []string
			for _, fe := range apperror.GetAppError(err).Errors {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}

	res, err := f.inventory.AddInventoryItem(ctx, InventoryItemInput{
		Brand: " Shell ", Name: "Helix HX7", VolumeMl: 1000, Quantity: intPtr(0),
		PurchasePrice: floatPtr(300), SellingPrice: floatPtr(300),
	})
	require.NoError(t, err)

	item, err := f.inventory.GetInventoryItem(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shell", item.Brand)
	assert.Equal(t, 0, item.Quantity)
}

func TestInventoryService_UpdateInventoryItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	id := f.addItem(t, "GTX", 4)

	_, err := f.inventory.UpdateInventoryItem(ctx, UpdateInventoryItemInput{ID: id})
	assertKind(t, err, apperror.KindFailedPrecondition)

	_, err = f.inventory.UpdateInventoryItem(ctx, UpdateInventoryItemInput{ID: uuid.NewString(), Name: strPtr("x")})
	assertKind(t, err, apperror.KindNotFound)

	_, err = f.inventory.UpdateInventoryItem(ctx, UpdateInventoryItemInput{ID: id, PurchasePrice: floatPtr(100)})
	require.NoError(t, err)

	// merged with the stored purchase price
	_, err = f.inventory.UpdateInventoryItem(ctx, UpdateInventoryItemInput{ID: id, SellingPrice: floatPtr(90)})
	assertKind(t, err, apperror.KindInvalidArgument)

	_, err = f.inventory.UpdateInventoryItem(ctx, UpdateInventoryItemInput{ID: id, Name: strPtr(" GTX Magnatec "), Quantity: intPtr(12)})
	require.NoError(t, err)

	item, err := f.inventory.GetInventoryItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "GTX Magnatec", item.Name)
	assert.Equal(t, 12, item.Quantity)
	require.NotNil(t, item.PurchasePrice)
	assert.Nil(t, item.SellingPrice)
}

func TestInventoryService_DeleteInventoryItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	id := f.addItem(t, "GTX", 4)

	res, err := f.inventory.DeleteInventoryItem(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, err = f.inventory.DeleteInventoryItem(ctx, id)
	assertKind(t, err, apperror.KindNotFound)
}

func TestInventoryService_AdjustInventoryQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	id := f.addItem(t, "GTX", 3)

	tests := []struct {
		name     string
		id       string
		delta    int
		kind     apperror.Kind
		quantity int
	}{
		{name: "zero delta", id: id, delta: 0, kind: apperror.KindInvalidArgument, quantity: 3},
		{name: "too large", id: id, delta: 501, kind: apperror.KindInvalidArgument, quantity: 3},
		{name: "too small", id: id, delta: -501, kind: apperror.KindInvalidArgument, quantity: 3},
		{name: "below zero", id: id, delta: -4, kind: apperror.KindFailedPrecondition, quantity: 3},
		{name: "unknown item", id: uuid.NewString(), delta: 1, kind: apperror.KindNotFound, quantity: 3},
		{name: "down to zero", id: id, delta: -3, quantity: 0},
		{name: "upper bound", id: id, delta: 500, quantity: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.inventory.AdjustInventoryQuantity(ctx, AdjustQuantityInput{ID: tt.id, Delta: tt.delta})
			if tt.kind != "" {
				assertKind(t, err, tt.kind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.quantity, res.Quantity)
			}
			assert.Equal(t, tt.quantity, f.quantity(t, id))
		})
	}
}

func TestInventoryService_BulkImportInventory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	rows := []ImportRow{
		{Item: InventoryItemInput{Brand: "Shell", Name: "Helix", VolumeMl: 1000, Quantity: intPtr(4)}},
		{Item: InventoryItemInput{Brand: "Shell", VolumeMl: 1000, Quantity: intPtr(4)}},
		{Problems: []string{"quantity: must be a number"}},
		{Item: InventoryItemInput{Brand: "Motul", Name: "7100", VolumeMl: 1000, Quantity: intPtr(2)}},
	}

	res, err := f.inventory.BulkImportInventory(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)

	assert.Equal(t, "ok", res.Results[0].Status)
	assert.Equal(t, "error", res.Results[1].Status)
	assert.Contains(t, res.Results[1].Error, "name: is required")
	assert.Equal(t, "quantity: must be a number", res.Results[2].Error)
	assert.Equal(t, 3, res.Results[3].Index)
	assert.Equal(t, 2, f.quantity(t, res.Results[3].ID))

	var count int64
	require.NoError(t, f.db.Model(&entity.InventoryItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = f.inventory.BulkImportInventory(ctx, make([]ImportRow, 11))
	assertKind(t, err, apperror.KindInvalidArgument)

	empty, err := f.inventory.BulkImportInventory(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
}

func TestInventoryService_ExportThenImport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.addItem(t, "GTX", 3)
	f.addItem(t, "Magnatec", 7)

	var buf bytes.Buffer
	require.NoError(t, f.inventory.ExportInventory(ctx, &buf))

	res, err := f.inventory.ImportInventoryFile(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	list, err := f.inventory.ListInventory(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "magna", false)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = f.inventory.ImportInventoryFile(ctx, bytes.NewReader([]byte("not a workbook")))
	assertKind(t, err, apperror.KindInvalidArgument)
}
