package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_QuantityDeltasNetOut(t *testing.T) {
	x, y, z := uuid.New(), uuid.New(), uuid.New()
	b := NewBatch()

	// restore old lines, then apply new ones
	b.AdjustQuantity(x, 2)
	b.AdjustQuantity(y, 1)
	b.AdjustQuantity(x, -5)
	b.AdjustQuantity(y, -1)
	b.AdjustQuantity(z, -4)

	deltas := b.QuantityDeltas()
	require.Len(t, deltas, 2)

	got := map[uuid.UUID]int{}
	for _, d := range deltas {
		got[d.ItemID] = d.Delta
	}
	assert.Equal(t, -3, got[x])
	assert.Equal(t, -4, got[z])
	assert.NotContains(t, got, y)
}

func TestBatch_DeltasAreSorted(t *testing.T) {
	b := NewBatch()
	for i := 0; i < 20; i++ {
		b.AdjustQuantity(uuid.New(), -1)
		b.AdjustBalance(uuid.New(), decimal.NewFromInt(1))
	}

	q := b.QuantityDeltas()
	for i := 1; i < len(q); i++ {
		assert.Less(t, q[i-1].ItemID.String(), q[i].ItemID.String())
	}
	bal := b.BalanceDeltas()
	for i := 1; i < len(bal); i++ {
		assert.Less(t, bal[i-1].CustomerID.String(), bal[i].CustomerID.String())
	}
}

func TestBatch_IsEmpty(t *testing.T) {
	c := uuid.New()
	b := NewBatch()
	assert.True(t, b.IsEmpty())

	b.AdjustBalance(c, decimal.NewFromInt(10))
	b.AdjustBalance(c, decimal.NewFromInt(-10))
	assert.True(t, b.IsEmpty())

	b.AdjustBalance(c, decimal.RequireFromString("0.01"))
	assert.False(t, b.IsEmpty())
	assert.False(t, b.StockRequired())
	b.RequireStock()
	assert.True(t, b.StockRequired())
}

func TestBatch_RestoresMayTargetMissingRows(t *testing.T) {
	gone, kept, c := uuid.New(), uuid.New(), uuid.New()
	b := NewBatch()

	b.RestoreQuantity(gone, 2)
	b.RestoreQuantity(kept, 2)
	b.AdjustQuantity(kept, -1)
	b.RestoreBalance(c, decimal.NewFromInt(-50))

	flags := map[uuid.UUID]bool{}
	for _, d := range b.QuantityDeltas() {
		flags[d.ItemID] = d.SkipMissing
	}
	assert.True(t, flags[gone])
	assert.False(t, flags[kept])

	bal := b.BalanceDeltas()
	require.Len(t, bal, 1)
	assert.True(t, bal[0].SkipMissing)

	b.AdjustBalance(c, decimal.NewFromInt(10))
	assert.False(t, b.BalanceDeltas()[0].SkipMissing)
}
