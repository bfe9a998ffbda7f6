package repository

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Store commits a Batch atomically: every write in it is applied or none is.
type Store interface {
	Commit(ctx context.Context, b *Batch) error
}

// QuantityDelta is a relative change to an item's stock. With SkipMissing the
// change is dropped when the item no longer exists.
type QuantityDelta struct {
	ItemID      uuid.UUID
	Delta       int
	SkipMissing bool
}

// BalanceDelta is a relative change to a customer's balance. With SkipMissing
// the change is dropped when the customer no longer exists.
type BalanceDelta struct {
	CustomerID  uuid.UUID
	Delta       decimal.Decimal
	SkipMissing bool
}

// Batch collects writes without reading current values. Quantity and balance
// changes are deltas that the store applies relative to the committed value,
// so concurrent batches on the same row accumulate instead of overwriting.
// Deltas on the same row net out before they are applied.
type Batch struct {
	quantities   map[uuid.UUID]int
	balances     map[uuid.UUID]decimal.Decimal
	requireStock bool

	// rows that must exist; rows only touched by restores may be gone
	mustItems     map[uuid.UUID]bool
	mustCustomers map[uuid.UUID]bool

	items        []*entity.InventoryItem
	newSales     []*entity.Sale
	savedSales   []*entity.Sale
	deletedSales []*entity.Sale
	payments     []*entity.Payment
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{
		quantities:    make(map[uuid.UUID]int),
		balances:      make(map[uuid.UUID]decimal.Decimal),
		mustItems:     make(map[uuid.UUID]bool),
		mustCustomers: make(map[uuid.UUID]bool),
	}
}

// AdjustQuantity adds delta to an item's stock at commit time. The commit
// fails with ErrNotFound if the item does not exist.
func (b *Batch) AdjustQuantity(itemID uuid.UUID, delta int) {
	b.mustItems[itemID] = true
	b.quantities[itemID] += delta
}

// RestoreQuantity puts stock back on an item. It is skipped if the item was
// removed, unless the same batch also adjusts it.
func (b *Batch) RestoreQuantity(itemID uuid.UUID, delta int) {
	b.quantities[itemID] += delta
}

// AdjustBalance adds delta to a customer's balance at commit time. The commit
// fails with ErrNotFound if the customer does not exist.
func (b *Batch) AdjustBalance(customerID uuid.UUID, delta decimal.Decimal) {
	b.mustCustomers[customerID] = true
	b.addBalance(customerID, delta)
}

// RestoreBalance reverses an earlier balance change. It is skipped if the
// customer was removed, unless the same batch also adjusts it.
func (b *Batch) RestoreBalance(customerID uuid.UUID, delta decimal.Decimal) {
	b.addBalance(customerID, delta)
}

func (b *Batch) addBalance(customerID uuid.UUID, delta decimal.Decimal) {
	cur, ok := b.balances[customerID]
	if !ok {
		cur = decimal.Zero
	}
	b.balances[customerID] = cur.Add(delta)
}

// RequireStock makes every net decrement conditional on enough stock
func (b *Batch) RequireStock() {
	b.requireStock = true
}

// CreateItem inserts a new inventory item
func (b *Batch) CreateItem(item *entity.InventoryItem) {
	b.items = append(b.items, item)
}

// CreateSale inserts a sale with its lines
func (b *Batch) CreateSale(sale *entity.Sale) {
	b.newSales = append(b.newSales, sale)
}

// SaveSale overwrites a sale's lines, totals and notes. It only applies if the
// stored version still equals sale.Version and the sale is completed.
func (b *Batch) SaveSale(sale *entity.Sale) {
	b.savedSales = append(b.savedSales, sale)
}

// DeleteSale tombstones a sale under the same version guard as SaveSale
func (b *Batch) DeleteSale(sale *entity.Sale) {
	b.deletedSales = append(b.deletedSales, sale)
}

// CreatePayment inserts a payment
func (b *Batch) CreatePayment(p *entity.Payment) {
	b.payments = append(b.payments, p)
}

// QuantityDeltas returns non-zero net item deltas ordered by item id, so
// concurrent batches lock rows in the same order.
func (b *Batch) QuantityDeltas() []QuantityDelta {
	out := make([]QuantityDelta, 0, len(b.quantities))
	for id, d := range b.quantities {
		if d != 0 {
			out = append(out, QuantityDelta{ItemID: id, Delta: d, SkipMissing: !b.mustItems[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ItemID[:], out[j].ItemID[:]) < 0 })
	return out
}

// BalanceDeltas returns non-zero net balance deltas ordered by customer id
func (b *Batch) BalanceDeltas() []BalanceDelta {
	out := make([]BalanceDelta, 0, len(b.balances))
	for id, d := range b.balances {
		if !d.IsZero() {
			out = append(out, BalanceDelta{CustomerID: id, Delta: d, SkipMissing: !b.mustCustomers[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].CustomerID[:], out[j].CustomerID[:]) < 0 })
	return out
}

func (b *Batch) StockRequired() bool { return b.requireStock }
func (b *Batch) Items() []*entity.InventoryItem { return b.items }
func (b *Batch) NewSales() []*entity.Sale { return b.newSales }
func (b *Batch) SavedSales() []*entity.Sale { return b.savedSales }
func (b *Batch) DeletedSales() []*entity.Sale { return b.deletedSales }
func (b *Batch) Payments() []*entity.Payment { return b.payments }

// IsEmpty reports whether committing the batch would write nothing
func (b *Batch) IsEmpty() bool {
	return len(b.QuantityDeltas()) == 0 && len(b.BalanceDeltas()) == 0 &&
		len(b.items) == 0 && len(b.newSales) == 0 && len(b.savedSales) == 0 &&
		len(b.deletedSales) == 0 && len(b.payments) == 0
}
