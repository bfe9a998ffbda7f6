package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	infraRepo "github.com/sangkips/garage-pos-api/internal/infrastructure/repository"
	"github.com/sangkips/garage-pos-api/internal/testutil"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []event.Change
}

func (p *recordingPublisher) Publish(_ context.Context, c event.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return nil
}

func (p *recordingPublisher) collections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, c.Collection)
	}
	return out
}

type fakePrinter struct {
	jobs [][]byte
	err  error
}

func (p *fakePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *fakePrinter) Ready(context.Context) bool { return p.err == nil }
func (p *fakePrinter) Kind() string                { return "network" }

type fixture struct {
	db        *gorm.DB
	events    *recordingPublisher
	customers *CustomerService
	inventory *InventoryService
	sales     *SaleService
	payments  *PaymentService
	invoices  *InvoiceService
	reports   *ReportService
	dashboard *DashboardService
	receipts  *ReceiptService
	printer   *fakePrinter
}

func newFixture(t *testing.T, strictStock bool) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	events := &recordingPublisher{}
	deps := Deps{Publisher: events}

	customerRepo := infraRepo.NewCustomerRepository(db)
	inventoryRepo := infraRepo.NewInventoryRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	reportRepo := infraRepo.NewReportRepository(db)
	store := infraRepo.NewStore(db)
	counter := &fakePrinter{}

	return &fixture{
		db:        db,
		events:    events,
		customers: NewCustomerService(deps, customerRepo, saleRepo, paymentRepo),
		inventory: NewInventoryService(deps, inventoryRepo, store, InventoryOptions{LowStockThreshold: 5, ImportMaxRows: 10}),
		sales:     NewSaleService(deps, saleRepo, customerRepo, store, strictStock),
		payments:  NewPaymentService(deps, customerRepo, store),
		invoices:  NewInvoiceService(deps, invoiceRepo, saleRepo),
		reports:   NewReportService(deps, reportRepo),
		dashboard: NewDashboardService(deps, reportRepo, 5),
		receipts: NewReceiptService(deps, counter, saleRepo, customerRepo, inventoryRepo, invoiceRepo, ReceiptOptions{
			Shop: entity.ShopDetails{Name: "Sri Ganesh Garage", GSTNumber: "29ABCDE1234F1Z5"},
		}),
		printer: counter,
	}
}

func (f *fixture) addCustomer(t *testing.T) string {
	t.Helper()
	res, err := f.customers.AddCustomer(context.Background(), AddCustomerInput{Name: "Ravi Motors"})
	require.NoError(t, err)
	return res.ID
}

func (f *fixture) addItem(t *testing.T, name string, qty int) string {
	t.Helper()
	res, err := f.inventory.AddInventoryItem(context.Background(), InventoryItemInput{
		Brand:    "Castrol",
		Name:     name,
		VolumeMl: 1000,
		Quantity: &qty,
	})
	require.NoError(t, err)
	return res.ID
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	var item entity.InventoryItem
	require.NoError(t, f.db.First(&item, "id = ?", uuid.MustParse(id)).Error)
	return item.Quantity
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	var c entity.Customer
	require.NoError(t, f.db.First(&c, "id = ?", uuid.MustParse(id)).Error)
	return c.Balance
}

func line(itemID string, qty int, price float64) SaleLineInput {
	return SaleLineInput{ItemID: itemID, Quantity: qty, Price: &price}
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), err.Error())
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
