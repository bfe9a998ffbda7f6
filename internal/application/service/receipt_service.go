package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptOptions configures the printed receipt
type ReceiptOptions struct {
	Shop  entity.ShopDetails
	Width int
}

// ReceiptService composes sale receipts and sends them to the counter printer
type ReceiptService struct {
	base
	printer       printer.Printer
	saleRepo      repository.SaleRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
	invoiceRepo   repository.InvoiceRepository
	opts          ReceiptOptions
	now           func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	deps Deps,
	p printer.Printer,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	inventoryRepo repository.InventoryRepository,
	invoiceRepo repository.InvoiceRepository,
	opts ReceiptOptions,
) *ReceiptService {
	if opts.Width <= 0 {
		opts.Width = printer.Width58mm
	}
	return &ReceiptService{
		base:          newBase(deps),
		printer:       p,
		saleRepo:      saleRepo,
		customerRepo:  customerRepo,
		inventoryRepo: inventoryRepo,
		invoiceRepo:   invoiceRepo,
		opts:          opts,
		now:           time.Now,
	}
}

// PrinterStatus describes the configured counter printer
type PrinterStatus struct {
	Kind  string `json:"kind"`
	Ready bool   `json:"ready"`
	Width int    `json:"width"`
}

// Status checks whether the printer can be reached
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return &PrinterStatus{Kind: s.printer.Kind(), Ready: s.printer.Ready(ctx), Width: s.opts.Width}
}

// ReceiptResult carries the composed receipt. Printed is false when the
// printer failed or none is configured, and Warning says why.
type ReceiptResult struct {
	Receipt *entity.Receipt `json:"receipt"`
	Printed bool            `json:"printed"`
	Warning string          `json:"warning,omitempty"`
}

// PrintSaleReceipt prints the receipt of a live sale. A printer failure does
// not fail the call; the receipt is still returned for on-screen display.
func (s *ReceiptService) PrintSaleReceipt(ctx context.Context, rawSaleID string) (*ReceiptResult, error) {
	const op = "printSaleReceipt"

	receipt, err := s.BuildReceipt(ctx, rawSaleID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	result := &ReceiptResult{Receipt: receipt}
	if err := s.printer.Print(ctx, RenderReceipt(receipt, s.opts.Width)); err != nil {
		s.logger.Warn("receipt not printed",
			zap.String("op", op),
			zap.String("receipt", receipt.Number),
			zap.String("printer", s.printer.Kind()),
			zap.Error(err),
		)
		result.Warning = err.Error()
		return result, nil
	}
	result.Printed = true
	return result, nil
}

// BuildReceipt composes the receipt of a sale without printing it
func (s *ReceiptService) BuildReceipt(ctx context.Context, rawSaleID string) (*entity.Receipt, error) {
	saleID, err := idArg("id", rawSaleID)
	if err != nil {
		return nil, err
	}
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.IsDeleted() {
		return nil, apperror.NewFailedPrecondition("sale is deleted")
	}

	receipt := &entity.Receipt{
		Shop:     s.opts.Shop,
		Number:   "S-" + sale.ID.String()[:8],
		Date:     sale.CreatedAt,
		Customer: "Walk-in",
		Subtotal: sale.Subtotal,
		Tax:      sale.Tax,
		Total:    sale.Total,
		Paid:     sale.PaidAmount,
		Due:      sale.Due(),
	}
	if receipt.Date.IsZero() {
		receipt.Date = s.now()
	}

	invoice, err := s.invoiceRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		receipt.Number = invoice.Number
	}

	customer, err := s.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		receipt.Customer = customer.Name
		if customer.Phone != nil {
			receipt.Phone = *customer.Phone
		}
		receipt.Balance = customer.Balance
	}

	ids := make([]uuid.UUID, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		ids = append(ids, l.ItemID)
	}
	items, err := s.inventoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(items))
	for _, it := range items {
		names[it.ID] = describeItem(it)
	}

	for _, l := range sale.Lines {
		desc, ok := names[l.ItemID]
		if !ok {
			desc = "Removed item"
		}
		receipt.Lines = append(receipt.Lines, entity.ReceiptLine{
			Description: desc,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Amount:      l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return receipt, nil
}

func describeItem(it entity.InventoryItem) string {
	volume := fmt.Sprintf("%gml", it.VolumeMl)
	if it.VolumeMl >= 1000 {
		volume = fmt.Sprintf("%gL", it.VolumeMl/1000)
	}
	return it.Brand + " " + it.Name + " " + volume
}

func rupees(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RenderReceipt lays out a receipt as an ESC/POS job for paper of the given width
func RenderReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).Bold(true).Size(printer.SizeDouble).
		Line(r.Shop.Name).
		Size(printer.SizeNormal).Bold(false)
	if r.Shop.Address != "" {
		doc.Line(r.Shop.Address)
	}
	if r.Shop.Phone != "" {
		doc.Line("Ph: " + r.Shop.Phone)
	}
	if r.Shop.GSTNumber != "" {
		doc.Line("GSTIN: " + r.Shop.GSTNumber)
	}

	doc.Align(printer.AlignLeft).Rule('-').
		Columns("Bill:", r.Number).
		Columns("Date:", r.Date.Format("02-01-2006 15:04")).
		Columns("Customer:", r.Customer)
	if r.Phone != "" {
		doc.Columns("Phone:", r.Phone)
	}
	doc.Rule('-')

	for _, l := range r.Lines {
		doc.Columns(fmt.Sprintf("%dx %s", l.Quantity, l.Description), rupees(l.Amount))
		if l.Quantity > 1 {
			doc.Line("   @ " + rupees(l.Price))
		}
	}

	doc.Rule('-').
		Columns("Subtotal", rupees(r.Subtotal)).
		Columns(fmt.Sprintf("GST %s%%", entity.TaxRate.Shift(2).String()), rupees(r.Tax)).
		Bold(true).Columns("TOTAL", rupees(r.Total)).Bold(false)
	if r.Paid.IsPositive() {
		doc.Columns("Paid", rupees(r.Paid))
	}
	if r.Due.IsPositive() {
		doc.Columns("Due", rupees(r.Due))
	}
	if !r.Balance.IsZero() {
		label := "Account balance"
		if r.Balance.IsNegative() {
			label = "Account credit"
		}
		doc.Columns(label, rupees(r.Balance.Abs()))
	}

	doc.Rule('-').Align(printer.AlignCenter).
		Line("Thank you, drive safe!").
		Align(printer.AlignLeft).
		Cut()

	return doc.Bytes()
}
