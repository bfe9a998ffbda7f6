package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/application/validation"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/spreadsheet"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// InventoryOptions holds the inventory settings taken from configuration
type InventoryOptions struct {
	LowStockThreshold int
	ImportMaxRows     int
}

// InventoryService handles inventory-related operations
type InventoryService struct {
	base
	inventoryRepo repository.InventoryRepository
	store         repository.Store
	opts          InventoryOptions
}

// NewInventoryService creates a new inventory service
func NewInventoryService(deps Deps, inventoryRepo repository.InventoryRepository, store repository.Store, opts InventoryOptions) *InventoryService {
	if opts.ImportMaxRows <= 0 {
		opts.ImportMaxRows = 1000
	}
	return &InventoryService{
		base:          newBase(deps),
		inventoryRepo: inventoryRepo,
		store:         store,
		opts:          opts,
	}
}

// InventoryItemInput represents a new inventory item
type InventoryItemInput struct {
	Brand         string   `json:"brand" validate:"notblank,max=120"`
	Name          string   `json:"name" validate:"notblank,max=255"`
	VolumeMl      float64  `json:"volumeMl" validate:"gt=0"`
	Quantity      *int     `json:"quantity" validate:"required,gte=0,max=1000000"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"omitnil,gte=0"`
	SellingPrice  *float64 `json:"sellingPrice" validate:"omitnil,gte=0"`
}

// Rules checks that an item is not priced below cost
func (in InventoryItemInput) Rules() []apperror.FieldError {
	return priceRules(in.PurchasePrice, in.SellingPrice)
}

func priceRules(purchase, selling *float64) []apperror.FieldError {
	if purchase != nil && selling != nil && *selling < *purchase {
		return []apperror.FieldError{{Field: "sellingPrice", Message: "must be greater than or equal to purchasePrice"}}
	}
	return nil
}

func (in *InventoryItemInput) normalize() {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Name = strings.TrimSpace(in.Name)
}

func (in InventoryItemInput) toEntity() *entity.InventoryItem {
	return &entity.InventoryItem{
		Brand:         in.Brand,
		Name:          in.Name,
		VolumeMl:      in.VolumeMl,
		Quantity:      *in.Quantity,
		PurchasePrice: optionalMoney(in.PurchasePrice),
		SellingPrice:  optionalMoney(in.SellingPrice),
	}
}

// AddInventoryItem creates an inventory item
func (s *InventoryService) AddInventoryItem(ctx context.Context, input InventoryItemInput) (*IDResult, error) {
	const op = "addInventoryItem"

	input.normalize()
	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	item := input.toEntity()
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.notify(ctx, event.CollectionInventory, event.OpCreated, item.ID)
	return &IDResult{ID: item.ID.String()}, nil
}

// UpdateInventoryItemInput represents a partial item update
type UpdateInventoryItemInput struct {
	ID            string   `json:"id" validate:"required,uuid"`
	Brand         *string  `json:"brand" validate:"omitnil,notblank,max=120"`
	Name          *string  `json:"name" validate:"omitnil,notblank,max=255"`
	VolumeMl      *float64 `json:"volumeMl" validate:"omitnil,gt=0"`
	Quantity      *int     `json:"quantity" validate:"omitnil,gte=0,max=1000000"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"omitnil,gte=0"`
	SellingPrice  *float64 `json:"sellingPrice" validate:"omitnil,gte=0"`
}

func (in UpdateInventoryItemInput) isEmpty() bool {
	return in.Brand == nil && in.Name == nil && in.VolumeMl == nil && in.Quantity == nil &&
		in.PurchasePrice == nil && in.SellingPrice == nil
}

// UpdateInventoryItem applies the fields present in input. An update without
// fields is refused.
func (s *InventoryService) UpdateInventoryItem(ctx context.Context, input UpdateInventoryItemInput) (*IDResult, error) {
	const op = "updateInventoryItem"

	trimPtr(input.Brand)
	trimPtr(input.Name)
	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if input.isEmpty() {
		return nil, s.fail(ctx, op, apperror.NewFailedPrecondition("no fields to update"))
	}

	item, err := s.inventoryRepo.GetByID(ctx, parseID(input.ID))
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if item == nil {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Inventory item"))
	}

	if input.Brand != nil {
		item.Brand = *input.Brand
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.VolumeMl != nil {
		item.VolumeMl = *input.VolumeMl
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.PurchasePrice != nil {
		item.PurchasePrice = optionalMoney(input.PurchasePrice)
	}
	if input.SellingPrice != nil {
		item.SellingPrice = optionalMoney(input.SellingPrice)
	}
	if item.PurchasePrice != nil && item.SellingPrice != nil && item.SellingPrice.LessThan(*item.PurchasePrice) {
		return nil, s.fail(ctx, op, apperror.NewInvalidArgument(priceRules(
			floatPtr(item.PurchasePrice.InexactFloat64()), floatPtr(item.SellingPrice.InexactFloat64()),
		)))
	}

	if err := s.inventoryRepo.Update(ctx, item, input.Quantity != nil); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.notify(ctx, event.CollectionInventory, event.OpUpdated, item.ID)
	return &IDResult{ID: item.ID.String()}, nil
}

// DeleteResult reports a tombstoned or removed record
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted,omitempty"`
	Already bool   `json:"already,omitempty"`
}

// DeleteInventoryItem removes the item row
func (s *InventoryService) DeleteInventoryItem(ctx context.Context, rawID string) (*DeleteResult, error) {
	const op = "deleteInventoryItem"

	id, err := idArg("id", rawID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	existed, err := s.inventoryRepo.Delete(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if !existed {
		return nil, s.fail(ctx, op, apperror.NewNotFoundError("Inventory item"))
	}

	s.notify(ctx, event.CollectionInventory, event.OpDeleted, id)
	return &DeleteResult{ID: id.String(), Deleted: true}, nil
}

// ImportRow is one payload of a bulk import. Problems found while decoding
// the payload fail the row before validation runs.
type ImportRow struct {
	Item     InventoryItemInput
	Problems []string
}

// ImportRowResult is the outcome of one bulk import row
type ImportRowResult struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BulkImportResult reports every row, in input order
type BulkImportResult struct {
	Count   int               `json:"count"`
	Results []ImportRowResult `json:"results"`
}

// BulkImportInventory validates each row on its own and commits all valid
// rows in one batch. Invalid rows are reported and skipped.
func (s *InventoryService) BulkImportInventory(ctx context.Context, rows []ImportRow) (*BulkImportResult, error) {
	const op = "bulkImportInventory"

	if len(rows) > s.opts.ImportMaxRows {
		return nil, s.fail(ctx, op, apperror.NewBadRequestError("too many rows"))
	}

	batch := repository.NewBatch()
	results := make([]ImportRowResult, 0, len(rows))
	var created []*entity.InventoryItem

	for i, row := range rows {
		problems := append([]string(nil), row.Problems...)
		if len(problems) == 0 {
			row.Item.normalize()
			res := validation.Check(row.Item)
			for _, fe := range res.Errors() {
				problems = append(problems, fe.String())
			}
		}
		if len(problems) > 0 {
			results = append(results, ImportRowResult{Index: i, Status: "error", Error: strings.Join(problems, "; ")})
			continue
		}

		item := row.Item.toEntity()
		item.ID = uuid.New()
		batch.CreateItem(item)
		created = append(created, item)
		results = append(results, ImportRowResult{Index: i, Status: "ok", ID: item.ID.String()})
	}

	if err := s.store.Commit(ctx, batch); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	for _, item := range created {
		s.notify(ctx, event.CollectionInventory, event.OpCreated, item.ID)
	}
	return &BulkImportResult{Count: len(results), Results: results}, nil
}

// ImportInventoryFile reads an xlsx workbook and bulk imports its rows
func (s *InventoryService) ImportInventoryFile(ctx context.Context, r io.Reader) (*BulkImportResult, error) {
	sheetRows, err := spreadsheet.ReadInventory(r, s.opts.ImportMaxRows)
	if err != nil {
		return nil, s.fail(ctx, "importInventoryFile", apperror.NewBadRequestError(err.Error()))
	}

	rows := make([]ImportRow, 0, len(sheetRows))
	for _, sr := range sheetRows {
		row := ImportRow{
			Item: InventoryItemInput{
				Brand:         sr.Brand,
				Name:          sr.Name,
				Quantity:      sr.Quantity,
				PurchasePrice: sr.PurchasePrice,
				SellingPrice:  sr.SellingPrice,
			},
			Problems: sr.Problems,
		}
		if sr.VolumeMl != nil {
			row.Item.VolumeMl = *sr.VolumeMl
		}
		rows = append(rows, row)
	}
	return s.BulkImportInventory(ctx, rows)
}

// AdjustQuantityInput represents a stock correction
type AdjustQuantityInput struct {
	ID    string `json:"id" validate:"required,uuid"`
	Delta int    `json:"delta" validate:"ne=0,min=-500,max=500"`
}

// QuantityResult reports the quantity after an adjustment
type QuantityResult struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// AdjustInventoryQuantity adds delta to the stored quantity. The result may not go below zero.
func (s *InventoryService) AdjustInventoryQuantity(ctx context.Context, input AdjustQuantityInput) (*QuantityResult, error) {
	const op = "adjustInventoryQuantity"

	if err := validation.Check(input).Err(); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	id := parseID(input.ID)
	quantity, err := s.inventoryRepo.AdjustQuantity(ctx, id, input.Delta)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.notify(ctx, event.CollectionInventory, event.OpAdjusted, id)
	return &QuantityResult{ID: id.String(), Quantity: quantity}, nil
}

// GetInventoryItem retrieves an item by ID
func (s *InventoryService) GetInventoryItem(ctx context.Context, rawID string) (*entity.InventoryItem, error) {
	id, err := idArg("id", rawID)
	if err != nil {
		return nil, err
	}
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "getInventoryItem", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// ListInventory lists items ordered by name. lowStock keeps items at or below the threshold.
func (s *InventoryService) ListInventory(ctx context.Context, params *pagination.PaginationParams, search string, lowStock bool) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	items, total, err := s.inventoryRepo.List(ctx, &repository.InventoryFilterParams{
		Pagination:        params,
		Search:            search,
		LowStock:          lowStock,
		LowStockThreshold: s.opts.LowStockThreshold,
	})
	if err != nil {
		return nil, s.fail(ctx, "listInventory", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ExportInventory writes every item as an xlsx workbook
func (s *InventoryService) ExportInventory(ctx context.Context, w io.Writer) error {
	items, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		return s.fail(ctx, "exportInventory", err)
	}
	if err := spreadsheet.WriteInventory(w, items); err != nil {
		return s.fail(ctx, "exportInventory", err)
	}
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
