package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/spreadsheet"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
)

// maxImportFileSize bounds the uploaded workbook
const maxImportFileSize = 10 << 20

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles listing inventory items
func (h *InventoryHandler) List(c *gin.Context) {
	lowStock := c.Query("low_stock") == "true"
	result, err := h.inventoryService.ListInventory(c.Request.Context(), pageParams(c), c.Query("search"), lowStock)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Inventory retrieved successfully", result)
}

// Get handles getting an inventory item by ID
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.inventoryService.GetInventoryItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item retrieved successfully", item)
}

// Create handles addInventoryItem
func (h *InventoryHandler) Create(c *gin.Context) {
	var input service.InventoryItemInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.inventoryService.AddInventoryItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Inventory item created successfully", result)
}

// Update handles updateInventoryItem
func (h *InventoryHandler) Update(c *gin.Context) {
	var input service.UpdateInventoryItemInput
	if !bindJSONWithID(c, &input, &input.ID) {
		return
	}

	result, err := h.inventoryService.UpdateInventoryItem(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item updated successfully", result)
}

// Delete handles deleteInventoryItem
func (h *InventoryHandler) Delete(c *gin.Context) {
	result, err := h.inventoryService.DeleteInventoryItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory item deleted successfully", result)
}

// Adjust handles adjustInventoryQuantity
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var input service.AdjustQuantityInput
	if !bindJSONWithID(c, &input, &input.ID) {
		return
	}

	result, err := h.inventoryService.AdjustInventoryQuantity(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity adjusted successfully", result)
}

// BulkImport handles bulkImportInventory. The body is a JSON array; a row
// that does not decode is reported on its own without failing the others.
func (h *InventoryHandler) BulkImport(c *gin.Context) {
	var raw []json.RawMessage
	if !bindJSON(c, &raw) {
		return
	}

	rows := make([]service.ImportRow, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &rows[i].Item); err != nil {
			rows[i].Problems = []string{"invalid row: " + err.Error()}
		}
	}

	result, err := h.inventoryService.BulkImportInventory(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory imported", result)
}

// ImportFile handles a multipart xlsx upload in the "file" field
func (h *InventoryHandler) ImportFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if header.Size > maxImportFileSize {
		response.Error(c, apperror.NewBadRequestError("file is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	result, err := h.inventoryService.ImportInventoryFile(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory imported", result)
}

// Export streams every inventory item as an xlsx workbook
func (h *InventoryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.inventoryService.ExportInventory(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	sendWorkbook(c, fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102")), &buf)
}

func sendWorkbook(c *gin.Context, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(200, spreadsheet.ContentType, buf.Bytes())
}
