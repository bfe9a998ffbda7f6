package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService    *service.SaleService
	invoiceService *service.InvoiceService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, invoiceService *service.InvoiceService) *SaleHandler {
	return &SaleHandler{saleService: saleService, invoiceService: invoiceService}
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	filter := service.SaleFilter{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
	}

	if wantsCursor(c) {
		result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), cursorParams(c), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, "Sales retrieved successfully", result)
		return
	}

	var err error
	if filter.StartDate, err = dateQuery(c, "start_date"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.EndDate, err = dateQuery(c, "end_date"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.EndDate != nil {
		// inclusive end date
		end := filter.EndDate.AddDate(0, 0, 1)
		filter.EndDate = &end
	}

	result, err := h.saleService.ListSales(c.Request.Context(), pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Sales retrieved successfully", result)
}

// Get handles getting a sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Create handles addSale
func (h *SaleHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input service.CreateSaleInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.saleService.AddSale(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", result)
}

// Update handles updateSale
func (h *SaleHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input service.UpdateSaleInput
	if !bindJSONWithID(c, &input, &input.ID) {
		return
	}

	result, err := h.saleService.UpdateSale(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", result)
}

// Delete handles deleteSale. Repeating it reports already instead of failing.
func (h *SaleHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.saleService.DeleteSale(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Sale deleted successfully"
	if result.Already {
		message = "Sale was already deleted"
	}
	response.OK(c, message, result)
}

// IssueInvoice handles issuing the invoice of a sale
func (h *SaleHandler) IssueInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice issued successfully", invoice)
}
