package handler

import (
	"bytes"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice and report HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	reportService  *service.ReportService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, reportService *service.ReportService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, reportService: reportService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	result, err := h.invoiceService.ListInvoices(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Invoices retrieved successfully", result)
}

// Get handles getting an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Export streams the invoices of ?month=YYYY-MM as an xlsx workbook
func (h *InvoiceHandler) Export(c *gin.Context) {
	month := c.DefaultQuery("month", service.AllMonths)

	var buf bytes.Buffer
	if err := h.invoiceService.ExportInvoices(c.Request.Context(), month, &buf); err != nil {
		response.Error(c, err)
		return
	}

	sendWorkbook(c, fmt.Sprintf("invoices-%s.xlsx", month), &buf)
}

// GstSummary handles gstSummaryHttp
func (h *InvoiceHandler) GstSummary(c *gin.Context) {
	summary, err := h.reportService.GstSummary(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "GST summary", summary)
}
