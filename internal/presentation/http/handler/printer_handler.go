package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printing requests
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// Status reports the configured printer and whether it answers
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.Status(c.Request.Context()))
}

// PrintSaleReceipt prints the receipt of a sale. The receipt is returned
// even when the printer could not take it.
func (h *PrinterHandler) PrintSaleReceipt(c *gin.Context) {
	result, err := h.receiptService.PrintSaleReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Receipt printed"
	if !result.Printed {
		message = "Receipt generated but not printed"
	}
	response.OK(c, message, result)
}
