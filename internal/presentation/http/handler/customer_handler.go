package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.customerService.ListCustomers(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Customers retrieved successfully", result)
}

// Create handles addCustomer
func (h *CustomerHandler) Create(c *gin.Context) {
	var input service.AddCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.customerService.AddCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", result)
}

// Get handles getting a customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updateCustomer
func (h *CustomerHandler) Update(c *gin.Context) {
	var input service.UpdateCustomerInput
	if !bindJSONWithID(c, &input, &input.ID) {
		return
	}

	result, err := h.customerService.UpdateCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", result)
}

// Delete handles deleteCustomer
func (h *CustomerHandler) Delete(c *gin.Context) {
	result, err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Customer deleted successfully", result)
}

// Sales handles listing a customer's sales
func (h *CustomerHandler) Sales(c *gin.Context) {
	result, err := h.customerService.ListCustomerSales(c.Request.Context(), c.Param("id"), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Sales retrieved successfully", result)
}

// Payments handles listing a customer's payments
func (h *CustomerHandler) Payments(c *gin.Context) {
	result, err := h.customerService.ListCustomerPayments(c.Request.Context(), c.Param("id"), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Payments retrieved successfully", result)
}
