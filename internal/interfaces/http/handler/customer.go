package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/bizops/backend/internal/application/partner"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// CustomerHandler exposes customer master data over HTTP
type CustomerHandler struct {
	BaseHandler
	customers *apppartner.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *apppartner.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// customerListRequest carries list filters beyond the common pagination set
type customerListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	Search string `form:"search" binding:"omitempty,max=200"`
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	customer, err := h.customers.CreateCustomer(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.GetCustomer(c.Request.Context(), actor, actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req customerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Search != "" {
		filter.Filters["name_like"] = req.Search
	}

	items, total, err := h.customers.ListCustomers(c.Request.Context(), actor, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CreditHistory handles GET /customers/:id/credit-history
func (h *CustomerHandler) CreditHistory(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	filter := req.ToFilter()

	entries, total, err := h.customers.CreditHistory(c.Request.Context(), actor, actor.TenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}
