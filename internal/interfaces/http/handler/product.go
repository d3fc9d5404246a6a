package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/bizops/backend/internal/application/catalog"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// ProductHandler exposes product master data over HTTP
type ProductHandler struct {
	BaseHandler
	products *appcatalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// productListRequest carries list filters beyond the common pagination set
type productListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	SKU    string `form:"sku" binding:"omitempty,max=100"`
	Search string `form:"search" binding:"omitempty,max=200"`
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	product, err := h.products.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), actor, actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req productListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.SKU != "" {
		filter.Filters["sku"] = req.SKU
	}
	if req.Search != "" {
		filter.Filters["name_like"] = req.Search
	}

	items, total, err := h.products.ListProducts(c.Request.Context(), actor, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}
