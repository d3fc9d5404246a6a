package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/bizops/backend/internal/application/partner"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// LocationHandler exposes location master data over HTTP
type LocationHandler struct {
	BaseHandler
	locations *apppartner.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locations *apppartner.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// locationListRequest carries list filters beyond the common pagination set
type locationListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// Create handles POST /locations
func (h *LocationHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req apppartner.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	location, err := h.locations.CreateLocation(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// GetByID handles GET /locations/:id
func (h *LocationHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	location, err := h.locations.GetLocation(c.Request.Context(), actor, actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// List handles GET /locations
func (h *LocationHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req locationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	items, total, err := h.locations.ListLocations(c.Request.Context(), actor, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}
