package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreceivables "github.com/bizops/backend/internal/application/receivables"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// ReceivableHandler exposes the receivables ledger over HTTP
type ReceivableHandler struct {
	BaseHandler
	receivables *appreceivables.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivables *appreceivables.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivables: receivables}
}

// receivableListRequest carries list filters beyond the common pagination set
type receivableListRequest struct {
	dto.ListRequest
	CustomerID  string `form:"customer_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=open partial paid overdue written_off"`
	DueBefore   string `form:"due_before"`
	OpenBalance bool   `form:"open_balance"`
}

// Create handles POST /receivables
func (h *ReceivableHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appreceivables.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	receivable, err := h.receivables.CreateReceivable(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receivable)
}

// GetByID handles GET /receivables/:id
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	receivable, err := h.receivables.GetByID(c.Request.Context(), actor, actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// List handles GET /receivables
func (h *ReceivableHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req receivableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.CustomerID != "" {
		filter.Filters["customer_id"] = uuid.MustParse(req.CustomerID)
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.DueBefore != "" {
		dueBefore, err := time.Parse(time.RFC3339, req.DueBefore)
		if err != nil {
			h.BadRequest(c, "Invalid due_before, expected RFC 3339 timestamp")
			return
		}
		filter.Filters["due_before"] = dueBefore
	}
	if req.OpenBalance {
		filter.Filters["open_balance"] = true
	}

	items, total, err := h.receivables.List(c.Request.Context(), actor, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// WriteOff handles POST /receivables/:id/write-off
func (h *ReceivableHandler) WriteOff(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appreceivables.WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID
	req.ReceivableID = id

	receivable, err := h.receivables.WriteOff(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receivable)
}

// AgingReport handles GET /receivables/aging-report
func (h *ReceivableHandler) AgingReport(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of, expected RFC 3339 timestamp")
			return
		}
		asOf = parsed
	}

	report, err := h.receivables.AgingReport(c.Request.Context(), actor, actor.TenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
