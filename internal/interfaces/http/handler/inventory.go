package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/bizops/backend/internal/application/inventory"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes the stock ledger over HTTP
type InventoryHandler struct {
	BaseHandler
	ledger *appinventory.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *appinventory.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RecordMovement handles POST /inventory/movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appinventory.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	movement, err := h.ledger.RecordMovement(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Transfer handles POST /inventory/transfers
func (h *InventoryHandler) Transfer(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appinventory.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	transfer, err := h.ledger.Transfer(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// RecordAdjustment handles POST /inventory/adjustments
func (h *InventoryHandler) RecordAdjustment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appinventory.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	movement, err := h.ledger.RecordAdjustment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Reconcile handles POST /inventory/reconcile
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appinventory.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	result, err := h.ledger.Reconcile(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetBalance handles GET /inventory/balances/:productId/:locationId
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	locationID, ok := h.parseUUIDParam(c, "locationId")
	if !ok {
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), actor, actor.TenantID, productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// ListMovements handles GET /inventory/movements/:productId/:locationId
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	locationID, ok := h.parseUUIDParam(c, "locationId")
	if !ok {
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), actor, actor.TenantID, productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
