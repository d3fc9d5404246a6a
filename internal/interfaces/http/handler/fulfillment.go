package handler

import (
	"github.com/gin-gonic/gin"

	appfulfillment "github.com/bizops/backend/internal/application/fulfillment"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// FulfillmentHandler accepts order-fulfilled events over HTTP
type FulfillmentHandler struct {
	BaseHandler
	fulfillment *appfulfillment.FulfillmentService
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(fulfillment *appfulfillment.FulfillmentService) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillment: fulfillment}
}

// OrderFulfilled handles POST /orders/fulfilled.
// Replays of the same order_id return the original outcome with the
// duplicate flag set instead of double-deducting stock.
func (h *FulfillmentHandler) OrderFulfilled(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appfulfillment.OrderFulfilledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	result, err := h.fulfillment.HandleOrderFulfilled(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Duplicate {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}
