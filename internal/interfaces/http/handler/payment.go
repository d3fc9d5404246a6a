package handler

import (
	"github.com/gin-gonic/gin"

	appreceivables "github.com/bizops/backend/internal/application/receivables"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
)

// PaymentHandler exposes payment recording and allocation over HTTP
type PaymentHandler struct {
	BaseHandler
	payments *appreceivables.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *appreceivables.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Apply handles POST /payments
func (h *PaymentHandler) Apply(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appreceivables.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.TenantID = actor.TenantID

	payment, err := h.payments.ApplyPayment(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), actor, actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}
