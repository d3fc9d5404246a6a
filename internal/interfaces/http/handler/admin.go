package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/scheduler"
)

// AdminHandler exposes operational endpoints
type AdminHandler struct {
	BaseHandler
	sweep *scheduler.SweepScheduler
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(sweep *scheduler.SweepScheduler) *AdminHandler {
	return &AdminHandler{sweep: sweep}
}

// TriggerSweep handles POST /admin/sweep. The sweep is tenant-agnostic, so
// only owners may force a run outside the schedule.
func (h *AdminHandler) TriggerSweep(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if !actor.Active || !actor.Role.AtLeast(authz.RoleOwner) {
		h.HandleError(c, shared.ErrAuthorizationDenied)
		return
	}

	stats, err := h.sweep.TriggerNow(c.Request.Context())
	if err != nil {
		if err == scheduler.ErrSchedulerNotRunning {
			h.HandleError(c, shared.ErrInvalidState)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
