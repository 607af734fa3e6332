package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/myhome-api/internal/middleware"
	"github.com/myhome-api/internal/service"
	"github.com/myhome-api/pkg/response"
)

// PlanHandler exposes the pricing catalog and the upgrade operation
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// List returns the pricing catalog
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	response.Success(c, h.planService.List())
}

// Get returns a single plan by name
// GET /api/v1/plans/:name
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.planService.Get(c.Param("name"))
	if err != nil {
		response.NotFound(c, "plan not found")
		return
	}
	response.Success(c, plan)
}

// Upgrade moves the caller to the next tier, provided the current tier's
// property allowance is used up
// POST /api/v1/plans/upgrade
func (h *PlanHandler) Upgrade(c *gin.Context) {
	user := middleware.CurrentUser(c)

	plan, err := h.planService.Upgrade(user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUpgradeNotRequired):
			response.BadRequest(c, "current plan limit not reached, upgrade not required")
		case errors.Is(err, service.ErrMaximumPlanReached):
			response.BadRequest(c, "already on the highest plan")
		default:
			response.InternalError(c, "failed to upgrade plan")
		}
		return
	}

	response.Success(c, gin.H{"plan": plan})
}

// RegisterRoutes registers plan routes
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	plans := rg.Group("/plans")
	{
		plans.GET("", h.List)
		plans.POST("/upgrade", auth, h.Upgrade)
		plans.GET("/:name", h.Get)
	}
}
