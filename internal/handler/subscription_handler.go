package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/response"
)

type SubscriptionHandler struct {
	subService service.SubscriptionService
	resolver   *tenancy.ContextResolver
}

func NewSubscriptionHandler(subService service.SubscriptionService, resolver *tenancy.ContextResolver) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sub := router.Group("/subscription")
	sub.Use(middleware.RequestContext(h.resolver))
	{
		sub.GET("/plans", middleware.RequirePermission(tenancy.PermSubscriptionView), h.ListPlans)
		sub.GET("", middleware.RequirePermission(tenancy.PermSubscriptionView), h.Current)
		sub.PUT("/plan", middleware.RequirePermission(tenancy.PermSubscriptionManage), h.ChangePlan)
	}
}

// ListPlans returns the purchasable plan catalog
// @Summary      List plans
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Plan}
// @Router       /subscription/plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subService.ListPlans(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, plans))
}

// Current returns the tenant's subscription
// @Summary      Get subscription
// @Tags         subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.Subscription}
// @Failure      404  {object}  response.Response
// @Router       /subscription [get]
func (h *SubscriptionHandler) Current(c *gin.Context) {
	sub, err := h.subService.Current(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sub))
}

type changePlanRequest struct {
	PlanSlug string `json:"plan_slug" binding:"required"`
}

// ChangePlan switches the tenant to another plan
// @Summary      Change plan
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      changePlanRequest  true  "Plan Change Payload"
// @Success      200      {object}  response.Response{data=model.Subscription}
// @Failure      404      {object}  response.Response
// @Router       /subscription/plan [put]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sub, err := h.subService.ChangePlan(c.Request.Context(), req.PlanSlug)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sub))
}
