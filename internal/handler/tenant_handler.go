package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/response"
)

type TenantHandler struct {
	tenantService service.TenantService
	resolver      *tenancy.ContextResolver
}

func NewTenantHandler(tenantService service.TenantService, resolver *tenancy.ContextResolver) *TenantHandler {
	return &TenantHandler{tenantService: tenantService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenant := router.Group("/tenant")
	tenant.Use(middleware.RequestContext(h.resolver))
	{
		tenant.GET("", middleware.RequirePermission(tenancy.PermTenantsView), h.Current)
		tenant.PUT("", middleware.RequirePermission(tenancy.PermTenantsEdit), h.Update)
	}
}

// Current returns the request's tenant
// @Summary      Get current tenant
// @Tags         tenant
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.TenantResponse}
// @Router       /tenant [get]
func (h *TenantHandler) Current(c *gin.Context) {
	tenant, err := h.tenantService.Current(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}

// Update edits the current tenant's settings
// @Summary      Update tenant
// @Tags         tenant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateTenantRequest  true  "Tenant Payload"
// @Success      200      {object}  response.Response{data=service.TenantResponse}
// @Failure      400      {object}  response.Response
// @Router       /tenant [put]
func (h *TenantHandler) Update(c *gin.Context) {
	var req service.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tenant))
}
