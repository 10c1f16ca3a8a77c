package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storehub/internal/middleware"
	"storehub/internal/repository"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/pagination"
	"storehub/pkg/response"
)

type AuditHandler struct {
	auditService service.AuditService
	resolver     *tenancy.ContextResolver
}

func NewAuditHandler(auditService service.AuditService, resolver *tenancy.ContextResolver) *AuditHandler {
	return &AuditHandler{auditService: auditService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit-logs")
	audit.Use(middleware.RequestContext(h.resolver))
	{
		audit.GET("", middleware.RequirePermission(tenancy.PermSettingsView), h.List)
	}
}

// List returns the tenant's activity trail
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page     query     int     false  "Page"
// @Param        limit    query     int     false  "Limit"
// @Param        action   query     string  false  "Filter by action"
// @Param        user_id  query     string  false  "Filter by acting user"
// @Success      200      {object}  response.Response{data=pagination.Page}
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	filter := repository.AuditFilter{Action: c.Query("action")}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user_id"))
			return
		}
		filter.UserID = &id
	}

	entries, total, err := h.auditService.List(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(entries, total, p)))
}
