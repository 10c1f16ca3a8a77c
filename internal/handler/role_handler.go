package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/response"
)

type RoleHandler struct {
	rbacService service.RBACService
	resolver    *tenancy.ContextResolver
}

func NewRoleHandler(rbacService service.RBACService, resolver *tenancy.ContextResolver) *RoleHandler {
	return &RoleHandler{rbacService: rbacService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/roles")
	roles.Use(middleware.RequestContext(h.resolver))
	{
		roles.GET("", middleware.RequirePermission(tenancy.PermRolesView), h.List)
		roles.GET("/:id", middleware.RequirePermission(tenancy.PermRolesView), h.Get)
		roles.POST("", middleware.RequirePermission(tenancy.PermRolesCreate), h.Create)
		roles.PUT("/:id", middleware.RequirePermission(tenancy.PermRolesEdit), h.Update)
		roles.DELETE("/:id", middleware.RequirePermission(tenancy.PermRolesDelete), h.Delete)
	}

	perms := router.Group("/permissions")
	perms.Use(middleware.RequestContext(h.resolver))
	{
		perms.GET("", middleware.RequirePermission(tenancy.PermPermissionsView), h.ListPermissions)
	}

	assignments := router.Group("/role-assignments")
	assignments.Use(middleware.RequestContext(h.resolver))
	assignments.Use(middleware.RequirePermission(tenancy.PermUsersManageRoles))
	{
		assignments.POST("", h.Assign)
		assignments.DELETE("", h.Revoke)
	}
}

// List returns the tenant's roles with their permissions
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.rbacService.ListRoles(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// Get returns one role
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  response.Response{data=service.RoleResponse}
// @Failure      404  {object}  response.Response
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := h.rbacService.GetRole(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// Create adds a custom role
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRoleRequest  true  "Role Payload"
// @Success      201      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.rbacService.CreateRole(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, role))
}

// Update edits a custom role
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Role ID"
// @Param        payload  body      service.UpdateRoleRequest  true  "Role Payload"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.rbacService.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// Delete removes a custom role with no remaining assignments
// @Summary      Delete role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.rbacService.DeleteRole(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Role deleted"}))
}

// ListPermissions returns the registered permission catalog
// @Summary      List permissions
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]tenancy.PermissionDef}
// @Router       /permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.rbacService.ListPermissions(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, perms))
}

// Assign grants a role to a tenant member
// @Summary      Assign role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AssignRoleRequest  true  "Assignment Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /role-assignments [post]
func (h *RoleHandler) Assign(c *gin.Context) {
	var req service.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.rbacService.AssignRole(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "Role assigned"}))
}

// Revoke removes a role assignment
// @Summary      Revoke role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AssignRoleRequest  true  "Assignment Payload"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /role-assignments [delete]
func (h *RoleHandler) Revoke(c *gin.Context) {
	var req service.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.rbacService.RevokeRole(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Role revoked"}))
}
