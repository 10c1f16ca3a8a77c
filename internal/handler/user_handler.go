package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/pagination"
	"storehub/pkg/response"
)

type UserHandler struct {
	userService service.UserService
	rbacService service.RBACService
	resolver    *tenancy.ContextResolver
}

// NewUserHandler sets up the routing dependencies for member endpoints
func NewUserHandler(userService service.UserService, rbacService service.RBACService, resolver *tenancy.ContextResolver) *UserHandler {
	return &UserHandler{userService: userService, rbacService: rbacService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.RequestContext(h.resolver))
	{
		users.GET("", middleware.RequirePermission(tenancy.PermUsersView), h.List)
		users.GET("/:id", middleware.RequirePermission(tenancy.PermUsersView), h.Get)
		users.GET("/:id/roles", middleware.RequirePermission(tenancy.PermUsersView), h.ListRoles)
		users.POST("", middleware.RequirePermission(tenancy.PermUsersCreate), h.Invite)
		users.DELETE("/:id", middleware.RequirePermission(tenancy.PermUsersDelete), h.Disable)
	}
}

// List returns the tenant's members
// @Summary      List members
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Limit"
// @Success      200    {object}  response.Response{data=pagination.Page}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.userService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(users, total, p)))
}

// Get returns one member with their role assignments
// @Summary      Get member
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.MemberResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	member, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// ListRoles returns a member's role assignments
// @Summary      List member roles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=[]model.UserRole}
// @Router       /users/{id}/roles [get]
func (h *UserHandler) ListRoles(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	assignments, err := h.rbacService.ListUserRoles(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignments))
}

// Invite adds a user to the tenant
// @Summary      Invite member
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.InviteUserRequest  true  "Invite Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) Invite(c *gin.Context) {
	var req service.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.Invite(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Disable deactivates a member's account
// @Summary      Disable member
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Disable(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Member disabled"}))
}
