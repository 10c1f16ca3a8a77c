package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/pagination"
	"storehub/pkg/response"
)

type StoreHandler struct {
	storeService service.StoreService
	resolver     *tenancy.ContextResolver
}

func NewStoreHandler(storeService service.StoreService, resolver *tenancy.ContextResolver) *StoreHandler {
	return &StoreHandler{storeService: storeService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	stores := router.Group("/stores")
	stores.Use(middleware.RequestContext(h.resolver))
	{
		stores.GET("", middleware.RequirePermission(tenancy.PermStoresView), h.List)
		stores.GET("/mine", h.ListMine)
		stores.GET("/:id", middleware.RequirePermission(tenancy.PermStoresView), h.Get)
		stores.POST("", middleware.RequirePermission(tenancy.PermStoresCreate), h.Create)
		stores.PUT("/:id", middleware.RequirePermission(tenancy.PermStoresEdit), h.Update)
		stores.DELETE("/:id", middleware.RequirePermission(tenancy.PermStoresDelete), h.Delete)

		stores.GET("/:id/users", middleware.RequirePermission(tenancy.PermStoresManageUsers), h.ListMembers)
		stores.POST("/:id/users", middleware.RequirePermission(tenancy.PermStoresManageUsers), h.AssignUser)
		stores.DELETE("/:id/users/:userID", middleware.RequirePermission(tenancy.PermStoresManageUsers), h.UnassignUser)
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// Create adds a store to the current tenant
// @Summary      Create store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStoreRequest  true  "Store Payload"
// @Success      201      {object}  response.Response{data=model.Store}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req service.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, store))
}

// List returns the tenant's stores
// @Summary      List stores
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Limit"
// @Success      200    {object}  response.Response{data=pagination.Page}
// @Router       /stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	stores, total, err := h.storeService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(stores, total, p)))
}

// ListMine returns the stores assigned to the current user
// @Summary      List my stores
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Store}
// @Router       /stores/mine [get]
func (h *StoreHandler) ListMine(c *gin.Context) {
	stores, err := h.storeService.ListMine(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stores))
}

// Get returns one store
// @Summary      Get store
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  response.Response{data=model.Store}
// @Failure      404  {object}  response.Response
// @Router       /stores/{id} [get]
func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// Update edits a store
// @Summary      Update store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Store ID"
// @Param        payload  body      service.UpdateStoreRequest  true  "Store Payload"
// @Success      200      {object}  response.Response{data=model.Store}
// @Failure      404      {object}  response.Response
// @Router       /stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// Delete soft-deletes a store
// @Summary      Delete store
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /stores/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.storeService.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Store deleted"}))
}

// ListMembers lists users assigned to a store
// @Summary      List store members
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  response.Response{data=[]model.StoreUser}
// @Router       /stores/{id}/users [get]
func (h *StoreHandler) ListMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	members, err := h.storeService.ListMembers(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, members))
}

// AssignUser grants a tenant member access to a store
// @Summary      Assign user to store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Store ID"
// @Param        payload  body      service.AssignStoreUserRequest  true  "Assignment Payload"
// @Success      201      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /stores/{id}/users [post]
func (h *StoreHandler) AssignUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.AssignStoreUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.storeService.AssignUser(c.Request.Context(), id, req); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "User assigned"}))
}

// UnassignUser removes a user's store access
// @Summary      Remove user from store
// @Tags         stores
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Store ID"
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /stores/{id}/users/{userID} [delete]
func (h *StoreHandler) UnassignUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userID")
	if !ok {
		return
	}
	if err := h.storeService.UnassignUser(c.Request.Context(), id, userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "User removed"}))
}
