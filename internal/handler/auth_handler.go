package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storehub/internal/metrics"
	"storehub/internal/middleware"
	"storehub/internal/service"
	"storehub/internal/tenancy"
	"storehub/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	resolver    *tenancy.ContextResolver
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService, resolver *tenancy.ContextResolver) *AuthHandler {
	return &AuthHandler{authService: authService, resolver: resolver}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	protected := router.Group("/auth")
	protected.Use(middleware.RequestContext(h.resolver))
	{
		protected.GET("/me", h.Me)
		protected.POST("/logout-all", h.LogoutAll)
		protected.POST("/change-password", h.ChangePassword)
	}
}

// Register bootstraps a new tenant with its owner account
// @Summary      Register a new tenant
// @Description  Creates the tenant, its owner account, default roles and a trial subscription
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration Payload"
// @Success      201      {object}  response.Response{data=service.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, resp))
}

// Login authenticates a user and binds the session to a tenant
// @Summary      Login
// @Description  Authenticates by email and password. Users in several tenants get the tenant list back and retry with tenant_slug.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failed").Inc()
		handleError(c, err)
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resp))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RefreshRequest  true  "Refresh Token"
// @Success      200      {object}  response.Response{data=service.AuthResponse}
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resp))
}

// Me returns the current identity, tenant, store and permissions
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.MeResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.authService.Me(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resp))
}

// LogoutAll revokes every outstanding token for the current user
// @Summary      Log out everywhere
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		handleError(c, tenancy.ErrUnauthenticated)
		return
	}
	if err := h.authService.LogoutAll(c.Request.Context(), rc.User.ID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "All sessions revoked"}))
}

// ChangePassword sets a new password and revokes existing sessions
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangePasswordRequest  true  "Password Change"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		handleError(c, tenancy.ErrUnauthenticated)
		return
	}

	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), rc.User.ID, req); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Password updated"}))
}
