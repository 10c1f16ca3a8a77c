package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"storehub/internal/service"
	"storehub/pkg/response"
)

// handleError maps service errors to HTTP responses. Business rule failures
// map to 4xx; anything unrecognized becomes an opaque 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrRoleNameTaken),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyInStore):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAssignmentMissing),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrNoSubscription):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrSystemRoleReadOnly),
		errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrUnknownPermission),
		errors.Is(err, service.ErrNotTenantMember),
		errors.Is(err, service.ErrSelfDisable),
		errors.Is(err, service.ErrUserLimitReached),
		errors.Is(err, service.ErrStoreLimitReached):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Resource not found"))
	default:
		status, resp := response.FromError(err)
		c.JSON(status, resp)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
