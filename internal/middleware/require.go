package middleware

import (
	"github.com/gin-gonic/gin"

	"storehub/internal/metrics"
	"storehub/internal/tenancy"
)

// RequirePermission guards a route behind one permission. It runs after
// RequestContext and evaluates against the request's effective permission
// set, so a store-scoped role only counts when that store is selected.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			abortWithError(c, tenancy.ErrUnauthenticated)
			return
		}
		if err := rc.RequirePermission(c.Request.Context(), permission); err != nil {
			if te, ok := tenancy.AsError(err); ok && te.Code == "insufficient_permissions" {
				metrics.PermissionDenials.WithLabelValues(permission).Inc()
			}
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAnyPermission passes when the user holds at least one of the given
// permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			abortWithError(c, tenancy.ErrUnauthenticated)
			return
		}
		if err := rc.RequireAnyPermission(c.Request.Context(), permissions...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireStore rejects requests that did not select a store via the
// X-Store-ID header. Use it on routes that operate on store-scoped data.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			abortWithError(c, tenancy.ErrUnauthenticated)
			return
		}
		if rc.Store == nil {
			abortWithError(c, tenancy.ErrStoreContextRequired)
			return
		}
		c.Next()
	}
}
