package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storehub/internal/metrics"
	"storehub/internal/tenancy"
	"storehub/pkg/response"
)

// StoreHeader selects the store a request operates on. Tokens are never
// store-scoped; clients switch stores per request with this header.
const StoreHeader = "X-Store-ID"

const requestContextKey = "requestContext"

// RequestContext resolves the bearer token (plus the optional store header)
// into a verified request context and attaches it both to gin and to the
// request's context.Context. Requests that fail any check are rejected before
// reaching a handler.
func RequestContext(resolver *tenancy.ContextResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c)
		if !ok {
			abortWithError(c, tenancy.ErrUnauthenticated)
			return
		}

		start := time.Now()
		rc, err := resolver.Resolve(c.Request.Context(), rawToken, c.GetHeader(StoreHeader))
		metrics.ContextResolveDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(requestContextKey, rc)
		c.Request = c.Request.WithContext(tenancy.WithRequestContext(c.Request.Context(), rc))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetRequestContext returns the resolved context for the current request.
func GetRequestContext(c *gin.Context) (*tenancy.RequestContext, bool) {
	v, ok := c.Get(requestContextKey)
	if !ok {
		return nil, false
	}
	rc, ok := v.(*tenancy.RequestContext)
	return rc, ok
}

func abortWithError(c *gin.Context, err error) {
	if te, ok := tenancy.AsError(err); ok {
		metrics.AuthFailures.WithLabelValues(te.Code).Inc()
		c.AbortWithStatusJSON(te.Status, response.ErrorWithCode(te.Status, te.Code, te.Message))
		return
	}
	metrics.AuthFailures.WithLabelValues("internal_error").Inc()
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		response.ErrorWithCode(http.StatusInternalServerError, "internal_error", "An internal server error occurred"))
}
