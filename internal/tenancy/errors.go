package tenancy

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is an authorization/context failure with a stable machine-readable
// code and the HTTP status it maps to at the boundary.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus returns the status the error maps to at the API boundary.
func (e *Error) HTTPStatus() int { return e.Status }

// ErrorCode returns the stable machine-readable code.
func (e *Error) ErrorCode() string { return e.Code }

// Cross-boundary failures deliberately share codes and messages so a caller
// cannot distinguish "does not exist" from "not yours": ErrTenantNotFound
// responds exactly like ErrTenantAccessDenied, and ErrStoreNotFound covers
// missing, inactive, soft-deleted and cross-tenant stores alike.
var (
	ErrUnauthenticated = &Error{Code: "unauthorized", Status: http.StatusUnauthorized, Message: "Authentication required"}
	ErrTokenExpired    = &Error{Code: "token_expired", Status: http.StatusUnauthorized, Message: "Token has expired"}

	ErrTenantNotFound     = &Error{Code: "tenant_access_denied", Status: http.StatusForbidden, Message: "You do not have access to this tenant"}
	ErrTenantAccessDenied = &Error{Code: "tenant_access_denied", Status: http.StatusForbidden, Message: "You do not have access to this tenant"}
	ErrTenantSuspended    = &Error{Code: "tenant_suspended", Status: http.StatusForbidden, Message: "Tenant account is suspended"}

	ErrStoreNotFound        = &Error{Code: "store_not_found", Status: http.StatusNotFound, Message: "Store not found"}
	ErrStoreAccessDenied    = &Error{Code: "store_access_denied", Status: http.StatusForbidden, Message: "You do not have access to this store"}
	ErrStoreContextRequired = &Error{Code: "store_context_required", Status: http.StatusForbidden, Message: "Store context required. Provide the X-Store-ID header."}

	// ErrMissingTenantContext means a scoped data operation ran without a
	// resolved request context. That is a programming error, never a
	// user-facing condition; it must surface loudly, not be swallowed.
	ErrMissingTenantContext = &Error{Code: "internal_error", Status: http.StatusInternalServerError, Message: "An internal server error occurred"}
)

// InsufficientPermission builds the only denial that may name what was
// missing: the caller is already a verified tenant member.
func InsufficientPermission(missing ...string) *Error {
	msg := "Insufficient permissions"
	if len(missing) > 0 {
		msg = fmt.Sprintf("Missing required permission: %s", strings.Join(missing, ", "))
	}
	return &Error{Code: "insufficient_permissions", Status: http.StatusForbidden, Message: msg}
}

// AsError unwraps err to a *tenancy.Error if one is in its chain.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
