// Package tenancy establishes and carries the per-request identity context:
// which user, which tenant, optionally which store, and what they may do.
// Every protected request passes through the Context Resolver exactly once
// before any business logic runs; the Query Scope Guard then enforces the
// resolved boundary on every data access.
package tenancy

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storehub/internal/model"
)

// RequestContext is the immutable binding of one request to a verified user,
// tenant and (optionally) store. It is built fresh per request and never
// shared or cached across requests. The effective permission set is computed
// lazily on first use and memoized for the request's lifetime.
type RequestContext struct {
	User       *model.User
	Tenant     *model.Tenant
	Membership *model.TenantUser
	Store      *model.Store // nil when no store is bound

	perms *PermissionResolver

	mu     sync.Mutex
	cached PermissionSet
}

// StoreID returns the bound store id, or nil when no store is bound.
func (rc *RequestContext) StoreID() *uuid.UUID {
	if rc.Store == nil {
		return nil
	}
	id := rc.Store.ID
	return &id
}

// Permissions returns the effective permission set, resolving it on first
// call.
func (rc *RequestContext) Permissions(ctx context.Context) (PermissionSet, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.cached != nil {
		return rc.cached, nil
	}
	set, err := rc.perms.EffectivePermissions(ctx, rc.User.ID, rc.Tenant.ID, rc.StoreID())
	if err != nil {
		return nil, err
	}
	rc.cached = set
	return set, nil
}

// HasPermission reports whether the request's user holds the permission.
func (rc *RequestContext) HasPermission(ctx context.Context, name string) (bool, error) {
	set, err := rc.Permissions(ctx)
	if err != nil {
		return false, err
	}
	return set.Has(name), nil
}

// RequirePermission fails with InsufficientPermission unless the user holds
// the permission.
func (rc *RequestContext) RequirePermission(ctx context.Context, name string) error {
	ok, err := rc.HasPermission(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return InsufficientPermission(name)
	}
	return nil
}

// RequireAnyPermission fails unless the user holds at least one of the named
// permissions.
func (rc *RequestContext) RequireAnyPermission(ctx context.Context, names ...string) error {
	set, err := rc.Permissions(ctx)
	if err != nil {
		return err
	}
	if !set.HasAny(names, false) {
		return InsufficientPermission(names...)
	}
	return nil
}

// RequireAllPermissions fails unless the user holds every named permission,
// reporting the missing ones.
func (rc *RequestContext) RequireAllPermissions(ctx context.Context, names ...string) error {
	set, err := rc.Permissions(ctx)
	if err != nil {
		return err
	}
	if missing := set.Missing(names); len(missing) > 0 {
		return InsufficientPermission(missing...)
	}
	return nil
}

type ctxKey int

const (
	requestContextKey ctxKey = iota
	systemAccessKey
)

// WithRequestContext attaches the resolved request context to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext returns the request context attached to ctx, if any.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok
}

// WithSystemAccess marks ctx as a system code path (migrations, seeders,
// background admin jobs) that may bypass the Query Scope Guard. The reason is
// mandatory so every bypass is attributable; absence of a request context
// without this flag always denies.
func WithSystemAccess(ctx context.Context, reason string) context.Context {
	return context.WithValue(ctx, systemAccessKey, reason)
}

// SystemAccessReason returns the declared bypass reason, if ctx carries one.
func SystemAccessReason(ctx context.Context) (string, bool) {
	reason, ok := ctx.Value(systemAccessKey).(string)
	return reason, ok && reason != ""
}
