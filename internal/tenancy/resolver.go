package tenancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storehub/internal/model"
	"storehub/internal/token"
)

// Directory is the read-only lookup surface the resolver needs. Lookups
// return (nil, nil) when the record does not exist; an error means the lookup
// itself failed.
type Directory interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindTenantByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	FindMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.TenantUser, error)
	FindStoreByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	FindStoreMembership(ctx context.Context, userID, storeID uuid.UUID) (*model.StoreUser, error)
	ListRoleAssignments(ctx context.Context, userID, tenantID uuid.UUID, storeID *uuid.UUID) ([]model.UserRole, error)
	ListRolePermissions(ctx context.Context, roleIDs []uuid.UUID) ([]string, error)
}

// ContextResolver turns a bearer token (plus an optional store selector) into
// a verified RequestContext. Every check is ordered and fails closed: a token
// that names a revoked user, a suspended tenant or a store outside the tenant
// never produces a context.
type ContextResolver struct {
	codec *token.Codec
	dir   Directory
	perms *PermissionResolver
}

// NewContextResolver wires the resolver to the token codec and directory.
func NewContextResolver(codec *token.Codec, dir Directory) *ContextResolver {
	return &ContextResolver{
		codec: codec,
		dir:   dir,
		perms: NewPermissionResolver(dir),
	}
}

// Resolve validates the raw access token and binds the request to its user,
// tenant and, when storeHint is non-empty, store. The returned context is
// fully verified; callers may trust every field.
func (r *ContextResolver) Resolve(ctx context.Context, rawToken, storeHint string) (*RequestContext, error) {
	claims, err := r.codec.Validate(rawToken, token.KindAccess)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrUnauthenticated
	}

	user, err := r.dir.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthenticated
	}
	// A stale version means the token was issued before a password change or
	// a "log out everywhere". Report it as expired so clients refresh.
	if claims.TokenVersion != user.TokenVersion {
		return nil, ErrTokenExpired
	}

	tenant, err := r.dir.FindTenantByID(ctx, claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	if !tenant.CanServe() {
		if tenant.Status == model.TenantSuspended {
			return nil, ErrTenantSuspended
		}
		return nil, ErrTenantNotFound
	}

	membership, err := r.dir.FindMembership(ctx, user.ID, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}
	if membership == nil {
		return nil, ErrTenantAccessDenied
	}

	rc := &RequestContext{
		User:       user,
		Tenant:     tenant,
		Membership: membership,
		perms:      r.perms,
	}

	if storeHint != "" {
		store, err := r.resolveStore(ctx, user.ID, tenant.ID, storeHint)
		if err != nil {
			return nil, err
		}
		rc.Store = store
	}
	return rc, nil
}

// resolveStore checks that the store exists, is active, belongs to the
// request's tenant and is assigned to the user. A store outside the tenant is
// reported as not found, never as forbidden.
func (r *ContextResolver) resolveStore(ctx context.Context, userID, tenantID uuid.UUID, storeHint string) (*model.Store, error) {
	storeID, err := uuid.Parse(storeHint)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	store, err := r.dir.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	if store == nil || store.TenantID != tenantID || !store.IsActive {
		return nil, ErrStoreNotFound
	}

	assignment, err := r.dir.FindStoreMembership(ctx, userID, store.ID)
	if err != nil {
		return nil, fmt.Errorf("load store membership: %w", err)
	}
	if assignment == nil || assignment.TenantID != tenantID {
		return nil, ErrStoreAccessDenied
	}
	return store, nil
}

// ResolveRefresh validates a refresh token and returns the user it belongs
// to, applying the same user and tenant liveness checks as Resolve.
func (r *ContextResolver) ResolveRefresh(ctx context.Context, rawToken string) (*model.User, *model.Tenant, error) {
	claims, err := r.codec.Validate(rawToken, token.KindRefresh)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, nil, ErrTokenExpired
		}
		return nil, nil, ErrUnauthenticated
	}

	user, err := r.dir.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil, ErrUnauthenticated
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, nil, ErrTokenExpired
	}

	tenant, err := r.dir.FindTenantByID(ctx, claims.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil {
		return nil, nil, ErrTenantNotFound
	}
	if !tenant.CanServe() {
		if tenant.Status == model.TenantSuspended {
			return nil, nil, ErrTenantSuspended
		}
		return nil, nil, ErrTenantNotFound
	}

	membership, err := r.dir.FindMembership(ctx, user.ID, tenant.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load membership: %w", err)
	}
	if membership == nil {
		return nil, nil, ErrTenantAccessDenied
	}
	return user, tenant, nil
}
