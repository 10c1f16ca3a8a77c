package tenancy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub/internal/model"
)

func TestPermissionSetHas(t *testing.T) {
	set := NewPermissionSet("products.view", "orders.*")

	assert.True(t, set.Has("products.view"))
	assert.True(t, set.Has("orders.create"))
	assert.True(t, set.Has("orders.refund"))
	assert.False(t, set.Has("products.delete"))
	assert.False(t, set.Has("users.view"))
}

func TestPermissionSetGlobalWildcard(t *testing.T) {
	set := NewPermissionSet("*")

	assert.True(t, set.Has("anything.at_all"))
	assert.True(t, set.Has("users.delete"))
}

func TestConcreteGrantDoesNotSatisfyWildcardName(t *testing.T) {
	set := NewPermissionSet("products.view")

	assert.False(t, set.Has("products.*"))
}

func TestPermissionSetHasAny(t *testing.T) {
	set := NewPermissionSet("products.view", "orders.view")

	assert.True(t, set.HasAny([]string{"products.view", "users.view"}, false))
	assert.False(t, set.HasAny([]string{"products.view", "users.view"}, true))
	assert.True(t, set.HasAny([]string{"products.view", "orders.view"}, true))
	assert.True(t, set.HasAny(nil, true))
}

func TestPermissionSetMissing(t *testing.T) {
	set := NewPermissionSet("products.view")

	missing := set.Missing([]string{"products.view", "products.edit", "users.view"})
	assert.Equal(t, []string{"products.edit", "users.view"}, missing)
}

// A tenant-wide role and a store-scoped role must union: the store role only
// ever adds grants on top of the tenant-wide ones.
func TestEffectivePermissionsAdditive(t *testing.T) {
	dir := newFakeDirectory()
	userID := uuid.New()
	tenantID := uuid.New()
	storeID := uuid.New()

	managerRole := uuid.New()
	cashierRole := uuid.New()
	dir.rolePerms[managerRole] = []string{"users.view", "stores.view"}
	dir.rolePerms[cashierRole] = []string{"orders.create", "payments.process"}

	dir.assignments = []model.UserRole{
		{UserID: userID, TenantID: tenantID, RoleID: managerRole},
		{UserID: userID, TenantID: tenantID, RoleID: cashierRole, StoreID: &storeID},
	}

	resolver := NewPermissionResolver(dir)

	// Without a store only the tenant-wide role applies.
	set, err := resolver.EffectivePermissions(context.Background(), userID, tenantID, nil)
	require.NoError(t, err)
	assert.True(t, set.Has("users.view"))
	assert.False(t, set.Has("orders.create"))

	// With the store selected both apply.
	set, err = resolver.EffectivePermissions(context.Background(), userID, tenantID, &storeID)
	require.NoError(t, err)
	assert.True(t, set.Has("users.view"))
	assert.True(t, set.Has("orders.create"))
	assert.True(t, set.Has("payments.process"))

	// A different store does not pick up the scoped role.
	otherStore := uuid.New()
	set, err = resolver.EffectivePermissions(context.Background(), userID, tenantID, &otherStore)
	require.NoError(t, err)
	assert.True(t, set.Has("users.view"))
	assert.False(t, set.Has("orders.create"))
}

func TestEffectivePermissionsEmpty(t *testing.T) {
	dir := newFakeDirectory()
	resolver := NewPermissionResolver(dir)

	set, err := resolver.EffectivePermissions(context.Background(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.False(t, set.Has("users.view"))
}

func TestHasAnyPermissionRequireAll(t *testing.T) {
	dir := newFakeDirectory()
	userID := uuid.New()
	tenantID := uuid.New()
	role := uuid.New()
	dir.rolePerms[role] = []string{"users.view", "users.edit"}
	dir.assignments = []model.UserRole{{UserID: userID, TenantID: tenantID, RoleID: role}}

	resolver := NewPermissionResolver(dir)

	ok, err := resolver.HasAnyPermission(context.Background(), userID, tenantID, []string{"users.view", "users.edit"}, true, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.HasAnyPermission(context.Background(), userID, tenantID, []string{"users.view", "users.delete"}, true, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resolver.HasAnyPermission(context.Background(), userID, tenantID, []string{"users.view", "users.delete"}, false, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
