package tenancy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub/internal/model"
	"storehub/internal/token"
)

// fakeDirectory backs the resolver and permission tests with in-memory data.
type fakeDirectory struct {
	users            map[uuid.UUID]*model.User
	tenants          map[uuid.UUID]*model.Tenant
	memberships      map[string]*model.TenantUser
	stores           map[uuid.UUID]*model.Store
	storeMemberships map[string]*model.StoreUser
	assignments      []model.UserRole
	rolePerms        map[uuid.UUID][]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:            map[uuid.UUID]*model.User{},
		tenants:          map[uuid.UUID]*model.Tenant{},
		memberships:      map[string]*model.TenantUser{},
		stores:           map[uuid.UUID]*model.Store{},
		storeMemberships: map[string]*model.StoreUser{},
		rolePerms:        map[uuid.UUID][]string{},
	}
}

func pairKey(a, b uuid.UUID) string { return fmt.Sprintf("%s|%s", a, b) }

func (d *fakeDirectory) FindUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return d.users[id], nil
}

func (d *fakeDirectory) FindTenantByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	return d.tenants[id], nil
}

func (d *fakeDirectory) FindMembership(_ context.Context, userID, tenantID uuid.UUID) (*model.TenantUser, error) {
	return d.memberships[pairKey(userID, tenantID)], nil
}

func (d *fakeDirectory) FindStoreByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	return d.stores[id], nil
}

func (d *fakeDirectory) FindStoreMembership(_ context.Context, userID, storeID uuid.UUID) (*model.StoreUser, error) {
	return d.storeMemberships[pairKey(userID, storeID)], nil
}

func (d *fakeDirectory) ListRoleAssignments(_ context.Context, userID, tenantID uuid.UUID, storeID *uuid.UUID) ([]model.UserRole, error) {
	var out []model.UserRole
	for _, a := range d.assignments {
		if a.UserID != userID || a.TenantID != tenantID {
			continue
		}
		if a.StoreID == nil {
			out = append(out, a)
			continue
		}
		if storeID != nil && *a.StoreID == *storeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (d *fakeDirectory) ListRolePermissions(_ context.Context, roleIDs []uuid.UUID) ([]string, error) {
	seen := map[string]struct{}{}
	var names []string
	for _, id := range roleIDs {
		for _, n := range d.rolePerms[id] {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	return names, nil
}

// seedIdentity creates an active user, serving tenant and membership.
func seedIdentity(dir *fakeDirectory) (*model.User, *model.Tenant) {
	user := &model.User{IsActive: true, TokenVersion: 1}
	user.ID = uuid.New()
	tenant := &model.Tenant{Status: model.TenantActive}
	tenant.ID = uuid.New()

	dir.users[user.ID] = user
	dir.tenants[tenant.ID] = tenant
	dir.memberships[pairKey(user.ID, tenant.ID)] = &model.TenantUser{UserID: user.ID, TenantID: tenant.ID}
	return user, tenant
}

func seedStore(dir *fakeDirectory, tenantID uuid.UUID, userID uuid.UUID, active bool, member bool) *model.Store {
	store := &model.Store{IsActive: active}
	store.ID = uuid.New()
	store.TenantID = tenantID
	dir.stores[store.ID] = store
	if member {
		dir.storeMemberships[pairKey(userID, store.ID)] = &model.StoreUser{
			UserID: userID, StoreID: store.ID, TenantID: tenantID,
		}
	}
	return store
}

func newTestResolver(dir *fakeDirectory) (*ContextResolver, *token.Codec) {
	codec := token.NewCodec("test-secret", time.Hour, 24*time.Hour)
	return NewContextResolver(codec, dir), codec
}

func TestResolveHappyPath(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	raw, err := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	require.NoError(t, err)

	rc, err := resolver.Resolve(context.Background(), raw, "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, rc.User.ID)
	assert.Equal(t, tenant.ID, rc.Tenant.ID)
	assert.NotNil(t, rc.Membership)
	assert.Nil(t, rc.Store)
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	resolver, _ := newTestResolver(newFakeDirectory())

	_, err := resolver.Resolve(context.Background(), "garbage", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveRejectsRefreshTokenOnAccessPath(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	refresh, err := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindRefresh)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), refresh, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveInactiveUser(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	user.IsActive = false
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveStaleTokenVersion(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	user.TokenVersion++ // password change or logout-all

	_, err := resolver.Resolve(context.Background(), raw, "")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResolveSuspendedTenant(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	tenant.Status = model.TenantSuspended
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, "")
	assert.ErrorIs(t, err, ErrTenantSuspended)
}

func TestResolveCanceledTenantLooksMissing(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	tenant.Status = model.TenantCanceled
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, "")
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveMissingMembership(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	delete(dir.memberships, pairKey(user.ID, tenant.ID))
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, "")
	assert.ErrorIs(t, err, ErrTenantAccessDenied)
}

func TestResolveWithStore(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	store := seedStore(dir, tenant.ID, user.ID, true, true)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	rc, err := resolver.Resolve(context.Background(), raw, store.ID.String())
	require.NoError(t, err)
	require.NotNil(t, rc.Store)
	assert.Equal(t, store.ID, rc.Store.ID)
}

func TestResolveCrossTenantStoreLooksMissing(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	otherTenant := uuid.New()
	store := seedStore(dir, otherTenant, user.ID, true, true)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, store.ID.String())
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestResolveInactiveStore(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	store := seedStore(dir, tenant.ID, user.ID, false, true)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, store.ID.String())
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestResolveStoreWithoutAssignment(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	store := seedStore(dir, tenant.ID, user.ID, true, false)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, store.ID.String())
	assert.ErrorIs(t, err, ErrStoreAccessDenied)
}

func TestResolveMalformedStoreHint(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	raw, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, err := resolver.Resolve(context.Background(), raw, "not-a-uuid")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestResolveRefreshRoundTrip(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	refresh, err := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindRefresh)
	require.NoError(t, err)

	gotUser, gotTenant, err := resolver.ResolveRefresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.Equal(t, tenant.ID, gotTenant.ID)
}

func TestResolveRefreshRejectsAccessToken(t *testing.T) {
	dir := newFakeDirectory()
	user, tenant := seedIdentity(dir)
	resolver, codec := newTestResolver(dir)

	access, _ := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	_, _, err := resolver.ResolveRefresh(context.Background(), access)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
