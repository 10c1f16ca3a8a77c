package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub/internal/model"
	"storehub/internal/tenancy"
	"storehub/internal/token"
)

type stubDirectory struct {
	user        *model.User
	tenant      *model.Tenant
	membership  *model.TenantUser
	store       *model.Store
	storeMember *model.StoreUser
	assignments []model.UserRole
	rolePerms   map[uuid.UUID][]string
}

func (d *stubDirectory) FindUserByID(context.Context, uuid.UUID) (*model.User, error) {
	return d.user, nil
}

func (d *stubDirectory) FindTenantByID(context.Context, uuid.UUID) (*model.Tenant, error) {
	return d.tenant, nil
}

func (d *stubDirectory) FindMembership(context.Context, uuid.UUID, uuid.UUID) (*model.TenantUser, error) {
	return d.membership, nil
}

func (d *stubDirectory) FindStoreByID(context.Context, uuid.UUID) (*model.Store, error) {
	return d.store, nil
}

func (d *stubDirectory) FindStoreMembership(context.Context, uuid.UUID, uuid.UUID) (*model.StoreUser, error) {
	return d.storeMember, nil
}

func (d *stubDirectory) ListRoleAssignments(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]model.UserRole, error) {
	return d.assignments, nil
}

func (d *stubDirectory) ListRolePermissions(_ context.Context, roleIDs []uuid.UUID) ([]string, error) {
	var names []string
	for _, id := range roleIDs {
		names = append(names, d.rolePerms[id]...)
	}
	return names, nil
}

func testSetup(t *testing.T) (*stubDirectory, *tenancy.ContextResolver, *token.Codec, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user := &model.User{IsActive: true, TokenVersion: 1}
	user.ID = uuid.New()
	tenant := &model.Tenant{Status: model.TenantActive}
	tenant.ID = uuid.New()

	dir := &stubDirectory{
		user:       user,
		tenant:     tenant,
		membership: &model.TenantUser{UserID: user.ID, TenantID: tenant.ID},
		rolePerms:  map[uuid.UUID][]string{},
	}

	codec := token.NewCodec("test-secret", time.Hour, 24*time.Hour)
	resolver := tenancy.NewContextResolver(codec, dir)

	raw, err := codec.Issue(user.ID, tenant.ID, user.TokenVersion, token.KindAccess)
	require.NoError(t, err)
	return dir, resolver, codec, raw
}

func newRouter(resolver *tenancy.ContextResolver, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{RequestContext(resolver)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		rc, _ := GetRequestContext(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": rc.Tenant.ID})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestContextMissingHeader(t *testing.T) {
	_, resolver, _, _ := testSetup(t)
	router := newRouter(resolver)

	w := doRequest(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestContextMalformedHeader(t *testing.T) {
	_, resolver, _, raw := testSetup(t)
	router := newRouter(resolver)

	for _, header := range []string{"Bearer", raw, "Basic " + raw, "Bearer "} {
		w := doRequest(router, map[string]string{"Authorization": header})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequestContextHappyPath(t *testing.T) {
	dir, resolver, _, raw := testSetup(t)
	router := newRouter(resolver)

	w := doRequest(router, map[string]string{"Authorization": "Bearer " + raw})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dir.tenant.ID.String(), body["tenant_id"])
}

func TestRequestContextExpiredToken(t *testing.T) {
	dir, _, _, _ := testSetup(t)

	expiredCodec := token.NewCodec("test-secret", -time.Minute, -time.Minute)
	raw, err := expiredCodec.Issue(dir.user.ID, dir.tenant.ID, dir.user.TokenVersion, token.KindAccess)
	require.NoError(t, err)

	router := newRouter(tenancy.NewContextResolver(token.NewCodec("test-secret", time.Hour, time.Hour), dir))
	w := doRequest(router, map[string]string{"Authorization": "Bearer " + raw})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token_expired")
}

func TestRequestContextStoreHeader(t *testing.T) {
	dir, resolver, _, raw := testSetup(t)

	store := &model.Store{IsActive: true}
	store.ID = uuid.New()
	store.TenantID = dir.tenant.ID
	dir.store = store
	dir.storeMember = &model.StoreUser{UserID: dir.user.ID, StoreID: store.ID, TenantID: dir.tenant.ID}

	router := gin.New()
	router.GET("/protected", RequestContext(resolver), func(c *gin.Context) {
		rc, _ := GetRequestContext(c)
		require.NotNil(t, rc.Store)
		c.JSON(http.StatusOK, gin.H{"store_id": rc.Store.ID})
	})

	w := doRequest(router, map[string]string{
		"Authorization": "Bearer " + raw,
		StoreHeader:     store.ID.String(),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDenies(t *testing.T) {
	_, resolver, _, raw := testSetup(t)
	router := newRouter(resolver, RequirePermission("users.view"))

	w := doRequest(router, map[string]string{"Authorization": "Bearer " + raw})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
	assert.Contains(t, w.Body.String(), "users.view")
}

func TestRequirePermissionAllows(t *testing.T) {
	dir, resolver, _, raw := testSetup(t)

	roleID := uuid.New()
	dir.rolePerms[roleID] = []string{"users.view"}
	dir.assignments = []model.UserRole{{UserID: dir.user.ID, TenantID: dir.tenant.ID, RoleID: roleID}}

	router := newRouter(resolver, RequirePermission("users.view"))
	w := doRequest(router, map[string]string{"Authorization": "Bearer " + raw})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireStore(t *testing.T) {
	_, resolver, _, raw := testSetup(t)
	router := newRouter(resolver, RequireStore())

	w := doRequest(router, map[string]string{"Authorization": "Bearer " + raw})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "store_context_required")
}
