package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/tenancy"
)

// tillSession is a store-scoped entity used only to exercise the guard.
type tillSession struct {
	model.StoreScopedModel
	Label string
}

func (tillSession) TableName() string { return "till_sessions" }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func requestCtx(tenantID, userID uuid.UUID, storeID *uuid.UUID) context.Context {
	user := &model.User{}
	user.ID = userID
	tenant := &model.Tenant{Status: model.TenantActive}
	tenant.ID = tenantID

	rc := &tenancy.RequestContext{User: user, Tenant: tenant}
	if storeID != nil {
		store := &model.Store{IsActive: true}
		store.ID = *storeID
		store.TenantID = tenantID
		rc.Store = store
	}
	return tenancy.WithRequestContext(context.Background(), rc)
}

func TestReadInjectsTenantPredicate(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	tenantID := uuid.New()
	ctx := requestCtx(tenantID, uuid.New(), nil)

	mock.ExpectQuery(`SELECT .* FROM "stores" WHERE tenant_id = .*`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q, err := scoped.Read(ctx, &model.Store{})
	require.NoError(t, err)

	var stores []model.Store
	require.NoError(t, q.Find(&stores).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadInjectsStorePredicate(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	tenantID := uuid.New()
	storeID := uuid.New()
	ctx := requestCtx(tenantID, uuid.New(), &storeID)

	mock.ExpectQuery(`SELECT .* FROM "till_sessions" WHERE tenant_id = .* AND store_id = .*`).
		WithArgs(tenantID, storeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q, err := scoped.Read(ctx, &tillSession{})
	require.NoError(t, err)

	var sessions []tillSession
	require.NoError(t, q.Find(&sessions).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadWithoutContextFails(t *testing.T) {
	db, _ := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	_, err := scoped.Read(context.Background(), &model.Store{})
	assert.ErrorIs(t, err, tenancy.ErrMissingTenantContext)
}

func TestStoreScopedReadRequiresStore(t *testing.T) {
	db, _ := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	ctx := requestCtx(uuid.New(), uuid.New(), nil)
	_, err := scoped.Read(ctx, &tillSession{})
	assert.ErrorIs(t, err, tenancy.ErrStoreContextRequired)
}

func TestCreateStampsScope(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	tenantID := uuid.New()
	userID := uuid.New()
	ctx := requestCtx(tenantID, userID, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "stores" .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	store := &model.Store{Name: "Main Street", IsActive: true}
	require.NoError(t, scoped.Create(ctx, store))

	assert.Equal(t, tenantID, store.TenantID)
	require.NotNil(t, store.CreatedBy)
	assert.Equal(t, userID, *store.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsForeignTenant(t *testing.T) {
	db, _ := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	ctx := requestCtx(uuid.New(), uuid.New(), nil)

	store := &model.Store{Name: "Smuggled"}
	store.TenantID = uuid.New() // pre-filled with someone else's tenant

	err := scoped.Create(ctx, store)
	assert.ErrorIs(t, err, tenancy.ErrTenantAccessDenied)
}

func TestSaveRejectsForeignTenant(t *testing.T) {
	db, _ := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	ctx := requestCtx(uuid.New(), uuid.New(), nil)

	store := &model.Store{Name: "Elsewhere"}
	store.ID = uuid.New()
	store.TenantID = uuid.New()

	err := scoped.Save(ctx, store)
	assert.ErrorIs(t, err, tenancy.ErrTenantAccessDenied)
}

func TestDeleteStaysInScope(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	tenantID := uuid.New()
	storeID := uuid.New()
	ctx := requestCtx(tenantID, uuid.New(), nil)

	// Soft delete renders as UPDATE setting deleted_at.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stores" SET "deleted_at"=.* WHERE tenant_id = .* AND id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, scoped.Delete(ctx, &model.Store{}, "id = ?", storeID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSystemAccessBypassesScope(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := NewScopedDB(db, zap.NewNop())

	ctx := tenancy.WithSystemAccess(context.Background(), "test seeding")

	mock.ExpectQuery(`SELECT .* FROM "stores"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q, err := scoped.Read(ctx, &model.Store{})
	require.NoError(t, err)

	var stores []model.Store
	require.NoError(t, q.Find(&stores).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
