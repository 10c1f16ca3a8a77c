package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/tenancy"
)

// identityRepository implements tenancy.Directory on top of gorm. It runs
// before any request context exists, so it reads the root handle directly and
// reports "not found" as (nil, nil) instead of leaking gorm errors upward.
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository returns the credential directory the context resolver
// reads from.
func NewIdentityRepository(db *gorm.DB) tenancy.Directory {
	return &identityRepository{db: db}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *identityRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *identityRepository) FindTenantByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *identityRepository) FindMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.TenantUser, error) {
	var tu model.TenantUser
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		First(&tu).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &tu, nil
}

func (r *identityRepository) FindStoreByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := GetDB(ctx, r.db).First(&store, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *identityRepository) FindStoreMembership(ctx context.Context, userID, storeID uuid.UUID) (*model.StoreUser, error) {
	var su model.StoreUser
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&su).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &su, nil
}

// ListRoleAssignments returns the user's tenant-wide assignments plus, when
// storeID is set, the ones scoped to that store.
func (r *identityRepository) ListRoleAssignments(ctx context.Context, userID, tenantID uuid.UUID, storeID *uuid.UUID) ([]model.UserRole, error) {
	q := GetDB(ctx, r.db).Where("user_id = ? AND tenant_id = ?", userID, tenantID)
	if storeID != nil {
		q = q.Where("store_id IS NULL OR store_id = ?", *storeID)
	} else {
		q = q.Where("store_id IS NULL")
	}

	var assignments []model.UserRole
	if err := q.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *identityRepository) ListRolePermissions(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	var names []string
	err := GetDB(ctx, r.db).
		Model(&model.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
