package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
)

// RoleRepository manages roles, the global permission catalog, role grants
// and user role assignments. Roles are tenant-scoped and go through the scope
// guard; permissions are global and read directly.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *model.Role) error
	UpdateRole(ctx context.Context, role *model.Role) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
	GetRoleByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)

	ListPermissions(ctx context.Context) ([]model.Permission, error)
	GetPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error)
	SyncPermission(ctx context.Context, perm *model.Permission) error

	ReplaceGrants(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
	ListGrants(ctx context.Context, roleID uuid.UUID) ([]model.Permission, error)

	Assign(ctx context.Context, assignment *model.UserRole) error
	Revoke(ctx context.Context, userID, roleID uuid.UUID, storeID *uuid.UUID) error
	GetAssignment(ctx context.Context, userID, roleID uuid.UUID, storeID *uuid.UUID) (*model.UserRole, error)
	ListUserAssignments(ctx context.Context, userID, tenantID uuid.UUID) ([]model.UserRole, error)
	CountRoleAssignments(ctx context.Context, roleID uuid.UUID) (int64, error)
}

type roleRepository struct {
	db     *gorm.DB
	scoped *ScopedDB
}

func NewRoleRepository(db *gorm.DB, scoped *ScopedDB) RoleRepository {
	return &roleRepository{db: db, scoped: scoped}
}

func (r *roleRepository) CreateRole(ctx context.Context, role *model.Role) error {
	return r.scoped.Create(ctx, role)
}

func (r *roleRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	return r.scoped.Save(ctx, role)
}

func (r *roleRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return r.scoped.Delete(ctx, &model.Role{}, "id = ?", id)
}

func (r *roleRepository) GetRoleByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	q, err := r.scoped.Read(ctx, &model.Role{})
	if err != nil {
		return nil, err
	}
	var role model.Role
	if err := q.First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	q, err := r.scoped.Read(ctx, &model.Role{})
	if err != nil {
		return nil, err
	}
	var role model.Role
	if err := q.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	q, err := r.scoped.Read(ctx, &model.Role{})
	if err != nil {
		return nil, err
	}
	var roles []model.Role
	if err := q.Order("created_at asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).Order("resource asc, name asc").Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) GetPermissionsByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).Where("name IN ?", names).Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) SyncPermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).
		Where("name = ?", perm.Name).
		FirstOrCreate(perm).Error
}

// ReplaceGrants swaps the role's permission set in place.
func (r *roleRepository) ReplaceGrants(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
		return err
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	grants := make([]model.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		grants = append(grants, model.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return db.Create(&grants).Error
}

func (r *roleRepository) ListGrants(ctx context.Context, roleID uuid.UUID) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.resource asc, permissions.name asc").
		Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *roleRepository) Assign(ctx context.Context, assignment *model.UserRole) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *roleRepository) Revoke(ctx context.Context, userID, roleID uuid.UUID, storeID *uuid.UUID) error {
	q := GetDB(ctx, r.db).Where("user_id = ? AND role_id = ?", userID, roleID)
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	} else {
		q = q.Where("store_id IS NULL")
	}
	return q.Delete(&model.UserRole{}).Error
}

func (r *roleRepository) GetAssignment(ctx context.Context, userID, roleID uuid.UUID, storeID *uuid.UUID) (*model.UserRole, error) {
	q := GetDB(ctx, r.db).Where("user_id = ? AND role_id = ?", userID, roleID)
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	} else {
		q = q.Where("store_id IS NULL")
	}
	var ur model.UserRole
	if err := q.First(&ur).Error; err != nil {
		return nil, err
	}
	return &ur, nil
}

func (r *roleRepository) ListUserAssignments(ctx context.Context, userID, tenantID uuid.UUID) ([]model.UserRole, error) {
	var assignments []model.UserRole
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Order("assigned_at asc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *roleRepository) CountRoleAssignments(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.UserRole{}).
		Where("role_id = ?", roleID).
		Count(&count).Error
	return count, err
}
