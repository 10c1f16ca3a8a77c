package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
)

// TenantRepository manages tenants and tenant memberships. Tenants themselves
// are the scope boundary, so this repository reads the root handle.
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	Update(ctx context.Context, tenant *model.Tenant) error

	AddMember(ctx context.Context, membership *model.TenantUser) error
	GetMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.TenantUser, error)
	ListMemberships(ctx context.Context, userID uuid.UUID) ([]model.TenantUser, error)
	CountMembers(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Create(tenant).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := GetDB(ctx, r.db).First(&tenant, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return GetDB(ctx, r.db).Save(tenant).Error
}

func (r *tenantRepository) AddMember(ctx context.Context, membership *model.TenantUser) error {
	return GetDB(ctx, r.db).Create(membership).Error
}

func (r *tenantRepository) GetMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.TenantUser, error) {
	var tu model.TenantUser
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		First(&tu).Error
	if err != nil {
		return nil, err
	}
	return &tu, nil
}

func (r *tenantRepository) ListMemberships(ctx context.Context, userID uuid.UUID) ([]model.TenantUser, error) {
	var memberships []model.TenantUser
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("joined_at asc").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *tenantRepository) CountMembers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.TenantUser{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}
