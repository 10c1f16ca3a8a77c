package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
)

// StoreRepository manages stores and store assignments. Store reads and
// writes go through the scope guard; assignment rows are keyed by ids the
// service has already verified against the current tenant.
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	List(ctx context.Context, page, limit int) ([]model.Store, int64, error)
	Update(ctx context.Context, store *model.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	AssignUser(ctx context.Context, assignment *model.StoreUser) error
	UnassignUser(ctx context.Context, userID, storeID uuid.UUID) error
	GetAssignment(ctx context.Context, userID, storeID uuid.UUID) (*model.StoreUser, error)
	ListUserStores(ctx context.Context, userID, tenantID uuid.UUID) ([]model.Store, error)
	ListStoreUsers(ctx context.Context, storeID uuid.UUID) ([]model.StoreUser, error)
}

type storeRepository struct {
	db     *gorm.DB
	scoped *ScopedDB
}

func NewStoreRepository(db *gorm.DB, scoped *ScopedDB) StoreRepository {
	return &storeRepository{db: db, scoped: scoped}
}

func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	return r.scoped.Create(ctx, store)
}

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	q, err := r.scoped.Read(ctx, &model.Store{})
	if err != nil {
		return nil, err
	}
	var store model.Store
	if err := q.First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context, page, limit int) ([]model.Store, int64, error) {
	countQ, err := r.scoped.Read(ctx, &model.Store{})
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q, err := r.scoped.Read(ctx, &model.Store{})
	if err != nil {
		return nil, 0, err
	}
	var stores []model.Store
	offset := (page - 1) * limit
	if err := q.Order("created_at asc").Offset(offset).Limit(limit).Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

func (r *storeRepository) Update(ctx context.Context, store *model.Store) error {
	return r.scoped.Save(ctx, store)
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.scoped.Delete(ctx, &model.Store{}, "id = ?", id)
}

func (r *storeRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.Store{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *storeRepository) AssignUser(ctx context.Context, assignment *model.StoreUser) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

func (r *storeRepository) UnassignUser(ctx context.Context, userID, storeID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Delete(&model.StoreUser{}).Error
}

func (r *storeRepository) GetAssignment(ctx context.Context, userID, storeID uuid.UUID) (*model.StoreUser, error) {
	var su model.StoreUser
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&su).Error
	if err != nil {
		return nil, err
	}
	return &su, nil
}

func (r *storeRepository) ListUserStores(ctx context.Context, userID, tenantID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	err := GetDB(ctx, r.db).
		Joins("JOIN store_users ON store_users.store_id = stores.id").
		Where("store_users.user_id = ? AND stores.tenant_id = ?", userID, tenantID).
		Order("stores.created_at asc").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) ListStoreUsers(ctx context.Context, storeID uuid.UUID) ([]model.StoreUser, error) {
	var assignments []model.StoreUser
	err := GetDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("assigned_at asc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
