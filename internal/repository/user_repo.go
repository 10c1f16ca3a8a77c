package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
)

// UserRepository manages the global user table. Users are not tenant-scoped;
// tenant visibility is handled by membership queries, never by row ownership.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// BumpTokenVersion atomically increments the user's token version,
	// invalidating every outstanding token.
	BumpTokenVersion(ctx context.Context, id uuid.UUID) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", model.NormalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}

func (r *userRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.User, int64, error) {
	var total int64
	err := GetDB(ctx, r.db).
		Model(&model.User{}).
		Joins("JOIN tenant_users ON tenant_users.user_id = users.id").
		Where("tenant_users.tenant_id = ?", tenantID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var users []model.User
	offset := (page - 1) * limit
	err = GetDB(ctx, r.db).
		Joins("JOIN tenant_users ON tenant_users.user_id = users.id").
		Where("tenant_users.tenant_id = ?", tenantID).
		Order("users.created_at asc").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
