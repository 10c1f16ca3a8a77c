package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
)

// SubscriptionRepository manages plans and tenant subscriptions. Plans are a
// global catalog; subscriptions are keyed one-per-tenant.
type SubscriptionRepository interface {
	ListPlans(ctx context.Context) ([]model.Plan, error)
	GetPlanByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	GetPlanBySlug(ctx context.Context, slug string) (*model.Plan, error)
	CreatePlan(ctx context.Context, plan *model.Plan) error

	Create(ctx context.Context, sub *model.Subscription) error
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*model.Subscription, error)
	Update(ctx context.Context, sub *model.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("price_monthly asc").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *subscriptionRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var plan model.Plan
	if err := GetDB(ctx, r.db).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) GetPlanBySlug(ctx context.Context, slug string) (*model.Plan, error) {
	var plan model.Plan
	if err := GetDB(ctx, r.db).First(&plan, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) CreatePlan(ctx context.Context, plan *model.Plan) error {
	return GetDB(ctx, r.db).Create(plan).Error
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return GetDB(ctx, r.db).Create(sub).Error
}

func (r *subscriptionRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	err := GetDB(ctx, r.db).
		Preload("Plan").
		Where("tenant_id = ?", tenantID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.Subscription) error {
	return GetDB(ctx, r.db).Save(sub).Error
}
