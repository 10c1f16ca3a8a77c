package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/repository"
	"storehub/internal/tenancy"
)

var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrUserLimitReached  = errors.New("plan user limit reached")
	ErrStoreLimitReached = errors.New("plan store limit reached")
	ErrNoSubscription    = errors.New("tenant has no subscription")
)

// SubscriptionService exposes the tenant's plan, limits and plan changes.
type SubscriptionService interface {
	ListPlans(ctx context.Context) ([]model.Plan, error)
	Current(ctx context.Context) (*model.Subscription, error)
	ChangePlan(ctx context.Context, planSlug string) (*model.Subscription, error)
	// CanAddUser and CanAddStore enforce plan limits before growth
	// operations.
	CanAddUser(ctx context.Context) error
	CanAddStore(ctx context.Context) error
}

type subscriptionService struct {
	subs    repository.SubscriptionRepository
	tenants repository.TenantRepository
	stores  repository.StoreRepository
}

func NewSubscriptionService(
	subs repository.SubscriptionRepository,
	tenants repository.TenantRepository,
	stores repository.StoreRepository,
) SubscriptionService {
	return &subscriptionService{subs: subs, tenants: tenants, stores: stores}
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]model.Plan, error) {
	return s.subs.ListPlans(ctx)
}

func (s *subscriptionService) current(ctx context.Context) (*model.Subscription, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}
	sub, err := s.subs.GetByTenant(ctx, rc.Tenant.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) Current(ctx context.Context) (*model.Subscription, error) {
	return s.current(ctx)
}

func (s *subscriptionService) ChangePlan(ctx context.Context, planSlug string) (*model.Subscription, error) {
	sub, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.subs.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	sub.PlanID = plan.ID
	sub.Plan = plan
	sub.Status = model.SubscriptionActive
	sub.CurrentPeriodEnd = &periodEnd
	sub.CanceledAt = nil
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) CanAddUser(ctx context.Context) error {
	sub, err := s.current(ctx)
	if err != nil {
		return err
	}
	if sub.Plan == nil || sub.Plan.MaxUsers == nil {
		return nil
	}

	rc, _ := tenancy.FromContext(ctx)
	count, err := s.tenants.CountMembers(ctx, rc.Tenant.ID)
	if err != nil {
		return err
	}
	if count >= int64(*sub.Plan.MaxUsers) {
		return ErrUserLimitReached
	}
	return nil
}

func (s *subscriptionService) CanAddStore(ctx context.Context) error {
	sub, err := s.current(ctx)
	if err != nil {
		return err
	}
	if sub.Plan == nil || sub.Plan.MaxStores == nil {
		return nil
	}

	rc, _ := tenancy.FromContext(ctx)
	count, err := s.stores.CountByTenant(ctx, rc.Tenant.ID)
	if err != nil {
		return err
	}
	if count >= int64(*sub.Plan.MaxStores) {
		return ErrStoreLimitReached
	}
	return nil
}
