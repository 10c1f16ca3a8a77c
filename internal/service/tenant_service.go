package service

import (
	"context"

	"storehub/internal/repository"
	"storehub/internal/tenancy"
)

type UpdateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// TenantService exposes the current tenant's settings. There is no
// cross-tenant listing; a request only ever sees its own tenant.
type TenantService interface {
	Current(ctx context.Context) (*TenantResponse, error)
	Update(ctx context.Context, req UpdateTenantRequest) (*TenantResponse, error)
}

type tenantService struct {
	tenants repository.TenantRepository
}

func NewTenantService(tenants repository.TenantRepository) TenantService {
	return &tenantService{tenants: tenants}
}

func (s *tenantService) Current(ctx context.Context) (*TenantResponse, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}
	return mapTenant(rc.Tenant), nil
}

func (s *tenantService) Update(ctx context.Context, req UpdateTenantRequest) (*TenantResponse, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}

	tenant, err := s.tenants.GetByID(ctx, rc.Tenant.ID)
	if err != nil {
		return nil, err
	}
	tenant.Name = req.Name
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return mapTenant(tenant), nil
}
