package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/repository"
	"storehub/internal/tenancy"
	"storehub/internal/websocket"
)

type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
}

type UpdateStoreRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	IsActive *bool  `json:"is_active"`
}

type AssignStoreUserRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

var ErrAlreadyInStore = errors.New("user is already assigned to this store")

// StoreService manages the tenant's stores and store assignments.
type StoreService interface {
	Create(ctx context.Context, req CreateStoreRequest) (*model.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Store, error)
	List(ctx context.Context, page, limit int) ([]model.Store, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*model.Store, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AssignUser(ctx context.Context, storeID uuid.UUID, req AssignStoreUserRequest) error
	UnassignUser(ctx context.Context, storeID, userID uuid.UUID) error
	ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreUser, error)
	ListMine(ctx context.Context) ([]model.Store, error)
}

type storeService struct {
	stores  repository.StoreRepository
	tenants repository.TenantRepository
	subs    SubscriptionService
	audit   AuditService
	hub     *websocket.Hub
}

func NewStoreService(
	stores repository.StoreRepository,
	tenants repository.TenantRepository,
	subs SubscriptionService,
	audit AuditService,
	hub *websocket.Hub,
) StoreService {
	return &storeService{stores: stores, tenants: tenants, subs: subs, audit: audit, hub: hub}
}

func (s *storeService) Create(ctx context.Context, req CreateStoreRequest) (*model.Store, error) {
	if err := s.subs.CanAddStore(ctx); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.ActionStoreCreated, store.ID.String(), store.Name, nil)
	if rc, ok := tenancy.FromContext(ctx); ok {
		s.hub.Broadcast(rc.Tenant.ID, "store.created", store)
	}
	return store, nil
}

func (s *storeService) Get(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenancy.ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) List(ctx context.Context, page, limit int) ([]model.Store, int64, error) {
	return s.stores.List(ctx, page, limit)
}

func (s *storeService) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*model.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Address != "" {
		store.Address = req.Address
	}
	if req.Phone != "" {
		store.Phone = req.Phone
	}
	if req.Email != "" {
		store.Email = req.Email
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.ActionStoreUpdated, store.ID.String(), store.Name, nil)
	return store, nil
}

func (s *storeService) Delete(ctx context.Context, id uuid.UUID) error {
	store, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, store.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, model.ActionStoreDeleted, store.ID.String(), store.Name, nil)
	return nil
}

// AssignUser grants a tenant member access to one store. The denormalized
// tenant id on the assignment always comes from the verified store row.
func (s *storeService) AssignUser(ctx context.Context, storeID uuid.UUID, req AssignStoreUserRequest) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrMissingTenantContext
	}

	store, err := s.Get(ctx, storeID)
	if err != nil {
		return err
	}

	if _, err := s.tenants.GetMembership(ctx, req.UserID, rc.Tenant.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotTenantMember
		}
		return err
	}

	if _, err := s.stores.GetAssignment(ctx, req.UserID, store.ID); err == nil {
		return ErrAlreadyInStore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	actor := rc.User.ID
	if err := s.stores.AssignUser(ctx, &model.StoreUser{
		UserID:     req.UserID,
		StoreID:    store.ID,
		TenantID:   store.TenantID,
		AssignedBy: &actor,
	}); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]interface{}{"user_id": req.UserID, "store": store.Name})
	s.audit.Record(ctx, model.ActionStoreAccess, req.UserID.String(), store.Name, details)
	return nil
}

func (s *storeService) UnassignUser(ctx context.Context, storeID, userID uuid.UUID) error {
	store, err := s.Get(ctx, storeID)
	if err != nil {
		return err
	}
	if err := s.stores.UnassignUser(ctx, userID, store.ID); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]interface{}{"user_id": userID, "store": store.Name})
	s.audit.Record(ctx, model.ActionStoreAccess, userID.String(), store.Name, details)
	return nil
}

func (s *storeService) ListMembers(ctx context.Context, storeID uuid.UUID) ([]model.StoreUser, error) {
	store, err := s.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.stores.ListStoreUsers(ctx, store.ID)
}

// ListMine returns the stores assigned to the current user.
func (s *storeService) ListMine(ctx context.Context) ([]model.Store, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}
	return s.stores.ListUserStores(ctx, rc.User.ID, rc.Tenant.ID)
}
