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

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"required"`
}

type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type AssignRoleRequest struct {
	UserID  uuid.UUID  `json:"user_id" binding:"required"`
	RoleID  uuid.UUID  `json:"role_id" binding:"required"`
	StoreID *uuid.UUID `json:"store_id"`
}

type RoleResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsSystemRole bool      `json:"is_system_role"`
	Permissions  []string  `json:"permissions"`
}

var (
	ErrRoleNameTaken      = errors.New("a role with this name already exists")
	ErrSystemRoleReadOnly = errors.New("system roles cannot be modified or deleted")
	ErrRoleInUse          = errors.New("role is still assigned to users")
	ErrUnknownPermission  = errors.New("unknown permission name")
	ErrRoleNotFound       = errors.New("role not found")
	ErrNotTenantMember    = errors.New("user is not a member of this tenant")
	ErrAlreadyAssigned    = errors.New("role already assigned")
	ErrAssignmentMissing  = errors.New("role assignment not found")
)

// RBACService manages roles, grants and assignments within the current
// tenant.
type RBACService interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, roleID uuid.UUID) error
	GetRole(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	ListPermissions(ctx context.Context) ([]tenancy.PermissionDef, error)

	AssignRole(ctx context.Context, req AssignRoleRequest) error
	RevokeRole(ctx context.Context, req AssignRoleRequest) error
	ListUserRoles(ctx context.Context, userID uuid.UUID) ([]model.UserRole, error)
}

type rbacService struct {
	roles   repository.RoleRepository
	stores  repository.StoreRepository
	tenants repository.TenantRepository
	audit   AuditService
	hub     *websocket.Hub
}

func NewRBACService(
	roles repository.RoleRepository,
	stores repository.StoreRepository,
	tenants repository.TenantRepository,
	audit AuditService,
	hub *websocket.Hub,
) RBACService {
	return &rbacService{roles: roles, stores: stores, tenants: tenants, audit: audit, hub: hub}
}

func (s *rbacService) mapRole(ctx context.Context, role *model.Role) (*RoleResponse, error) {
	grants, err := s.roles.ListGrants(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(grants))
	for _, g := range grants {
		names = append(names, g.Name)
	}
	return &RoleResponse{
		ID:           role.ID,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
		Permissions:  names,
	}, nil
}

func validatePermissionNames(names []string) error {
	for _, n := range names {
		if !tenancy.IsRegistered(n) {
			return ErrUnknownPermission
		}
	}
	return nil
}

func (s *rbacService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if err := validatePermissionNames(req.Permissions); err != nil {
		return nil, err
	}
	if _, err := s.roles.GetRoleByName(ctx, req.Name); err == nil {
		return nil, ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.roles.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	if err := s.replaceGrantsByName(ctx, role.ID, req.Permissions); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, model.ActionRoleCreated, role.ID.String(), role.Name, nil)
	return s.mapRole(ctx, role)
}

func (s *rbacService) replaceGrantsByName(ctx context.Context, roleID uuid.UUID, names []string) error {
	perms, err := s.roles.GetPermissionsByNames(ctx, names)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return s.roles.ReplaceGrants(ctx, roleID, ids)
}

func (s *rbacService) UpdateRole(ctx context.Context, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	if role.IsSystemRole {
		return nil, ErrSystemRoleReadOnly
	}

	if req.Name != "" && req.Name != role.Name {
		if _, err := s.roles.GetRoleByName(ctx, req.Name); err == nil {
			return nil, ErrRoleNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := s.roles.UpdateRole(ctx, role); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := validatePermissionNames(req.Permissions); err != nil {
			return nil, err
		}
		if err := s.replaceGrantsByName(ctx, role.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, model.ActionRoleUpdated, role.ID.String(), role.Name, nil)
	return s.mapRole(ctx, role)
}

func (s *rbacService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if role.IsSystemRole {
		return ErrSystemRoleReadOnly
	}

	count, err := s.roles.CountRoleAssignments(ctx, role.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.roles.DeleteRole(ctx, role.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, model.ActionRoleDeleted, role.ID.String(), role.Name, nil)
	return nil
}

func (s *rbacService) GetRole(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return s.mapRole(ctx, role)
}

func (s *rbacService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		mapped, err := s.mapRole(ctx, &roles[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

func (s *rbacService) ListPermissions(ctx context.Context) ([]tenancy.PermissionDef, error) {
	return tenancy.AllPermissions(), nil
}

// AssignRole grants a role to a tenant member, optionally narrowed to one
// store. The role and store must both belong to the current tenant.
func (s *rbacService) AssignRole(ctx context.Context, req AssignRoleRequest) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrMissingTenantContext
	}

	role, err := s.roles.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if _, err := s.tenants.GetMembership(ctx, req.UserID, rc.Tenant.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotTenantMember
		}
		return err
	}

	if req.StoreID != nil {
		if _, err := s.stores.GetByID(ctx, *req.StoreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tenancy.ErrStoreNotFound
			}
			return err
		}
	}

	if _, err := s.roles.GetAssignment(ctx, req.UserID, req.RoleID, req.StoreID); err == nil {
		return ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	actor := rc.User.ID
	if err := s.roles.Assign(ctx, &model.UserRole{
		UserID:     req.UserID,
		RoleID:     req.RoleID,
		TenantID:   rc.Tenant.ID,
		StoreID:    req.StoreID,
		AssignedBy: &actor,
	}); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"user_id":  req.UserID,
		"role":     role.Name,
		"store_id": req.StoreID,
	})
	s.audit.Record(ctx, model.ActionRoleAssigned, req.UserID.String(), role.Name, details)
	s.hub.Broadcast(rc.Tenant.ID, "role.assigned", map[string]interface{}{
		"user_id": req.UserID,
		"role":    role.Name,
	})
	return nil
}

func (s *rbacService) RevokeRole(ctx context.Context, req AssignRoleRequest) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrMissingTenantContext
	}

	role, err := s.roles.GetRoleByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if _, err := s.roles.GetAssignment(ctx, req.UserID, req.RoleID, req.StoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentMissing
		}
		return err
	}

	if err := s.roles.Revoke(ctx, req.UserID, req.RoleID, req.StoreID); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"user_id":  req.UserID,
		"role":     role.Name,
		"store_id": req.StoreID,
	})
	s.audit.Record(ctx, model.ActionRoleRevoked, req.UserID.String(), role.Name, details)
	s.hub.Broadcast(rc.Tenant.ID, "role.revoked", map[string]interface{}{
		"user_id": req.UserID,
		"role":    role.Name,
	})
	return nil
}

func (s *rbacService) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]model.UserRole, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}
	return s.roles.ListUserAssignments(ctx, userID, rc.Tenant.ID)
}
