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
)

type InviteUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type MemberResponse struct {
	UserResponse
	Roles []model.UserRole `json:"roles"`
}

var (
	ErrAlreadyMember = errors.New("user is already a member of this tenant")
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfDisable   = errors.New("you cannot disable your own account")
)

// UserService manages the members of the current tenant.
type UserService interface {
	Invite(ctx context.Context, req InviteUserRequest) (*UserResponse, error)
	List(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	Get(ctx context.Context, userID uuid.UUID) (*MemberResponse, error)
	Disable(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	users     repository.UserRepository
	tenants   repository.TenantRepository
	roles     repository.RoleRepository
	subs      SubscriptionService
	audit     AuditService
	txManager repository.TransactionManager
}

func NewUserService(
	users repository.UserRepository,
	tenants repository.TenantRepository,
	roles repository.RoleRepository,
	subs SubscriptionService,
	audit AuditService,
	txManager repository.TransactionManager,
) UserService {
	return &userService{
		users:     users,
		tenants:   tenants,
		roles:     roles,
		subs:      subs,
		audit:     audit,
		txManager: txManager,
	}
}

// Invite adds a user to the current tenant, creating the account when the
// email is new. Existing accounts join with their current password.
func (s *userService) Invite(ctx context.Context, req InviteUserRequest) (*UserResponse, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}

	if err := s.subs.CanAddUser(ctx); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.users.GetByEmail(txCtx, req.Email)
		switch {
		case err == nil:
			user = existing
			if _, err := s.tenants.GetMembership(txCtx, user.ID, rc.Tenant.ID); err == nil {
				return ErrAlreadyMember
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = &model.User{
				Email:        model.NormalizeEmail(req.Email),
				FullName:     req.FullName,
				IsActive:     true,
				TokenVersion: 1,
			}
			if err := user.SetPassword(req.Password); err != nil {
				return err
			}
			if err := s.users.Create(txCtx, user); err != nil {
				return err
			}
		default:
			return err
		}

		actor := rc.User.ID
		return s.tenants.AddMember(txCtx, &model.TenantUser{
			UserID:    user.ID,
			TenantID:  rc.Tenant.ID,
			InvitedBy: &actor,
		})
	})
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]interface{}{"email": user.Email})
	s.audit.Record(ctx, model.ActionMemberInvited, user.ID.String(), user.FullName, details)
	return mapUser(user), nil
}

func (s *userService) List(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, 0, tenancy.ErrMissingTenantContext
	}

	users, total, err := s.users.ListByTenant(ctx, rc.Tenant.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *mapUser(&users[i]))
	}
	return out, total, nil
}

func (s *userService) Get(ctx context.Context, userID uuid.UUID) (*MemberResponse, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrMissingTenantContext
	}

	if _, err := s.tenants.GetMembership(ctx, userID, rc.Tenant.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	assignments, err := s.roles.ListUserAssignments(ctx, userID, rc.Tenant.ID)
	if err != nil {
		return nil, err
	}
	return &MemberResponse{UserResponse: *mapUser(user), Roles: assignments}, nil
}

// Disable deactivates the account and revokes its outstanding tokens.
func (s *userService) Disable(ctx context.Context, userID uuid.UUID) error {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return tenancy.ErrMissingTenantContext
	}
	if userID == rc.User.ID {
		return ErrSelfDisable
	}

	if _, err := s.tenants.GetMembership(ctx, userID, rc.Tenant.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.users.BumpTokenVersion(ctx, userID); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionMemberDisabled, user.ID.String(), user.FullName, nil)
	return nil
}
