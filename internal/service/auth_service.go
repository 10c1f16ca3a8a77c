package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/repository"
	"storehub/internal/tenancy"
	"storehub/internal/token"
)

const trialPeriod = 14 * 24 * time.Hour

// DTOs for Request validation
type RegisterRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantSlug string `json:"tenant_slug"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	IsActive bool      `json:"is_active"`
}

type TenantResponse struct {
	ID     uuid.UUID          `json:"id"`
	Name   string             `json:"name"`
	Slug   string             `json:"slug"`
	Status model.TenantStatus `json:"status"`
}

// TenantOption is one selectable tenant for users belonging to several.
type TenantOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type AuthResponse struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         *UserResponse   `json:"user,omitempty"`
	Tenant       *TenantResponse `json:"tenant,omitempty"`
	// Tenants is set instead of tokens when the user must pick a tenant.
	Tenants []TenantOption `json:"tenants,omitempty"`
}

type MeResponse struct {
	User        *UserResponse   `json:"user"`
	Tenant      *TenantResponse `json:"tenant"`
	Store       *model.Store    `json:"store,omitempty"`
	Permissions []string        `json:"permissions"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService handles registration, login and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error)
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	Me(ctx context.Context) (*MeResponse, error)
}

type authService struct {
	users     repository.UserRepository
	tenants   repository.TenantRepository
	roles     repository.RoleRepository
	subs      repository.SubscriptionRepository
	codec     *token.Codec
	resolver  *tenancy.ContextResolver
	txManager repository.TransactionManager
}

func NewAuthService(
	users repository.UserRepository,
	tenants repository.TenantRepository,
	roles repository.RoleRepository,
	subs repository.SubscriptionRepository,
	codec *token.Codec,
	resolver *tenancy.ContextResolver,
	txManager repository.TransactionManager,
) AuthService {
	return &authService{
		users:     users,
		tenants:   tenants,
		roles:     roles,
		subs:      subs,
		codec:     codec,
		resolver:  resolver,
		txManager: txManager,
	}
}

func mapUser(u *model.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}

func mapTenant(t *model.Tenant) *TenantResponse {
	return &TenantResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, Status: t.Status}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a counter until the slug is free.
func (s *authService) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "tenant"
	}
	slug := base
	for i := 2; ; i++ {
		_, err := s.tenants.GetBySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Register bootstraps a new tenant: owner account, membership, the default
// role set with the Owner role assigned tenant-wide, and a trial subscription
// on the free plan. Everything runs in one transaction.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var (
		user   *model.User
		tenant *model.Tenant
	)

	// Bootstrap runs before any request context exists, so scoped writes
	// carry an explicit system access marker.
	sysCtx := tenancy.WithSystemAccess(ctx, "tenant bootstrap")

	err := s.txManager.RunInTx(sysCtx, func(txCtx context.Context) error {
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

		slug, err := s.uniqueSlug(txCtx, slugify(req.CompanyName))
		if err != nil {
			return err
		}
		trialEnd := time.Now().Add(trialPeriod)
		tenant = &model.Tenant{
			Name:        req.CompanyName,
			Slug:        slug,
			Status:      model.TenantTrial,
			TrialEndsAt: &trialEnd,
		}
		if err := s.tenants.Create(txCtx, tenant); err != nil {
			return err
		}

		if err := s.tenants.AddMember(txCtx, &model.TenantUser{
			UserID:   user.ID,
			TenantID: tenant.ID,
		}); err != nil {
			return err
		}

		ownerRole, err := seedTenantRoles(txCtx, s.roles, tenant.ID)
		if err != nil {
			return err
		}
		if err := s.roles.Assign(txCtx, &model.UserRole{
			UserID:   user.ID,
			RoleID:   ownerRole.ID,
			TenantID: tenant.ID,
		}); err != nil {
			return err
		}

		freePlan, err := s.subs.GetPlanBySlug(txCtx, "free")
		if err != nil {
			return err
		}
		return s.subs.Create(txCtx, &model.Subscription{
			TenantID:         tenant.ID,
			PlanID:           freePlan.ID,
			Status:           model.SubscriptionTrialing,
			CurrentPeriodEnd: &trialEnd,
		})
	})
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.codec.IssuePair(user.ID, tenant.ID, user.TokenVersion)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         mapUser(user),
		Tenant:       mapTenant(tenant),
	}, nil
}

// Login authenticates by email and password and binds the session to one
// tenant. Users belonging to several tenants get the list back and retry with
// tenant_slug; disabled accounts and wrong passwords are indistinguishable.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	memberships, err := s.tenants.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrInvalidCredentials
	}

	var tenant *model.Tenant
	if req.TenantSlug != "" {
		t, err := s.tenants.GetBySlug(ctx, req.TenantSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, tenancy.ErrTenantNotFound
			}
			return nil, err
		}
		if !memberOf(memberships, t.ID) {
			return nil, tenancy.ErrTenantAccessDenied
		}
		tenant = t
	} else if len(memberships) == 1 {
		t, err := s.tenants.GetByID(ctx, memberships[0].TenantID)
		if err != nil {
			return nil, err
		}
		tenant = t
	} else {
		options := make([]TenantOption, 0, len(memberships))
		for _, m := range memberships {
			t, err := s.tenants.GetByID(ctx, m.TenantID)
			if err != nil {
				return nil, err
			}
			if t.CanServe() {
				options = append(options, TenantOption{ID: t.ID, Name: t.Name, Slug: t.Slug})
			}
		}
		return &AuthResponse{User: mapUser(user), Tenants: options}, nil
	}

	if !tenant.CanServe() {
		if tenant.Status == model.TenantSuspended {
			return nil, tenancy.ErrTenantSuspended
		}
		return nil, tenancy.ErrTenantNotFound
	}

	access, refresh, err := s.codec.IssuePair(user.ID, tenant.ID, user.TokenVersion)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         mapUser(user),
		Tenant:       mapTenant(tenant),
	}, nil
}

func memberOf(memberships []model.TenantUser, tenantID uuid.UUID) bool {
	for _, m := range memberships {
		if m.TenantID == tenantID {
			return true
		}
	}
	return false
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *authService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	user, tenant, err := s.resolver.ResolveRefresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.codec.IssuePair(user.ID, tenant.ID, user.TokenVersion)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         mapUser(user),
		Tenant:       mapTenant(tenant),
	}, nil
}

// LogoutAll revokes every outstanding token for the user by bumping the token
// version.
func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.users.BumpTokenVersion(ctx, userID)
}

// ChangePassword sets a new password and revokes all existing sessions.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.users.BumpTokenVersion(ctx, userID)
}

// Me returns the resolved identity, tenant, bound store and effective
// permissions of the current request.
func (s *authService) Me(ctx context.Context) (*MeResponse, error) {
	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, tenancy.ErrUnauthenticated
	}
	perms, err := rc.Permissions(ctx)
	if err != nil {
		return nil, err
	}
	return &MeResponse{
		User:        mapUser(rc.User),
		Tenant:      mapTenant(rc.Tenant),
		Store:       rc.Store,
		Permissions: perms.Names(),
	}, nil
}

// seedTenantRoles creates the default system roles for a new tenant and
// returns the Owner role.
func seedTenantRoles(ctx context.Context, roles repository.RoleRepository, tenantID uuid.UUID) (*model.Role, error) {
	var owner *model.Role
	for _, def := range tenancy.DefaultRoles() {
		role := &model.Role{
			Name:         def.Name,
			Description:  def.Description,
			IsSystemRole: true,
		}
		role.TenantID = tenantID
		if err := roles.CreateRole(ctx, role); err != nil {
			return nil, err
		}

		perms, err := roles.GetPermissionsByNames(ctx, def.Permissions)
		if err != nil {
			return nil, err
		}
		permIDs := make([]uuid.UUID, 0, len(perms))
		for _, p := range perms {
			permIDs = append(permIDs, p.ID)
		}
		if err := roles.ReplaceGrants(ctx, role.ID, permIDs); err != nil {
			return nil, err
		}

		if def.Name == "Owner" {
			owner = role
		}
	}
	if owner == nil {
		return nil, errors.New("default role set has no owner role")
	}
	return owner, nil
}
