package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/tenancy"
)

// ScopedDB is the only data-access path for tenant-owned entities. Every read
// it builds carries the tenant predicate (and store predicate for
// store-scoped entities) taken from the request context; every write is
// stamped with the same scope. A scoped operation without a resolved request
// context fails with ErrMissingTenantContext rather than running unscoped.
//
// System code paths (migrations, seeders) bypass the guard only through
// tenancy.WithSystemAccess, and every bypass is logged with its reason.
type ScopedDB struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewScopedDB wraps the root handle.
func NewScopedDB(db *gorm.DB, log *zap.Logger) *ScopedDB {
	return &ScopedDB{db: db, log: log}
}

type scope struct {
	tenantID uuid.UUID
	storeID  *uuid.UUID // set only for store-scoped entities
	actor    *uuid.UUID
	bypass   bool
}

// resolve derives the scope to enforce for entity m from ctx.
func (s *ScopedDB) resolve(ctx context.Context, m model.TenantScoped) (scope, error) {
	if reason, ok := tenancy.SystemAccessReason(ctx); ok {
		s.log.Info("tenant scope bypassed",
			zap.String("reason", reason),
			zap.String("entity", fmt.Sprintf("%T", m)),
		)
		return scope{bypass: true}, nil
	}

	rc, ok := tenancy.FromContext(ctx)
	if !ok {
		s.log.Error("scoped query without request context",
			zap.String("entity", fmt.Sprintf("%T", m)),
		)
		return scope{}, tenancy.ErrMissingTenantContext
	}

	sc := scope{tenantID: rc.Tenant.ID}
	if rc.User != nil {
		id := rc.User.ID
		sc.actor = &id
	}
	if _, storeScoped := m.(model.StoreScoped); storeScoped {
		if rc.Store == nil {
			return scope{}, tenancy.ErrStoreContextRequired
		}
		id := rc.Store.ID
		sc.storeID = &id
	}
	return sc, nil
}

// Read returns a query builder over m's table with the scope predicates
// already applied. Callers chain their own filters and finishers onto it.
func (s *ScopedDB) Read(ctx context.Context, m model.TenantScoped) (*gorm.DB, error) {
	sc, err := s.resolve(ctx, m)
	if err != nil {
		return nil, err
	}
	tx := GetDB(ctx, s.db).Model(m)
	if sc.bypass {
		return tx, nil
	}
	tx = tx.Where("tenant_id = ?", sc.tenantID)
	if sc.storeID != nil {
		tx = tx.Where("store_id = ?", *sc.storeID)
	}
	return tx, nil
}

// Create stamps m with the resolved tenant (and store) plus the acting user,
// then inserts it. An entity pre-filled with a different tenant is rejected;
// the owning tenant is never taken from client input.
func (s *ScopedDB) Create(ctx context.Context, m model.TenantScoped) error {
	sc, err := s.resolve(ctx, m)
	if err != nil {
		return err
	}
	if sc.bypass {
		return GetDB(ctx, s.db).Create(m).Error
	}

	if existing := m.GetTenantID(); existing != uuid.Nil && existing != sc.tenantID {
		s.log.Error("cross-tenant create rejected",
			zap.String("entity", fmt.Sprintf("%T", m)),
			zap.String("entity_tenant", existing.String()),
			zap.String("context_tenant", sc.tenantID.String()),
		)
		return tenancy.ErrTenantAccessDenied
	}
	m.SetTenantID(sc.tenantID)
	if ss, ok := m.(model.StoreScoped); ok {
		ss.SetStoreID(*sc.storeID)
	}
	if stamper, ok := m.(interface{ StampCreated(*uuid.UUID) }); ok {
		stamper.StampCreated(sc.actor)
	}
	return GetDB(ctx, s.db).Create(m).Error
}

// Save persists changes to m after verifying it belongs to the current scope.
func (s *ScopedDB) Save(ctx context.Context, m model.TenantScoped) error {
	sc, err := s.resolve(ctx, m)
	if err != nil {
		return err
	}
	if sc.bypass {
		return GetDB(ctx, s.db).Save(m).Error
	}

	if m.GetTenantID() != sc.tenantID {
		s.log.Error("cross-tenant save rejected",
			zap.String("entity", fmt.Sprintf("%T", m)),
			zap.String("entity_tenant", m.GetTenantID().String()),
			zap.String("context_tenant", sc.tenantID.String()),
		)
		return tenancy.ErrTenantAccessDenied
	}
	if sc.storeID != nil {
		if ss := m.(model.StoreScoped); ss.GetStoreID() != *sc.storeID {
			return tenancy.ErrStoreAccessDenied
		}
	}
	if stamper, ok := m.(interface{ StampUpdated(*uuid.UUID) }); ok {
		stamper.StampUpdated(sc.actor)
	}
	return GetDB(ctx, s.db).Save(m).Error
}

// Delete soft-deletes rows of m's type matching conds, never reaching outside
// the current scope.
func (s *ScopedDB) Delete(ctx context.Context, m model.TenantScoped, conds ...interface{}) error {
	tx, err := s.Read(ctx, m)
	if err != nil {
		return err
	}
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	return tx.Delete(m).Error
}
