package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel holds the columns shared by every table.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TenantScopedModel is embedded by every entity that belongs to exactly one
// tenant. The Query Scope Guard keys off the TenantScoped interface to inject
// the tenant predicate into every query touching such an entity.
type TenantScopedModel struct {
	BaseModel
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// StoreScopedModel is embedded by entities scoped to both a tenant AND a
// single store within it.
type StoreScopedModel struct {
	TenantScopedModel
	StoreID uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
}

// TenantScoped is satisfied by any entity embedding TenantScopedModel.
type TenantScoped interface {
	GetTenantID() uuid.UUID
	SetTenantID(id uuid.UUID)
}

// StoreScoped is satisfied by any entity embedding StoreScopedModel.
type StoreScoped interface {
	TenantScoped
	GetStoreID() uuid.UUID
	SetStoreID(id uuid.UUID)
}

func (m *TenantScopedModel) GetTenantID() uuid.UUID   { return m.TenantID }
func (m *TenantScopedModel) SetTenantID(id uuid.UUID) { m.TenantID = id }

// StampCreated records the acting user on insert.
func (m *TenantScopedModel) StampCreated(by *uuid.UUID) { m.CreatedBy = by }

// StampUpdated records the acting user on update.
func (m *TenantScopedModel) StampUpdated(by *uuid.UUID) { m.UpdatedBy = by }

func (m *StoreScopedModel) GetStoreID() uuid.UUID   { return m.StoreID }
func (m *StoreScopedModel) SetStoreID(id uuid.UUID) { m.StoreID = id }
