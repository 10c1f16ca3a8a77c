package model

import (
	"time"

	"github.com/google/uuid"
)

// Store is a location/branch owned by exactly one tenant. The owning
// tenant_id is immutable after creation.
type Store struct {
	TenantScopedModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Address  string `gorm:"type:text" json:"address,omitempty"`
	Phone    string `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// StoreUser grants a user access to one store. The tenant_id is denormalized
// from the store and must always match it; the resolver fails closed when it
// does not.
type StoreUser struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_store_users" json:"user_id"`
	StoreID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_store_users" json:"store_id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	AssignedAt time.Time  `gorm:"not null;autoCreateTime" json:"assigned_at"`
	AssignedBy *uuid.UUID `gorm:"type:uuid" json:"assigned_by,omitempty"`
}
