package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus is the lifecycle state of a tenant account.
type TenantStatus string

const (
	TenantTrial     TenantStatus = "trial"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantCanceled  TenantStatus = "canceled"
)

// Tenant is the top-level isolation boundary (a company). All tenant-scoped
// rows carry its id and never cross it.
type Tenant struct {
	BaseModel
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Status      TenantStatus   `gorm:"type:varchar(20);not null;default:'trial';index" json:"status"`
	TrialEndsAt *time.Time     `json:"trial_ends_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanServe reports whether requests may resolve against this tenant.
func (t *Tenant) CanServe() bool {
	return t.Status == TenantActive || t.Status == TenantTrial
}

// TenantUser links a user to a tenant, establishing membership.
// Unique per (user, tenant).
type TenantUser struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_tenant_users" json:"user_id"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_tenant_users" json:"tenant_id"`
	JoinedAt  time.Time  `gorm:"not null;autoCreateTime" json:"joined_at"`
	InvitedBy *uuid.UUID `gorm:"type:uuid" json:"invited_by,omitempty"`
}
