package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named permission bundle owned by exactly one tenant. System roles
// are seeded at tenant bootstrap and protected from rename and deletion.
type Role struct {
	TenantScopedModel
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex:uq_roles_tenant_name" json:"name"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	IsSystemRole bool   `gorm:"not null;default:false" json:"is_system_role"`
}

// Permission is a global, code-defined capability named resource.action.
// Rows are synced from the in-code registry at startup; users never create
// them.
type Permission struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Resource    string `gorm:"type:varchar(50);not null;index" json:"resource"`
	Action      string `gorm:"type:varchar(50);not null" json:"action"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// UserRole assigns a role to a user. A nil store_id means the role applies
// tenant-wide; a set store_id narrows it to that store. Store-scoped
// assignments only ever add permissions on top of tenant-wide ones.
// Unique per (user, role, store).
type UserRole struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_roles" json:"user_id"`
	RoleID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_roles" json:"role_id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_roles_user_tenant,priority:2;index" json:"tenant_id"`
	StoreID    *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_user_roles" json:"store_id,omitempty"`
	AssignedAt time.Time  `gorm:"not null;autoCreateTime" json:"assigned_at"`
	AssignedBy *uuid.UUID `gorm:"type:uuid" json:"assigned_by,omitempty"`
}

// IsTenantWide reports whether the assignment applies across the whole tenant.
func (ur *UserRole) IsTenantWide() bool { return ur.StoreID == nil }

// RolePermission links one permission to one role. Unique per pair.
type RolePermission struct {
	BaseModel
	RoleID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_role_permissions" json:"role_id"`
	PermissionID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_role_permissions" json:"permission_id"`
}
