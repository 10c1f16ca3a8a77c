package model

import "github.com/google/uuid"

// Audit actions recorded by the services.
const (
	ActionRoleAssigned   = "ROLE_ASSIGNED"
	ActionRoleRevoked    = "ROLE_REVOKED"
	ActionRoleCreated    = "ROLE_CREATED"
	ActionRoleUpdated    = "ROLE_UPDATED"
	ActionRoleDeleted    = "ROLE_DELETED"
	ActionStoreCreated   = "STORE_CREATED"
	ActionStoreUpdated   = "STORE_UPDATED"
	ActionStoreDeleted   = "STORE_DELETED"
	ActionMemberInvited  = "MEMBER_INVITED"
	ActionMemberDisabled = "MEMBER_DISABLED"
	ActionStoreAccess    = "STORE_ACCESS_CHANGED"
)

// AuditLog tracks who did what inside a tenant. Tenant-scoped, so every read
// goes through the Query Scope Guard and can never leak across tenants.
type AuditLog struct {
	TenantScopedModel
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(64);index" json:"entity_id,omitempty"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details,omitempty"`
}
