package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus is the billing state of a tenant subscription.
type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Plan describes a purchasable tier. Nil limits mean unlimited.
type Plan struct {
	BaseModel
	Slug         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	PriceMonthly decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price_monthly"`
	PriceYearly  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price_yearly"`
	MaxUsers     *int            `json:"max_users,omitempty"`
	MaxStores    *int            `json:"max_stores,omitempty"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
}

// Subscription ties a tenant to a plan. One live subscription per tenant.
type Subscription struct {
	BaseModel
	TenantID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	PlanID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan             *Plan              `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Status           SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trialing'" json:"status"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end,omitempty"`
	CanceledAt       *time.Time         `json:"canceled_at,omitempty"`
}

// IsUsable reports whether the subscription permits normal operation.
func (s *Subscription) IsUsable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
