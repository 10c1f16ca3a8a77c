package repository

import (
	"context"

	"github.com/google/uuid"

	"storehub/internal/model"
)

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	Action string
	UserID *uuid.UUID
}

// AuditRepository persists the tenant activity trail. Everything goes through
// the scope guard, so one tenant's trail is invisible to every other.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	scoped *ScopedDB
}

func NewAuditRepository(scoped *ScopedDB) AuditRepository {
	return &auditRepository{scoped: scoped}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.scoped.Create(ctx, entry)
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	countQ, err := r.scoped.Read(ctx, &model.AuditLog{})
	if err != nil {
		return nil, 0, err
	}
	if filter.Action != "" {
		countQ = countQ.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		countQ = countQ.Where("user_id = ?", *filter.UserID)
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q, err := r.scoped.Read(ctx, &model.AuditLog{})
	if err != nil {
		return nil, 0, err
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var entries []model.AuditLog
	offset := (page - 1) * limit
	err = q.Preload("User").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
