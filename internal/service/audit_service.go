package service

import (
	"context"

	"go.uber.org/zap"

	"storehub/internal/model"
	"storehub/internal/repository"
	"storehub/internal/tenancy"
)

// AuditService records and lists the tenant activity trail. Recording is best
// effort; a failed audit write never fails the operation that triggered it.
type AuditService interface {
	Record(ctx context.Context, action, entityID, entityName string, details []byte)
	List(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
	log  *zap.Logger
}

func NewAuditService(repo repository.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, action, entityID, entityName string, details []byte) {
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	}
	if rc, ok := tenancy.FromContext(ctx); ok {
		actor := rc.User.ID
		entry.UserID = &actor
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error("audit write failed",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	return s.repo.List(ctx, filter, page, limit)
}
