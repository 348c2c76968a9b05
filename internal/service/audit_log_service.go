package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type AuditLogService struct {
	repo   domain.AuditLogRepository
	logger logger.Logger
}

func NewAuditLogService(repo domain.AuditLogRepository, logger logger.Logger) domain.AuditLogService {
	return &AuditLogService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuditLogService) LogAction(ctx context.Context, entityType domain.EntityType, entityID primitive.ObjectID, action domain.ActionType, details string) error {
	auditLog := &domain.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
	}

	if err := s.repo.Create(ctx, auditLog); err != nil {
		return domain.Storage("Error in writing audit log", err)
	}

	return nil
}

func (s *AuditLogService) GetLogs(ctx context.Context, filter domain.AuditLogFilter, page, pageSize int) ([]*domain.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	offset, err := domain.PageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.Find(ctx, filter, pageSize, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "Audit logs could not be fetched", logger.Fields{
			"entity_type": filter.EntityType,
			"page":        page,
			"page_size":   pageSize,
			"error":       err.Error(),
		})
		return nil, domain.Storage("Error in fetching audit logs", err)
	}

	return logs, nil
}
