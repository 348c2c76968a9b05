package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

// activity records the side effects of a successful mutation: an audit log
// entry and a domain event. Failures are logged and never returned.
type activity struct {
	auditLogSvc domain.AuditLogService
	publisher   domain.EventPublisher
	logger      logger.Logger
}

func newActivity(auditLogSvc domain.AuditLogService, publisher domain.EventPublisher, logger logger.Logger) *activity {
	return &activity{
		auditLogSvc: auditLogSvc,
		publisher:   publisher,
		logger:      logger,
	}
}

func (a *activity) record(
	ctx context.Context,
	entityType domain.EntityType,
	action domain.ActionType,
	entityID, userID primitive.ObjectID,
	details string,
	payload interface{},
) {
	fields := logger.Fields{
		"entity_type": entityType,
		"entity_id":   entityID.Hex(),
		"action":      action,
	}

	if err := a.auditLogSvc.LogAction(ctx, entityType, entityID, action, details); err != nil {
		a.logger.ErrorContext(ctx, "Audit log could not be written", withError(fields, err))
	}

	event, err := domain.NewEvent(entityType, action, entityID, userID, payload)
	if err != nil {
		a.logger.ErrorContext(ctx, "Event could not be built", withError(fields, err))
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.ErrorContext(ctx, "Event could not be published", withError(fields, err))
	}
}

func withError(fields logger.Fields, err error) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["error"] = err.Error()
	return out
}
