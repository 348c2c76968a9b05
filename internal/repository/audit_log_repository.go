package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogapi/internal/domain"
	"blogapi/pkg/database"
	"blogapi/pkg/logger"
)

type AuditLogRepository struct {
	cm     *database.ConnectionManager
	logger logger.Logger
}

func NewAuditLogRepository(cm *database.ConnectionManager, logger logger.Logger) domain.AuditLogRepository {
	return &AuditLogRepository{
		cm:     cm,
		logger: logger,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	coll, err := r.cm.Collection(ctx, auditLogsCollection)
	if err != nil {
		return err
	}

	log.CreatedAt = now()

	start := time.Now()
	res, err := coll.InsertOne(ctx, log)
	record("insert_one", auditLogsCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Audit log could not be created", logger.Fields{"error": err.Error()})
		return fmt.Errorf("audit log could not be created: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		log.ID = id
	}
	return nil
}

// Find returns logs newest first.
func (r *AuditLogRepository) Find(ctx context.Context, filter domain.AuditLogFilter, limit, offset int) ([]*domain.AuditLog, error) {
	coll, err := r.cm.Collection(ctx, auditLogsCollection)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if filter.EntityType != "" {
		query["entityType"] = filter.EntityType
	}
	if !filter.EntityID.IsZero() {
		query["entityId"] = filter.EntityID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := coll.Find(ctx, query, opts)
	record("find", auditLogsCollection, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Audit logs could not be listed", logger.Fields{
			"entity_type": filter.EntityType,
			"limit":       limit,
			"offset":      offset,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("audit logs could not be listed: %w", err)
	}

	logs := make([]*domain.AuditLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("audit logs could not be decoded: %w", err)
	}

	return logs, nil
}
