package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EntityType string
type ActionType string

const (
	EntityTypeUser     EntityType = "user"
	EntityTypeCategory EntityType = "category"
	EntityTypeBlog     EntityType = "blog"

	ActionTypeCreate ActionType = "create"
	ActionTypeUpdate ActionType = "update"
	ActionTypeDelete ActionType = "delete"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeUser, EntityTypeCategory, EntityTypeBlog:
		return true
	}
	return false
}

type AuditLog struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EntityType EntityType         `json:"entityType" bson:"entityType"`
	EntityID   primitive.ObjectID `json:"entityId" bson:"entityId"`
	Action     ActionType         `json:"action" bson:"action"`
	Details    string             `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// AuditLogFilter narrows a listing; zero fields are ignored.
type AuditLogFilter struct {
	EntityType EntityType
	EntityID   primitive.ObjectID
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	Find(ctx context.Context, filter AuditLogFilter, limit, offset int) ([]*AuditLog, error)
}

type AuditLogService interface {
	LogAction(ctx context.Context, entityType EntityType, entityID primitive.ObjectID, action ActionType, details string) error
	GetLogs(ctx context.Context, filter AuditLogFilter, page, pageSize int) ([]*AuditLog, error)
}
